package assessment

import "math"

// NumBuckets is the number of quality buckets in a NIMA score
// distribution. Bucket i carries the probability of score i+1.
const NumBuckets = 10

// MeanScore computes the weighted mean of a score distribution:
// sum(scores[i] * (i+1)).
func MeanScore(scores []float64) float64 {
	var mean float64
	for i, p := range scores {
		mean += p * float64(i+1)
	}
	return mean
}

// StdScore computes the standard deviation of a score distribution
// around its weighted mean.
func StdScore(scores []float64) float64 {
	mean := MeanScore(scores)
	var variance float64
	for i, p := range scores {
		d := float64(i+1) - mean
		variance += p * d * d
	}
	return math.Sqrt(variance)
}

// OverallScore combines the aesthetic and technical means into a single
// quality score.
func OverallScore(aestheticMean, technicalMean float64) float64 {
	return (aestheticMean + technicalMean) / 2
}

// DistributionSum returns the total probability mass of a distribution.
// A well-formed model output sums to approximately 1; callers use this
// to warn about malformed result files.
func DistributionSum(scores []float64) float64 {
	var sum float64
	for _, p := range scores {
		sum += p
	}
	return sum
}

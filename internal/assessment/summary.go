package assessment

import "sort"

// ModelSummary contains aggregate statistics for one model type.
type ModelSummary struct {
	Assessed     int     `json:"assessed" yaml:"assessed"`
	AverageScore float64 `json:"average_score" yaml:"averagescore"`
	MedianScore  float64 `json:"median_score" yaml:"medianscore"`
	MinScore     float64 `json:"min_score" yaml:"minscore"`
	MaxScore     float64 `json:"max_score" yaml:"maxscore"`
}

// RunSummary contains aggregate metrics for one assessment run.
type RunSummary struct {
	TotalInvocations int                         `json:"total_invocations" yaml:"totalinvocations"`
	Succeeded        int                         `json:"succeeded" yaml:"succeeded"`
	Failed           int                         `json:"failed" yaml:"failed"`
	ByModel          map[ModelType]*ModelSummary `json:"by_model" yaml:"bymodel"`
}

// Summarize aggregates the results of a run. failed counts container
// invocations that produced no usable result file.
func Summarize(results []Result, failed int) *RunSummary {
	summary := &RunSummary{
		TotalInvocations: len(results) + failed,
		Succeeded:        len(results),
		Failed:           failed,
		ByModel:          make(map[ModelType]*ModelSummary),
	}

	scoresByModel := make(map[ModelType][]float64)
	for _, result := range results {
		scoresByModel[result.ModelType] = append(scoresByModel[result.ModelType], result.MeanScore)
	}

	for mt, scores := range scoresByModel {
		sort.Float64s(scores)

		var total float64
		for _, score := range scores {
			total += score
		}

		mid := len(scores) / 2
		median := scores[mid]
		if len(scores)%2 == 0 {
			median = (scores[mid-1] + scores[mid]) / 2
		}

		summary.ByModel[mt] = &ModelSummary{
			Assessed:     len(scores),
			AverageScore: total / float64(len(scores)),
			MedianScore:  median,
			MinScore:     scores[0],
			MaxScore:     scores[len(scores)-1],
		}
	}

	return summary
}

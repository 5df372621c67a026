// Package visualize renders score distributions next to a thumbnail of
// the scored image as a single PNG.
package visualize

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/imagequality/nima/internal/assessment"
)

const (
	chartWidth  = 320
	chartHeight = 200
	margin      = 16
	thumbSize   = 440
)

var (
	aestheticColor = color.NRGBA{R: 66, G: 133, B: 244, A: 255}
	technicalColor = color.NRGBA{R: 52, G: 168, B: 83, A: 255}
	meanColor      = color.NRGBA{R: 219, G: 68, B: 55, A: 255}
	axisColor      = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
)

// renderDistribution draws the ten score buckets as a bar chart with a
// vertical marker at the weighted mean. Bars are scaled to the largest
// bucket so low-entropy distributions stay readable.
func renderDistribution(scores []float64, barColor color.NRGBA) *image.NRGBA {
	canvas := imaging.New(chartWidth, chartHeight, color.White)

	plotW := chartWidth - 2*margin
	plotH := chartHeight - 2*margin

	maxP := 0.0
	for _, p := range scores {
		if p > maxP {
			maxP = p
		}
	}
	if maxP <= 0 {
		maxP = 1
	}

	barW := plotW / assessment.NumBuckets
	for i, p := range scores {
		barH := int(p / maxP * float64(plotH))
		if barH < 1 {
			barH = 1
		}
		bar := imaging.New(barW-4, barH, barColor)
		x := margin + i*barW + 2
		y := chartHeight - margin - barH
		canvas = imaging.Paste(canvas, bar, image.Pt(x, y))
	}

	axis := imaging.New(plotW, 1, axisColor)
	canvas = imaging.Paste(canvas, axis, image.Pt(margin, chartHeight-margin))

	mean := assessment.MeanScore(scores)
	markerX := margin + int((mean-1)/float64(assessment.NumBuckets-1)*float64(plotW-2))
	marker := imaging.New(2, plotH, meanColor)
	canvas = imaging.Paste(canvas, marker, image.Pt(markerX, margin))

	return canvas
}

// RenderImageScores composes a thumbnail of the source image with one
// distribution chart per available model type. At least one of
// aesthetic/technical must be non-nil.
func RenderImageScores(imagePath string, aesthetic, technical []float64) (*image.NRGBA, error) {
	if aesthetic == nil && technical == nil {
		return nil, fmt.Errorf("no score distributions to render for %s", imagePath)
	}

	src, err := imaging.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", imagePath, err)
	}
	thumb := imaging.Fit(src, thumbSize, thumbSize, imaging.Lanczos)

	var charts []*image.NRGBA
	if aesthetic != nil {
		charts = append(charts, renderDistribution(aesthetic, aestheticColor))
	}
	if technical != nil {
		charts = append(charts, renderDistribution(technical, technicalColor))
	}

	chartsH := len(charts)*(chartHeight+margin) + margin
	height := thumb.Bounds().Dy() + 2*margin
	if chartsH > height {
		height = chartsH
	}
	width := margin + thumb.Bounds().Dx() + margin + chartWidth + margin

	page := imaging.New(width, height, color.White)
	page = imaging.Paste(page, thumb, image.Pt(margin, margin))

	chartX := margin + thumb.Bounds().Dx() + margin
	y := margin
	for _, chart := range charts {
		page = imaging.Paste(page, chart, image.Pt(chartX, y))
		y += chartHeight + margin
	}

	return page, nil
}

// Save writes the rendered page to disk; the format follows the file
// extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save visualization %s: %w", path, err)
	}
	return nil
}

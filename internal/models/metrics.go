package models

import "math"

// Output column headers appended after the raw threshold columns, in order.
const (
	AreaColumn                     = "Area (µm^2)"
	PositiveAreaColumn             = "Positive Area (µm^2)"
	TissueAreaColumn               = "Tissue Area (µm^2)"
	PositiveAreaInTissueColumn     = "Positive Area in Tissue (µm^2)"
	PositiveFractionColumn         = "Positive Fraction (%)"
	PositiveFractionInTissueColumn = "Positive Fraction in Tissue (%)"
)

var MetricColumns = []string{
	AreaColumn,
	PositiveAreaColumn,
	TissueAreaColumn,
	PositiveAreaInTissueColumn,
	PositiveFractionColumn,
	PositiveFractionInTissueColumn,
}

const (
	areaDigits     = 2
	fractionDigits = 5
)

// ChannelCounts are the raw pixel counts behind one channel's metrics.
type ChannelCounts struct {
	Total            int
	Positive         int
	Tissue           int
	PositiveInTissue int
}

// ChannelMetrics holds areas in µm² and fractions in percent. Fractions with
// a zero denominator are NaN.
type ChannelMetrics struct {
	Area                     float64
	PositiveArea             float64
	TissueArea               float64
	PositiveAreaInTissue     float64
	PositiveFraction         float64
	PositiveFractionInTissue float64
}

// NewChannelMetrics scales counts by the squared pixel edge length and
// derives both fractions from the unrounded areas.
func NewChannelMetrics(counts ChannelCounts, pixelSize float64) ChannelMetrics {
	px := pixelSize * pixelSize
	m := ChannelMetrics{
		Area:                 float64(counts.Total) * px,
		PositiveArea:         float64(counts.Positive) * px,
		TissueArea:           float64(counts.Tissue) * px,
		PositiveAreaInTissue: float64(counts.PositiveInTissue) * px,
	}
	m.PositiveFraction = percent(m.PositiveArea, m.Area)
	m.PositiveFractionInTissue = percent(m.PositiveAreaInTissue, m.TissueArea)
	return m
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return math.NaN()
	}
	return 100 * part / whole
}

// Rounded returns the display copy: areas to 2 decimals, fractions to 5.
func (m ChannelMetrics) Rounded() ChannelMetrics {
	return ChannelMetrics{
		Area:                     Round(m.Area, areaDigits),
		PositiveArea:             Round(m.PositiveArea, areaDigits),
		TissueArea:               Round(m.TissueArea, areaDigits),
		PositiveAreaInTissue:     Round(m.PositiveAreaInTissue, areaDigits),
		PositiveFraction:         Round(m.PositiveFraction, fractionDigits),
		PositiveFractionInTissue: Round(m.PositiveFractionInTissue, fractionDigits),
	}
}

// Values lists the metrics in MetricColumns order.
func (m ChannelMetrics) Values() []float64 {
	return []float64{
		m.Area,
		m.PositiveArea,
		m.TissueArea,
		m.PositiveAreaInTissue,
		m.PositiveFraction,
		m.PositiveFractionInTissue,
	}
}

// Round rounds half to even at the given number of decimals. NaN and
// infinities pass through.
func Round(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(digits))
	return math.RoundToEven(v*scale) / scale
}

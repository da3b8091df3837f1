// Package metrics computes the tissue mask and per-channel positive-area
// statistics for one slide.
package metrics

import (
	"context"
	"fmt"
	"math"
	"time"

	"positive-area/internal/logger"
	"positive-area/internal/models"
	"positive-area/internal/processing/filters"
	"positive-area/internal/pyramid"
)

// Engine works at one pyramid level. PixelSize is the edge length of a
// pixel at that level in µm.
type Engine struct {
	Level     int
	PixelSize float64
	Smoother  filters.Smoother
	logger    logger.Logger
}

// Result holds the metrics of every threshold entry, keyed by channel.
type Result struct {
	Level      int
	PixelSize  float64
	Mask       *filters.Mask
	TissueArea float64
	Counts     map[int]models.ChannelCounts
	Metrics    map[int]models.ChannelMetrics
}

func NewEngine(level int, basePixelSize float64, smoother filters.Smoother, log logger.Logger) *Engine {
	return &Engine{
		Level:     level,
		PixelSize: basePixelSize * math.Pow(2, float64(level)),
		Smoother:  smoother,
		logger:    log,
	}
}

// Compute derives the tissue mask from channel 2 and then measures every
// entry of table in order, channel 2 included.
func (e *Engine) Compute(ctx context.Context, reader pyramid.Reader, table *models.ThresholdTable) (*Result, error) {
	tissueEntry, ok := table.Entry(models.TissueChannel)
	if !ok {
		return nil, fmt.Errorf("threshold table has no channel %d", models.TissueChannel)
	}

	start := time.Now()
	smoothed := make(map[int]*pyramid.Plane)
	tissuePlane, err := e.smoothedChannel(ctx, reader, models.TissueChannel, smoothed)
	if err != nil {
		return nil, err
	}
	mask := filters.Threshold(tissuePlane, tissueEntry.Threshold)
	tissueCount := mask.Count()

	result := &Result{
		Level:      e.Level,
		PixelSize:  e.PixelSize,
		Mask:       mask,
		TissueArea: float64(tissueCount) * (e.PixelSize * e.PixelSize),
		Counts:     make(map[int]models.ChannelCounts, table.Len()),
		Metrics:    make(map[int]models.ChannelMetrics, table.Len()),
	}

	for _, entry := range table.Entries {
		plane, err := e.smoothedChannel(ctx, reader, entry.Channel, smoothed)
		if err != nil {
			return nil, err
		}
		if !plane.SameShape(tissuePlane) {
			return nil, fmt.Errorf("channel %d is %dx%d but channel %d is %dx%d",
				entry.Channel, plane.Width, plane.Height,
				models.TissueChannel, tissuePlane.Width, tissuePlane.Height)
		}

		positive := filters.Threshold(plane, entry.Threshold)
		inTissue, err := positive.CountAnd(mask)
		if err != nil {
			return nil, err
		}
		counts := models.ChannelCounts{
			Total:            plane.Len(),
			Positive:         positive.Count(),
			Tissue:           tissueCount,
			PositiveInTissue: inTissue,
		}
		result.Counts[entry.Channel] = counts
		result.Metrics[entry.Channel] = models.NewChannelMetrics(counts, e.PixelSize)

		e.logger.Debug("MetricsEngine", "channel measured", map[string]interface{}{
			"channel":            entry.Channel,
			"threshold":          entry.Threshold,
			"positive_pixels":    counts.Positive,
			"positive_in_tissue": counts.PositiveInTissue,
		})
	}

	e.logger.Info("MetricsEngine", "metrics computed", map[string]interface{}{
		"channels":      table.Len(),
		"level":         e.Level,
		"pixel_size_um": e.PixelSize,
		"tissue_pixels": tissueCount,
		"duration":      time.Since(start).String(),
	})
	return result, nil
}

// smoothedChannel loads and smooths a 1-based channel once per Compute.
func (e *Engine) smoothedChannel(ctx context.Context, reader pyramid.Reader, channel int, cache map[int]*pyramid.Plane) (*pyramid.Plane, error) {
	if p, ok := cache[channel]; ok {
		return p, nil
	}
	raw, err := reader.Plane(e.Level, channel-1)
	if err != nil {
		return nil, fmt.Errorf("load channel %d at level %d: %w", channel, e.Level, err)
	}
	p, err := e.Smoother.Smooth(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("smooth channel %d with %s: %w", channel, e.Smoother.Name(), err)
	}
	cache[channel] = p
	return p, nil
}

package models

// ProcessedResult is one slide as persisted by the single-file pipeline and
// read back by the aggregation pipeline.
type ProcessedResult struct {
	// Source is the processed workbook the result was read from.
	Source string
	Slide  SlideSpec

	Channels []int

	// Header and Rows are the enriched thresholds table as stored.
	Header []string
	Rows   [][]Cell
}

func (r *ProcessedResult) Signature() ChannelSignature {
	return NewChannelSignature(r.Channels)
}

package models

import (
	"slices"
	"strconv"
	"strings"
)

// ChannelSignature is the sorted, de-duplicated set of channels analysed for
// one slide. Results group together iff their signatures are equal.
type ChannelSignature []int

func NewChannelSignature(channels []int) ChannelSignature {
	sig := slices.Clone(channels)
	slices.Sort(sig)
	return ChannelSignature(slices.Compact(sig))
}

// Key is a comparable form usable as a map key.
func (s ChannelSignature) Key() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

// Compare orders signatures lexicographically on the tuple; a proper prefix
// sorts first.
func (s ChannelSignature) Compare(other ChannelSignature) int {
	return slices.Compare(s, other)
}

func (s ChannelSignature) String() string {
	return "[" + strings.ReplaceAll(s.Key(), ",", ", ") + "]"
}

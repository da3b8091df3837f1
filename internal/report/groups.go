package report

import (
	"fmt"
	"slices"
	"strings"

	"positive-area/internal/models"
	"positive-area/internal/results"
)

// Group is every result sharing one channel signature. Rank orders
// signatures ascending; Color is presentation only.
type Group struct {
	Rank      int
	Signature models.ChannelSignature
	Color     Color
	Results   []*models.ProcessedResult
}

func (g *Group) Label() string {
	return fmt.Sprintf("Group %d", g.Rank)
}

// Failure is a processed file that could not be read.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

type Grouping struct {
	Groups   []*Group
	Failures []Failure
}

// Files counts the results across all groups.
func (g *Grouping) Files() int {
	n := 0
	for _, group := range g.Groups {
		n += len(group.Results)
	}
	return n
}

type ReadFunc func(path string) (*models.ProcessedResult, error)

// AssignGroups reads every path with read (results.Read when nil) and groups
// what could be read. Unreadable files end up in Failures.
func AssignGroups(paths []string, read ReadFunc) *Grouping {
	if read == nil {
		read = results.Read
	}
	grouping := &Grouping{}
	var loaded []*models.ProcessedResult
	for _, path := range paths {
		res, err := read(path)
		if err != nil {
			grouping.Failures = append(grouping.Failures, Failure{Path: path, Err: err})
			continue
		}
		loaded = append(loaded, res)
	}
	grouping.Groups = Assign(loaded, Tab10)
	return grouping
}

// Assign partitions results by channel signature. Groups are ranked 1..N by
// ascending signature; within a group results are ordered by slide name
// with ties kept in input order.
func Assign(items []*models.ProcessedResult, palette Palette) []*Group {
	buckets := make(map[string]*Group)
	var groups []*Group
	for _, res := range items {
		sig := res.Signature()
		g, ok := buckets[sig.Key()]
		if !ok {
			g = &Group{Signature: sig}
			buckets[sig.Key()] = g
			groups = append(groups, g)
		}
		g.Results = append(g.Results, res)
	}

	slices.SortFunc(groups, func(a, b *Group) int {
		return a.Signature.Compare(b.Signature)
	})
	for i, g := range groups {
		g.Rank = i + 1
		g.Color = palette.ForRank(g.Rank)
		slices.SortStableFunc(g.Results, func(a, b *models.ProcessedResult) int {
			return strings.Compare(a.Slide.SlideName, b.Slide.SlideName)
		})
	}
	return groups
}

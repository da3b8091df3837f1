package models

import (
	"math"
	"strconv"
	"strings"
)

// Cell is one raw spreadsheet value. Numeric cells keep the text form the
// container stored so re-writing them is lossless.
type Cell struct {
	Value   string
	Numeric bool
}

func TextCell(s string) Cell {
	return Cell{Value: s}
}

// NumberCell formats v with the shortest representation that parses back
// to the same float64. NaN is stored as "NaN".
func NumberCell(v float64) Cell {
	if math.IsNaN(v) {
		return Cell{Value: "NaN", Numeric: true}
	}
	return Cell{Value: strconv.FormatFloat(v, 'f', -1, 64), Numeric: true}
}

func IntCell(v int) Cell {
	return Cell{Value: strconv.Itoa(v), Numeric: true}
}

func (c Cell) IsEmpty() bool {
	return strings.TrimSpace(c.Value) == ""
}

// Float parses the cell as a number. Text cells only parse when they spell
// NaN, which is how undefined metrics are persisted.
func (c Cell) Float() (float64, bool) {
	s := strings.TrimSpace(c.Value)
	if s == "" {
		return 0, false
	}
	if strings.EqualFold(s, "nan") {
		return math.NaN(), true
	}
	if !c.Numeric {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int reports whether the cell holds a whole number.
func (c Cell) Int() (int, bool) {
	v, ok := c.Float()
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(v), true
}

func (c Cell) String() string {
	return c.Value
}

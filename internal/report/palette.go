package report

import "fmt"

type Color struct {
	R, G, B uint8
}

// Hex is the uppercase RRGGBB form used for fills and tab colors.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Palette is a fixed, ordered list of qualitative colors.
type Palette []Color

// Tab10 is the ten-color qualitative palette used for group colors.
var Tab10 = Palette{
	{31, 119, 180},  // blue
	{255, 127, 14},  // orange
	{44, 160, 44},   // green
	{214, 39, 40},   // red
	{148, 103, 189}, // purple
	{140, 86, 75},   // brown
	{227, 119, 194}, // pink
	{127, 127, 127}, // gray
	{188, 189, 34},  // olive
	{23, 190, 207},  // cyan
}

// ForRank returns the color for a 1-based group rank. Ranks wrap around the
// palette, so colors repeat once there are more groups than colors and must
// not be used to tell groups apart.
func (p Palette) ForRank(rank int) Color {
	if len(p) == 0 {
		return Color{}
	}
	i := (rank - 1) % len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

package ladder

import "math"

// Layout constants, in SVG user units.
const (
	Padding          = 80.0
	RowSpacing       = 40.0
	MinColumnSpacing = 80.0
	MaxColumnSpacing = 150.0
	DefaultWidth     = 800.0
)

// Layout holds the computed geometry of a ladder drawing.
type Layout struct {
	Columns       int
	Rows          int
	ColumnSpacing float64
	PortalRadius  float64
	PortalOffset  float64
	Width         float64
	Height        float64
}

// ComputeLayout sizes a ladder of columns x rows for a target width.
// A non-positive width selects [DefaultWidth].
func ComputeLayout(columns, rows int, width float64) Layout {
	if width <= 0 {
		width = DefaultWidth
	}
	spacing := MaxColumnSpacing
	if columns > 1 {
		spacing = (width - 2*Padding) / float64(columns-1)
	}
	spacing = math.Min(math.Max(spacing, MinColumnSpacing), MaxColumnSpacing)

	radius := math.Min(18, spacing/4)
	return Layout{
		Columns:       columns,
		Rows:          rows,
		ColumnSpacing: spacing,
		PortalRadius:  radius,
		PortalOffset:  radius + math.Min(24, spacing/3),
		Width:         2*Padding + float64(max(columns-1, 0))*spacing,
		Height:        2*Padding + float64(rows)*RowSpacing,
	}
}

// X returns the horizontal position of column col.
func (l Layout) X(col int) float64 { return Padding + float64(col)*l.ColumnSpacing }

// RowY returns the vertical position of the rungs in row.
func (l Layout) RowY(row int) float64 { return Padding + float64(row+1)*RowSpacing }

// Top is where the vertical lines start.
func (l Layout) Top() float64 { return Padding }

// Bottom is where the vertical lines end.
func (l Layout) Bottom() float64 { return l.Height - Padding }

// LeftPortal is the center of the portal circle left of column 0.
func (l Layout) LeftPortal() float64 { return l.X(0) - l.PortalOffset }

// RightPortal is the center of the portal circle right of the last column.
func (l Layout) RightPortal() float64 { return l.X(l.Columns-1) + l.PortalOffset }

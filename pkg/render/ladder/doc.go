// Package ladder draws played rounds as SVG ladders.
//
// The drawing mirrors what players see on paper: one vertical line per
// participant with their ID and name on top, horizontal rungs at every row,
// and the rank numbers along the bottom. A rung in the wrap-around slot
// joins the last column to the first; it is drawn as two short stubs ending
// in portal circles outside the ladder, linked by a faint dashed curve.
//
//	svg := ladder.RenderSVG(round, ladder.WithPaths(), ladder.WithWidth(1200))
//
// [WithPaths] overlays every participant's descent in their trace color.
// A descent through a portal leaves through one circle and re-enters
// through the other.
//
// Column spacing follows the target width but is clamped between
// [MinColumnSpacing] and [MaxColumnSpacing], so very wide rosters produce a
// wider image rather than cramped columns.
package ladder

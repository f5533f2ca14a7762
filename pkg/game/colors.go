package game

// palette holds the trace colors assigned to participants by start column.
var palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8",
	"#F7DC6F", "#BB8FCE", "#85C1E2", "#F8B739", "#52B788",
	"#E63946", "#A8DADC", "#457B9D", "#F1A7BE", "#FFD166",
	"#06FFA5", "#EF476F", "#118AB2", "#073B4C", "#FFB703",
	"#FB5607", "#8338EC", "#3A86FF", "#FF006E", "#FFBE0B",
	"#7209B7", "#F72585", "#4CC9F0", "#4361EE", "#560BAD",
}

// Color returns the trace color for the participant at start column.
// Colors repeat after len(palette) participants.
func Color(start int) string {
	if start < 0 {
		start = -start
	}
	return palette[start%len(palette)]
}

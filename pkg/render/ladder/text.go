package ladder

import (
	"bytes"
	"encoding/xml"
)

const (
	labelFontSize = 14.0
	rankFontSize  = 20.0
	fontCharWidth = 0.6
)

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// truncateLabel shortens label to fit a column of the given spacing.
func truncateLabel(label string, spacing float64) string {
	maxChars := int(spacing * 0.9 / (labelFontSize * fontCharWidth))
	if maxChars < 3 {
		maxChars = 3
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

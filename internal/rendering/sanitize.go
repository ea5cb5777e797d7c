// Package rendering provides the deterministic template engine that turns a brief into channel copy.
package rendering

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to copy that had to be truncated.
const Ellipsis = "…"

// pictographic lists the Extended_Pictographic and Emoji_Presentation ranges removed from copy.
var pictographic = [][2]rune{
	{0x00A9, 0x00A9}, {0x00AE, 0x00AE},
	{0x203C, 0x203C}, {0x2049, 0x2049},
	{0x2122, 0x2122}, {0x2139, 0x2139},
	{0x2194, 0x2199}, {0x21A9, 0x21AA},
	{0x231A, 0x231B}, {0x2328, 0x2328}, {0x2388, 0x2388}, {0x23CF, 0x23CF},
	{0x23E9, 0x23F3}, {0x23F8, 0x23FA},
	{0x24C2, 0x24C2},
	{0x25AA, 0x25AB}, {0x25B6, 0x25B6}, {0x25C0, 0x25C0}, {0x25FB, 0x25FE},
	{0x2600, 0x2605}, {0x2607, 0x2612}, {0x2614, 0x2685}, {0x2690, 0x2705},
	{0x2708, 0x2712}, {0x2714, 0x2714}, {0x2716, 0x2716}, {0x271D, 0x271D},
	{0x2721, 0x2721}, {0x2728, 0x2728}, {0x2733, 0x2734}, {0x2744, 0x2744},
	{0x2747, 0x2747}, {0x274C, 0x274C}, {0x274E, 0x274E}, {0x2753, 0x2755},
	{0x2757, 0x2757}, {0x2763, 0x2767}, {0x2795, 0x2797}, {0x27A1, 0x27A1},
	{0x27B0, 0x27B0}, {0x27BF, 0x27BF},
	{0x2934, 0x2935},
	{0x2B05, 0x2B07}, {0x2B1B, 0x2B1C}, {0x2B50, 0x2B50}, {0x2B55, 0x2B55},
	{0x3030, 0x3030}, {0x303D, 0x303D}, {0x3297, 0x3297}, {0x3299, 0x3299},
	{0x1F000, 0x1FAFF},
	{0x1FC00, 0x1FFFD},
}

// isPictographic reports whether r is an emoji or pictographic code point.
func isPictographic(r rune) bool {
	if r < 0x00A9 {
		return false
	}
	for _, rg := range pictographic {
		if r < rg[0] {
			return false
		}
		if r <= rg[1] {
			return true
		}
	}
	return false
}

// StripEmoji removes emoji and pictographic code points, including the variation
// selectors and joiners that glue emoji sequences together.
func StripEmoji(text string) string {
	if text == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch {
		case r == 0xFE0F, r == 0x200D, r == 0x20E3:
			continue
		case isPictographic(r):
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Length returns the length of text in code points, the unit every character budget uses.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}

// Clamp limits text to max code points. Over-long text is cut to max-1 code points and
// suffixed with an ellipsis so the result is exactly max long. A non-positive max disables the limit.
// The cut is per code point, so combining marks after the last kept rune are dropped.
func Clamp(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max-1]) + Ellipsis
}

// Cut limits text to max code points without adding a marker.
func Cut(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max])
}

// Sanitize strips emoji and then clamps to the channel budget.
func Sanitize(text string, max int) string {
	return Clamp(StripEmoji(text), max)
}

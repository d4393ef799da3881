package utils

import (
	"regexp"
	"strings"
)

// exponentPattern matches caret exponents like x^2, 10^-6 or a^+3.
var exponentPattern = regexp.MustCompile(`\^([0-9+\-]+)`)

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻',
}

// NormalizeExponents rewrites every caret exponent in text to the
// equivalent Unicode superscript sequence. Text that already contains
// superscript characters is left untouched, so the rewrite is safe to
// apply more than once.
func NormalizeExponents(text string) string {
	if !strings.Contains(text, "^") {
		return text
	}
	return exponentPattern.ReplaceAllStringFunc(text, func(match string) string {
		var b strings.Builder
		for _, r := range match[1:] {
			if sup, ok := superscripts[r]; ok {
				b.WriteRune(sup)
			} else {
				b.WriteRune(r)
			}
		}
		return b.String()
	})
}

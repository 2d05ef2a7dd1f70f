package engine

import (
	"sort"
	"unicode"
)

// punctuationCandidates are characters that frequently open or close a
// categorized region (strings, calls, index expressions, blocks) and
// are therefore always worth probing.
var punctuationCandidates = map[rune]bool{
	'"': true, '\'': true, '`': true,
	'(': true, ')': true,
	'[': true, ']': true,
	'{': true, '}': true,
}

// sampleColumns picks candidate columns likely to sit on a category
// transition: the first and last column, every word/non-word boundary
// (both sides), and every quote or bracket character. Category
// boundaries overwhelmingly coincide with lexical token boundaries, so
// this bounds oracle traffic to O(distinct tokens) per line rather
// than O(line length); the range resolver extends outward from any
// interior hit, which still catches multi-token categories such as
// comments and strings.
//
// Returned columns are deduplicated and ascending.
func sampleColumns(line []rune) []int {
	if len(line) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(line)/2)
	add := func(col int) {
		if col >= 0 && col < len(line) {
			seen[col] = true
		}
	}

	add(0)
	if len(line) > 1 {
		add(len(line) - 1)
	}

	for col := 1; col < len(line); col++ {
		if isWordRune(line[col]) != isWordRune(line[col-1]) {
			add(col - 1)
			add(col)
		}
	}
	for col, r := range line {
		if punctuationCandidates[r] {
			add(col)
		}
	}

	columns := make([]int, 0, len(seen))
	for col := range seen {
		columns = append(columns, col)
	}
	sort.Ints(columns)
	return columns
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Package engine reconstructs per-line category spans from a
// point-query classification oracle and caches assembled results.
//
// The pipeline per line is: sample candidate columns likely to sit on
// token boundaries, binary-search outward from each candidate to find
// the maximal run sharing its category, then consolidate the resolved
// spans into a sorted, non-overlapping list. A tiered dispatcher picks
// the best available backend (lexer oracle, legacy tokenizer, static
// pattern rules) and memoizes whole-file results by content
// fingerprint.
package engine

// Category is a canonical classification tag for a span of text.
// Raw oracle vocabularies are normalized into this space; see
// Normalizer.
type Category string

// Canonical categories. The set is open-ended (an oracle tag that
// survives normalization unchanged is still a valid Category), but
// these are the tags themes and pattern tables speak.
const (
	CategoryPlain    Category = "plain"
	CategoryKeyword  Category = "keyword"
	CategoryString   Category = "string"
	CategoryComment  Category = "comment"
	CategoryNumber   Category = "number"
	CategoryFunction Category = "function"
	CategoryType     Category = "type"
	CategoryConstant Category = "constant"
	CategoryOperator Category = "operator"
	CategoryPreproc  Category = "preproc"
	CategoryVariable Category = "variable"
)

// Span is a single-category run of columns within one line.
// Columns are zero-indexed rune offsets with inclusive bounds, so a
// span covering the first three runes is {StartCol: 0, EndCol: 2}.
type Span struct {
	StartCol int
	EndCol   int
	Category Category
	Priority int
}

// Width returns the number of columns the span covers.
func (s Span) Width() int {
	return s.EndCol - s.StartCol + 1
}

// LineResult is the ordered span list for one line. Spans are
// pairwise non-overlapping and sorted ascending by StartCol; columns
// not covered by any span render as plain text.
type LineResult []Span

// FileResult is the assembled highlight result for a whole file, one
// LineResult per input line, plus the fingerprint it is cached under
// and the tier that produced it.
type FileResult struct {
	Fingerprint string
	Tier        string
	Lines       []LineResult
}

// SpanCount reports the total number of spans across all lines.
func (fr FileResult) SpanCount() int {
	n := 0
	for _, lr := range fr.Lines {
		n += len(lr)
	}
	return n
}

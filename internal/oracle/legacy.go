package oracle

import (
	"fmt"
	"strings"
	"unicode"
)

// legacyLang configures the rule-based tokenizer for one language.
// The tokenizer is deliberately line-oriented: it knows nothing about
// multi-line constructs, which is the main reason it sits below the
// lexer oracle in the tier order.
type legacyLang struct {
	lineComments []string
	keywords     map[string]bool
	types        map[string]bool
	preproc      string // line prefix starting a preprocessor directive
}

func words(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

var legacyLangs = map[string]legacyLang{
	"go": {
		lineComments: []string{"//"},
		keywords: words(`break case chan const continue default defer else
			fallthrough for func go goto if import interface map package
			range return select struct switch type var`),
		types: words(`bool byte complex64 complex128 error float32 float64
			int int8 int16 int32 int64 rune string uint uint8 uint16
			uint32 uint64 uintptr any`),
	},
	"c": {
		lineComments: []string{"//"},
		keywords: words(`break case continue default do else enum extern for
			goto if return sizeof static struct switch typedef union while`),
		types:   words(`char const double float int long short signed unsigned void`),
		preproc: "#",
	},
	"python": {
		lineComments: []string{"#"},
		keywords: words(`and as assert async await break class continue def
			del elif else except finally for from global if import in is
			lambda nonlocal not or pass raise return try while with yield`),
		types: words(`bool bytes dict float frozenset int list set str tuple`),
	},
	"javascript": {
		lineComments: []string{"//"},
		keywords: words(`async await break case catch class const continue
			default delete do else export extends finally for function if
			import in instanceof let new of return static switch this
			throw try typeof var void while with yield`),
	},
	"rust": {
		lineComments: []string{"//"},
		keywords: words(`as async await break const continue crate dyn else
			enum extern fn for if impl in let loop match mod move mut pub
			ref return self static struct super trait type unsafe use
			where while`),
		types: words(`bool char f32 f64 i8 i16 i32 i64 i128 isize str u8
			u16 u32 u64 u128 usize String Vec Option Result Box`),
	},
	"shell": {
		lineComments: []string{"#"},
		keywords: words(`case do done elif else esac fi for function if in
			local return then until while export`),
	},
	"lua": {
		lineComments: []string{"--"},
		keywords: words(`and break do else elseif end for function goto if
			in local nil not or repeat return then until while`),
	},
}

// legacyAliases fold common language tags onto configured rule sets.
var legacyAliases = map[string]string{
	"c++":        "c",
	"cpp":        "c",
	"bash":       "shell",
	"sh":         "shell",
	"zsh":        "shell",
	"typescript": "javascript",
	"js":         "javascript",
	"ts":         "javascript",
	"py":         "python",
	"golang":     "go",
}

// LegacyOracle is the rule-based fallback classifier. It scans each
// queried line once, classifying strings, line comments, numbers,
// keywords, built-in types and operators, and answers point queries
// from the resulting table. Its tag vocabulary uses vim-style group
// names ("Statement", "PreProc"), distinct from the lexer oracle's.
type LegacyOracle struct{}

// NewLegacyOracle creates the rule-based oracle.
func NewLegacyOracle() *LegacyOracle { return &LegacyOracle{} }

// Name implements Oracle.
func (o *LegacyOracle) Name() string { return "legacy" }

// Available implements Oracle.
func (o *LegacyOracle) Available(lang string) bool {
	_, ok := legacyRules(lang)
	return ok
}

// Open implements Oracle.
func (o *LegacyOracle) Open(lang string, lines []string) (Session, error) {
	rules, ok := legacyRules(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnavailable, lang)
	}
	return &legacySession{
		rules: rules,
		lines: lines,
		memo:  make(map[int][]string),
	}, nil
}

func legacyRules(lang string) (legacyLang, bool) {
	lang = strings.ToLower(lang)
	if alias, ok := legacyAliases[lang]; ok {
		lang = alias
	}
	rules, ok := legacyLangs[lang]
	return rules, ok
}

type legacySession struct {
	rules legacyLang
	lines []string
	memo  map[int][]string
}

// CategoryAt implements Session.
func (s *legacySession) CategoryAt(lineIndex, col int) (string, error) {
	if lineIndex < 0 || lineIndex >= len(s.lines) {
		return "", fmt.Errorf("%w: line %d out of range", ErrQueryFailed, lineIndex)
	}
	cats, ok := s.memo[lineIndex]
	if !ok {
		cats = s.scanLine([]rune(s.lines[lineIndex]))
		s.memo[lineIndex] = cats
	}
	if col < 0 || col >= len(cats) {
		return "", fmt.Errorf("%w: column %d out of range on line %d", ErrQueryFailed, col, lineIndex)
	}
	return cats[col], nil
}

// scanLine classifies every rune of one line in a single pass.
func (s *legacySession) scanLine(line []rune) []string {
	cats := make([]string, len(line))
	text := string(line)

	if s.rules.preproc != "" {
		trimmed := strings.TrimLeft(text, " \t")
		if strings.HasPrefix(trimmed, s.rules.preproc) {
			fill(cats, 0, len(line)-1, "PreProc")
			return cats
		}
	}

	for col := 0; col < len(line); {
		r := line[col]

		if start, ok := s.commentStart(line, col); ok {
			fill(cats, start, len(line)-1, "Comment")
			break
		}

		switch {
		case r == '"' || r == '\'' || r == '`':
			end := scanString(line, col)
			fill(cats, col, end, "String")
			col = end + 1
		case unicode.IsDigit(r):
			end := scanNumber(line, col)
			fill(cats, col, end, "Number")
			col = end + 1
		case isWordStart(r):
			end := scanWord(line, col)
			word := string(line[col : end+1])
			switch {
			case s.rules.keywords[word]:
				fill(cats, col, end, "Statement")
			case s.rules.types[word]:
				fill(cats, col, end, "Type")
			case word == "true" || word == "false" || word == "nil" ||
				word == "null" || word == "None" || word == "True" || word == "False":
				fill(cats, col, end, "Constant")
			case end+1 < len(line) && line[end+1] == '(':
				fill(cats, col, end, "Function")
			}
			col = end + 1
		case isOperatorRune(r):
			cats[col] = "Operator"
			col++
		default:
			col++
		}
	}
	return cats
}

// commentStart reports whether a line comment opens at col.
func (s *legacySession) commentStart(line []rune, col int) (int, bool) {
	rest := string(line[col:])
	for _, marker := range s.rules.lineComments {
		if strings.HasPrefix(rest, marker) {
			return col, true
		}
	}
	return 0, false
}

// scanString returns the closing-quote column, honoring backslash
// escapes; an unterminated string runs to end of line.
func scanString(line []rune, start int) int {
	quote := line[start]
	for col := start + 1; col < len(line); col++ {
		if line[col] == '\\' && quote != '`' {
			col++
			continue
		}
		if line[col] == quote {
			return col
		}
	}
	return len(line) - 1
}

func scanNumber(line []rune, start int) int {
	col := start
	for col+1 < len(line) && isNumberRune(line[col+1]) {
		col++
	}
	return col
}

func scanWord(line []rune, start int) int {
	col := start
	for col+1 < len(line) && isWordRune(line[col+1]) {
		col++
	}
	return col
}

func fill(cats []string, start, end int, tag string) {
	for col := start; col <= end && col < len(cats); col++ {
		cats[col] = tag
	}
}

func isWordStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isWordRune(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

func isNumberRune(r rune) bool {
	return unicode.IsDigit(r) || r == '.' || r == 'x' || r == 'X' ||
		r == '_' || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOperatorRune(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '=', '!', '<', '>', '&', '|', '^', '~', ':', ';', ',', '.', '?':
		return true
	}
	return false
}

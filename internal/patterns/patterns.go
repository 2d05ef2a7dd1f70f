// Package patterns holds the static rule tables behind the last
// highlight tier. Rules are plain regular expressions applied per
// line with no oracle involvement, so this tier cannot fail and
// guarantees output even with no live classification backend.
package patterns

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule pairs a compiled pattern with the category and priority its
// matches carry. Higher priority wins overlapping regions downstream;
// rules of equal priority win in table order because the consolidator
// keeps the earlier span.
type Rule struct {
	Pattern  *regexp.Regexp
	Category string
	Priority int
}

// Match is one rule hit, in zero-indexed inclusive rune columns.
type Match struct {
	StartCol int
	EndCol   int
	Category string
	Priority int
}

// Set is an immutable collection of per-language rule tables plus the
// generic rules shared by every language.
type Set struct {
	generic []Rule
	byLang  map[string][]Rule
	aliases map[string]string
}

// Priorities. Comments outrank strings so a quote inside a comment
// stays a comment; strings outrank keywords so a keyword inside a
// string literal stays a string. The converse case is an accepted
// approximation: rules carry no lexical state, so a comment marker
// inside a string literal (s := "http://x") still wins and the tail
// of the line reads as a comment. The oracle tiers get this right;
// this tier trades it for never failing.
const (
	prioComment = 90
	prioString  = 80
	prioPreproc = 70
	prioKeyword = 50
	prioType    = 45
	prioNumber  = 40
	prioConst   = 35
)

func mustRule(pattern, category string, priority int) Rule {
	return Rule{
		Pattern:  regexp.MustCompile(pattern),
		Category: category,
		Priority: priority,
	}
}

func keywordRule(priority int, kw ...string) Rule {
	return mustRule(`\b(`+strings.Join(kw, "|")+`)\b`, "keyword", priority)
}

// DefaultSet builds the built-in rule tables.
func DefaultSet() *Set {
	return &Set{
		generic: []Rule{
			mustRule(`"(?:[^"\\]|\\.)*"`, "string", prioString),
			mustRule(`'(?:[^'\\]|\\.)*'`, "string", prioString),
			mustRule("`[^`]*`", "string", prioString),
			mustRule(`\b\d+(?:\.\d+)?\b`, "number", prioNumber),
			mustRule(`\b0[xX][0-9a-fA-F]+\b`, "number", prioNumber+1),
		},
		byLang: map[string][]Rule{
			"go": {
				mustRule(`//.*$`, "comment", prioComment),
				keywordRule(prioKeyword, "break", "case", "chan", "const", "continue",
					"default", "defer", "else", "fallthrough", "for", "func", "go",
					"goto", "if", "import", "interface", "map", "package", "range",
					"return", "select", "struct", "switch", "type", "var"),
				mustRule(`\b(bool|byte|error|float32|float64|u?int(?:8|16|32|64)?|rune|string|uintptr|any)\b`, "type", prioType),
				mustRule(`\b(true|false|nil|iota)\b`, "constant", prioConst),
			},
			"c": {
				mustRule(`//.*$`, "comment", prioComment),
				mustRule(`^\s*#\s*\w+`, "preproc", prioPreproc),
				keywordRule(prioKeyword, "break", "case", "continue", "default", "do",
					"else", "enum", "extern", "for", "goto", "if", "return", "sizeof",
					"static", "struct", "switch", "typedef", "union", "while"),
				mustRule(`\b(char|const|double|float|int|long|short|signed|unsigned|void)\b`, "type", prioType),
			},
			"python": {
				mustRule(`#.*$`, "comment", prioComment),
				keywordRule(prioKeyword, "and", "as", "assert", "async", "await",
					"break", "class", "continue", "def", "del", "elif", "else",
					"except", "finally", "for", "from", "global", "if", "import",
					"in", "is", "lambda", "nonlocal", "not", "or", "pass", "raise",
					"return", "try", "while", "with", "yield"),
				mustRule(`\b(True|False|None)\b`, "constant", prioConst),
				mustRule(`@\w+`, "preproc", prioPreproc),
			},
			"javascript": {
				mustRule(`//.*$`, "comment", prioComment),
				keywordRule(prioKeyword, "async", "await", "break", "case", "catch",
					"class", "const", "continue", "default", "delete", "do", "else",
					"export", "extends", "finally", "for", "function", "if", "import",
					"in", "instanceof", "let", "new", "of", "return", "static",
					"switch", "this", "throw", "try", "typeof", "var", "void",
					"while", "with", "yield"),
				mustRule(`\b(true|false|null|undefined|NaN)\b`, "constant", prioConst),
			},
			"rust": {
				mustRule(`//.*$`, "comment", prioComment),
				keywordRule(prioKeyword, "as", "async", "await", "break", "const",
					"continue", "crate", "dyn", "else", "enum", "extern", "fn", "for",
					"if", "impl", "in", "let", "loop", "match", "mod", "move", "mut",
					"pub", "ref", "return", "static", "struct", "super", "trait",
					"type", "unsafe", "use", "where", "while"),
				mustRule(`\b(bool|char|f32|f64|i(?:8|16|32|64|128)|isize|str|u(?:8|16|32|64|128)|usize|String|Vec|Option|Result|Box)\b`, "type", prioType),
				mustRule(`#\[[^\]]*\]`, "preproc", prioPreproc),
			},
			"shell": {
				mustRule(`#.*$`, "comment", prioComment),
				keywordRule(prioKeyword, "case", "do", "done", "elif", "else", "esac",
					"export", "fi", "for", "function", "if", "in", "local", "return",
					"then", "until", "while"),
				mustRule(`\$\{?\w+\}?`, "variable", prioConst),
			},
			"lua": {
				mustRule(`--.*$`, "comment", prioComment),
				keywordRule(prioKeyword, "and", "break", "do", "else", "elseif", "end",
					"for", "function", "goto", "if", "in", "local", "not", "or",
					"repeat", "return", "then", "until", "while"),
				mustRule(`\b(true|false|nil)\b`, "constant", prioConst),
			},
		},
		aliases: map[string]string{
			"golang":     "go",
			"c++":        "c",
			"cpp":        "c",
			"py":         "python",
			"js":         "javascript",
			"ts":         "javascript",
			"typescript": "javascript",
			"sh":         "shell",
			"bash":       "shell",
			"zsh":        "shell",
		},
	}
}

// Languages lists the tags with dedicated rule tables, for CLI
// listings. Aliases are not included.
func (s *Set) Languages() []string {
	langs := make([]string, 0, len(s.byLang))
	for lang := range s.byLang {
		langs = append(langs, lang)
	}
	return langs
}

// HasRules reports whether lang resolves to a dedicated rule table.
func (s *Set) HasRules(lang string) bool {
	_, ok := s.byLang[s.resolve(lang)]
	return ok
}

func (s *Set) resolve(lang string) string {
	lang = strings.ToLower(lang)
	if alias, ok := s.aliases[lang]; ok {
		return alias
	}
	return lang
}

// Match applies the language's rules plus the generic rules to one
// line and returns every hit in rune columns. Overlap resolution is
// the consolidator's job; matches are reported as-is.
func (s *Set) Match(lang, line string) []Match {
	if line == "" {
		return nil
	}

	rules := s.byLang[s.resolve(lang)]
	matches := make([]Match, 0, 8)
	for _, rule := range rules {
		matches = appendMatches(matches, rule, line)
	}
	for _, rule := range s.generic {
		matches = appendMatches(matches, rule, line)
	}
	return matches
}

func appendMatches(matches []Match, rule Rule, line string) []Match {
	for _, loc := range rule.Pattern.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if end <= start {
			continue
		}
		matches = append(matches, Match{
			StartCol: utf8.RuneCountInString(line[:start]),
			EndCol:   utf8.RuneCountInString(line[:end]) - 1,
			Category: rule.Category,
			Priority: rule.Priority,
		})
	}
	return matches
}

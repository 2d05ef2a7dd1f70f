package engine

import "strings"

// Normalizer maps each tier's raw category vocabulary into the
// canonical Category space. Resolution order: exact lookup, prefix
// rule, substring heuristic, then the "plain" default. The lexer
// oracle speaks chroma token-type names ("KeywordDeclaration",
// "LiteralStringDouble"), the legacy tokenizer speaks vim-style group
// names ("Statement", "PreProc"); both funnel through here.
type Normalizer struct {
	exact    map[string]Category
	prefixes []prefixRule
}

type prefixRule struct {
	prefix   string
	category Category
}

// NewNormalizer builds the default mapping table.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		exact: map[string]Category{
			// Legacy vim-style group names.
			"Comment":    CategoryComment,
			"Constant":   CategoryConstant,
			"String":     CategoryString,
			"Character":  CategoryString,
			"Number":     CategoryNumber,
			"Float":      CategoryNumber,
			"Boolean":    CategoryConstant,
			"Identifier": CategoryVariable,
			"Function":   CategoryFunction,
			"Statement":  CategoryKeyword,
			"Keyword":    CategoryKeyword,
			"PreProc":    CategoryPreproc,
			"Include":    CategoryPreproc,
			"Define":     CategoryPreproc,
			"Type":       CategoryType,
			"Special":    CategoryConstant,

			// Chroma token types without a distinguishing prefix.
			"Operator":     CategoryOperator,
			"OperatorWord": CategoryKeyword,
			"Punctuation":  CategoryOperator,

			// Already-canonical tags pass through.
			string(CategoryPlain):    CategoryPlain,
			string(CategoryKeyword):  CategoryKeyword,
			string(CategoryString):   CategoryString,
			string(CategoryComment):  CategoryComment,
			string(CategoryNumber):   CategoryNumber,
			string(CategoryFunction): CategoryFunction,
			string(CategoryType):     CategoryType,
			string(CategoryConstant): CategoryConstant,
			string(CategoryOperator): CategoryOperator,
			string(CategoryPreproc):  CategoryPreproc,
			string(CategoryVariable): CategoryVariable,
		},
		prefixes: []prefixRule{
			{"CommentPreproc", CategoryPreproc},
			{"Comment", CategoryComment},
			{"LiteralString", CategoryString},
			{"LiteralNumber", CategoryNumber},
			{"KeywordType", CategoryType},
			{"KeywordConstant", CategoryConstant},
			{"Keyword", CategoryKeyword},
			{"NameFunction", CategoryFunction},
			{"NameClass", CategoryType},
			{"NameBuiltin", CategoryFunction},
			{"NameConstant", CategoryConstant},
			{"NameDecorator", CategoryPreproc},
			{"NameTag", CategoryKeyword},
			{"NameAttribute", CategoryVariable},
			{"NameVariable", CategoryVariable},
			{"GenericNumber", CategoryNumber},
		},
	}
}

// Normalize resolves a raw oracle tag to a canonical Category.
// Unrecognized or empty tags come back as "plain", never as an error.
func (n *Normalizer) Normalize(raw string) Category {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CategoryPlain
	}
	if cat, ok := n.exact[raw]; ok {
		return cat
	}
	for _, rule := range n.prefixes {
		if strings.HasPrefix(raw, rule.prefix) {
			return rule.category
		}
	}
	return n.heuristic(raw)
}

// heuristic catches oracle vocabularies nobody mapped explicitly by
// looking for common naming fragments.
func (n *Normalizer) heuristic(raw string) Category {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "comment"):
		return CategoryComment
	case strings.Contains(lower, "string"), strings.Contains(lower, "char"):
		return CategoryString
	case strings.Contains(lower, "number"), strings.Contains(lower, "digit"),
		strings.Contains(lower, "float"), strings.Contains(lower, "integer"):
		return CategoryNumber
	case strings.Contains(lower, "keyword"), strings.Contains(lower, "statement"),
		strings.Contains(lower, "conditional"), strings.Contains(lower, "repeat"):
		return CategoryKeyword
	case strings.Contains(lower, "func"), strings.Contains(lower, "method"):
		return CategoryFunction
	case strings.Contains(lower, "type"), strings.Contains(lower, "class"),
		strings.Contains(lower, "struct"):
		return CategoryType
	case strings.Contains(lower, "const"), strings.Contains(lower, "bool"):
		return CategoryConstant
	case strings.Contains(lower, "operator"), strings.Contains(lower, "punct"):
		return CategoryOperator
	case strings.Contains(lower, "preproc"), strings.Contains(lower, "macro"),
		strings.Contains(lower, "include"):
		return CategoryPreproc
	case strings.Contains(lower, "variable"), strings.Contains(lower, "identifier"),
		strings.Contains(lower, "field"), strings.Contains(lower, "property"):
		return CategoryVariable
	default:
		return CategoryPlain
	}
}

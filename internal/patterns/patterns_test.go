package patterns

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func findCategory(matches []Match, category string) []Match {
	var out []Match
	for _, m := range matches {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}

func TestDefaultSet_HasRules(t *testing.T) {
	s := DefaultSet()

	require.True(t, s.HasRules("go"))
	require.True(t, s.HasRules("Go"), "lookup is case-insensitive")
	require.True(t, s.HasRules("cpp"), "aliases resolve")
	require.False(t, s.HasRules("fortran"))
}

func TestMatch_EmptyLine(t *testing.T) {
	require.Empty(t, DefaultSet().Match("go", ""))
}

func TestMatch_GoLineComment(t *testing.T) {
	matches := DefaultSet().Match("go", "x := 1 // trailing")

	comments := findCategory(matches, "comment")
	require.Len(t, comments, 1)
	require.Equal(t, 7, comments[0].StartCol)
	require.Equal(t, 17, comments[0].EndCol)
	require.Equal(t, 90, comments[0].Priority)
}

func TestMatch_GenericRulesApplyWithoutDedicatedTable(t *testing.T) {
	// Unknown language still gets the generic string/number rules.
	matches := DefaultSet().Match("fortran", `print "x" 42`)

	require.NotEmpty(t, findCategory(matches, "string"))
	require.NotEmpty(t, findCategory(matches, "number"))
}

func TestMatch_RuneColumnsForMultibyteText(t *testing.T) {
	// The comment starts after a two-rune (multi-byte) identifier;
	// columns must count runes, not bytes.
	matches := DefaultSet().Match("go", "éé := 1 // c")

	comments := findCategory(matches, "comment")
	require.Len(t, comments, 1)
	require.Equal(t, 8, comments[0].StartCol)
	require.Equal(t, 11, comments[0].EndCol)
}

func TestMatch_CommentOutranksString(t *testing.T) {
	matches := DefaultSet().Match("go", `// has "quotes"`)

	comments := findCategory(matches, "comment")
	strings := findCategory(matches, "string")
	require.Len(t, comments, 1)
	require.NotEmpty(t, strings, "raw matches still report the string")
	require.Greater(t, comments[0].Priority, strings[0].Priority,
		"priority must let the consolidator keep the comment")
}

func TestMatch_CommentMarkerInsideStringWins(t *testing.T) {
	// Stateless rules cannot tell a real comment from a marker inside
	// a string literal, so the comment outranks the string here too.
	// Accepted approximation of this tier; the oracle tiers handle it.
	matches := DefaultSet().Match("go", `s := "http://x"`)

	comments := findCategory(matches, "comment")
	strings := findCategory(matches, "string")
	require.Len(t, comments, 1)
	require.Equal(t, 11, comments[0].StartCol, "comment starts at the // inside the literal")
	require.Len(t, strings, 1)
	require.Greater(t, comments[0].Priority, strings[0].Priority,
		"the consolidator will keep the comment over the string tail")
}

func TestMatch_PythonDecoratorAndConstant(t *testing.T) {
	matches := DefaultSet().Match("python", "@cached")
	require.NotEmpty(t, findCategory(matches, "preproc"))

	matches = DefaultSet().Match("py", "x = True")
	require.NotEmpty(t, findCategory(matches, "constant"))
}

func TestMatch_ShellVariable(t *testing.T) {
	matches := DefaultSet().Match("bash", `echo "${HOME}" $USER`)
	require.NotEmpty(t, findCategory(matches, "variable"))
}

func TestLanguages_ListsDedicatedTables(t *testing.T) {
	langs := DefaultSet().Languages()
	require.Contains(t, langs, "go")
	require.Contains(t, langs, "python")
	require.NotContains(t, langs, "py", "aliases are not listed")
}

package oracle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChromaOracle_Available(t *testing.T) {
	o := NewChromaOracle()

	require.True(t, o.Available("go"))
	require.True(t, o.Available("python"))
	require.False(t, o.Available(""))
	require.False(t, o.Available("not-a-language"))
}

func TestChromaOracle_OpenUnknownLanguage(t *testing.T) {
	_, err := NewChromaOracle().Open("not-a-language", []string{"x"})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestChromaOracle_CommentLine(t *testing.T) {
	o := NewChromaOracle()
	session, err := o.Open("go", []string{"// a comment"})
	require.NoError(t, err)

	cat, err := session.CategoryAt(0, 0)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cat, "Comment"), "got %q", cat)

	cat, err = session.CategoryAt(0, 11)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cat, "Comment"), "got %q", cat)
}

func TestChromaOracle_KeywordAndString(t *testing.T) {
	o := NewChromaOracle()
	lines := []string{
		"package main",
		`var s = "hello"`,
	}
	session, err := o.Open("go", lines)
	require.NoError(t, err)

	cat, err := session.CategoryAt(0, 0)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cat, "Keyword"), "package should be a keyword, got %q", cat)

	cat, err = session.CategoryAt(1, 9)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cat, "LiteralString"), "got %q", cat)
}

func TestChromaOracle_WhitespaceCarriesNoCategory(t *testing.T) {
	o := NewChromaOracle()
	session, err := o.Open("go", []string{"var x int"})
	require.NoError(t, err)

	cat, err := session.CategoryAt(0, 3)
	require.NoError(t, err)
	require.Empty(t, cat)
}

func TestChromaOracle_ContextCarriesAcrossLines(t *testing.T) {
	// The middle of a block comment classifies correctly only when the
	// opener above it is part of the lexer input.
	o := NewChromaOracle()
	lines := []string{
		"/*",
		"inside the comment",
		"*/",
	}
	session, err := o.Open("go", lines)
	require.NoError(t, err)

	cat, err := session.CategoryAt(1, 4)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cat, "Comment"), "got %q", cat)
}

func TestChromaOracle_LexerContextDisabled(t *testing.T) {
	// Without context the lexer sees the middle line in isolation and
	// cannot know it sits inside a block comment.
	o := NewChromaOracle(WithLexerContext(false))
	lines := []string{
		"/*",
		"inside the comment",
		"*/",
	}
	session, err := o.Open("go", lines)
	require.NoError(t, err)

	cat, err := session.CategoryAt(1, 4)
	require.NoError(t, err)
	require.False(t, strings.HasPrefix(cat, "Comment"), "got %q", cat)
}

func TestChromaOracle_OutOfRangeQueries(t *testing.T) {
	o := NewChromaOracle()
	session, err := o.Open("go", []string{"ab"})
	require.NoError(t, err)

	_, err = session.CategoryAt(7, 0)
	require.ErrorIs(t, err, ErrQueryFailed)

	_, err = session.CategoryAt(0, 99)
	require.ErrorIs(t, err, ErrQueryFailed)
}

func TestChromaOracle_MemoizedAcrossSessions(t *testing.T) {
	o := NewChromaOracle()
	lines := []string{"// memoized"}

	first, err := o.Open("go", lines)
	require.NoError(t, err)
	catA, err := first.CategoryAt(0, 0)
	require.NoError(t, err)

	second, err := o.Open("go", lines)
	require.NoError(t, err)
	catB, err := second.CategoryAt(0, 0)
	require.NoError(t, err)

	require.Equal(t, catA, catB)
	require.Equal(t, 1, o.lineCache.ItemCount(), "identical content should share one cached expansion")
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_ExactLegacyGroups(t *testing.T) {
	n := NewNormalizer()

	require.Equal(t, CategoryComment, n.Normalize("Comment"))
	require.Equal(t, CategoryKeyword, n.Normalize("Statement"))
	require.Equal(t, CategoryPreproc, n.Normalize("PreProc"))
	require.Equal(t, CategoryString, n.Normalize("Character"))
	require.Equal(t, CategoryNumber, n.Normalize("Float"))
}

func TestNormalize_ChromaPrefixes(t *testing.T) {
	n := NewNormalizer()

	require.Equal(t, CategoryString, n.Normalize("LiteralStringDouble"))
	require.Equal(t, CategoryNumber, n.Normalize("LiteralNumberInteger"))
	require.Equal(t, CategoryComment, n.Normalize("CommentSingle"))
	require.Equal(t, CategoryPreproc, n.Normalize("CommentPreproc"))
	require.Equal(t, CategoryKeyword, n.Normalize("KeywordReserved"))
	require.Equal(t, CategoryType, n.Normalize("KeywordType"))
	require.Equal(t, CategoryFunction, n.Normalize("NameFunction"))
	require.Equal(t, CategoryOperator, n.Normalize("Punctuation"))
}

func TestNormalize_CanonicalTagsPassThrough(t *testing.T) {
	n := NewNormalizer()

	require.Equal(t, CategoryComment, n.Normalize("comment"))
	require.Equal(t, CategoryString, n.Normalize("string"))
	require.Equal(t, CategoryPlain, n.Normalize("plain"))
}

func TestNormalize_SubstringHeuristic(t *testing.T) {
	n := NewNormalizer()

	// Vocabularies nobody mapped explicitly still land somewhere
	// sensible via naming fragments.
	require.Equal(t, CategoryComment, n.Normalize("ts.block_comment"))
	require.Equal(t, CategoryString, n.Normalize("raw_string_literal"))
	require.Equal(t, CategoryFunction, n.Normalize("method_declaration"))
	require.Equal(t, CategoryVariable, n.Normalize("property_identifier"))
}

func TestNormalize_UnknownAndEmptyDefaultToPlain(t *testing.T) {
	n := NewNormalizer()

	require.Equal(t, CategoryPlain, n.Normalize(""))
	require.Equal(t, CategoryPlain, n.Normalize("   "))
	require.Equal(t, CategoryPlain, n.Normalize("Zzz.Bogus42"))
}

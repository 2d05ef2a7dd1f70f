package oracle

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/cespare/xxhash/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/hmgle/nvim-cat/internal/log"
)

// maxLexerContext is the default number of preceding lines fed to the lexer
// alongside the queried line. Stateful constructs (block comments, raw
// strings) need context above the line to classify correctly.
const maxLexerContext = 50

const (
	lineCacheExpiration = 5 * time.Minute
	lineCacheCleanup    = 10 * time.Minute
)

// ChromaOracle classifies positions by running a chroma lexer over
// the queried line plus preceding context, then reading the token
// covering the requested column. Expanded per-line category tables are
// memoized across sessions in a TTL cache keyed by language, context
// and line content, so re-renders of an unchanged file skip the lexer
// entirely.
type ChromaOracle struct {
	lineCache    *gocache.Cache
	contextDepth int
}

// ChromaOption configures a ChromaOracle.
type ChromaOption func(*ChromaOracle)

// WithLexerContext toggles feeding preceding lines to the lexer when
// classifying a line. On by default; disabling it cuts lexer work per
// query at the cost of misclassifying multi-line constructs.
func WithLexerContext(enabled bool) ChromaOption {
	return func(o *ChromaOracle) {
		if enabled {
			o.contextDepth = maxLexerContext
		} else {
			o.contextDepth = 0
		}
	}
}

// NewChromaOracle creates the lexer-backed oracle.
func NewChromaOracle(opts ...ChromaOption) *ChromaOracle {
	o := &ChromaOracle{
		lineCache:    gocache.New(lineCacheExpiration, lineCacheCleanup),
		contextDepth: maxLexerContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name implements Oracle.
func (o *ChromaOracle) Name() string { return "lexer" }

// Available implements Oracle.
func (o *ChromaOracle) Available(lang string) bool {
	return lang != "" && lexers.Get(lang) != nil
}

// Open implements Oracle.
func (o *ChromaOracle) Open(lang string, lines []string) (Session, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnavailable, lang)
	}
	return &chromaSession{
		oracle: o,
		lexer:  chroma.Coalesce(lexer),
		lang:   lang,
		lines:  lines,
	}, nil
}

type chromaSession struct {
	oracle *ChromaOracle
	lexer  chroma.Lexer
	lang   string
	lines  []string
}

// CategoryAt implements Session. The first query for a line tokenizes
// it (with context) and builds a per-rune category table; subsequent
// queries are table lookups.
func (s *chromaSession) CategoryAt(lineIndex, col int) (string, error) {
	if lineIndex < 0 || lineIndex >= len(s.lines) {
		return "", fmt.Errorf("%w: line %d out of range", ErrQueryFailed, lineIndex)
	}

	cats, err := s.lineCategories(lineIndex)
	if err != nil {
		return "", err
	}
	if col < 0 || col >= len(cats) {
		return "", fmt.Errorf("%w: column %d out of range on line %d", ErrQueryFailed, col, lineIndex)
	}
	return cats[col], nil
}

func (s *chromaSession) lineCategories(lineIndex int) ([]string, error) {
	key := s.cacheKey(lineIndex)
	if cached, ok := s.oracle.lineCache.Get(key); ok {
		return cached.([]string), nil
	}

	cats, err := s.tokenizeLine(lineIndex)
	if err != nil {
		return nil, err
	}
	s.oracle.lineCache.Set(key, cats, gocache.DefaultExpiration)
	return cats, nil
}

// cacheKey hashes language, context lines and the line itself, so an
// edit above a line correctly invalidates it.
func (s *chromaSession) cacheKey(lineIndex int) string {
	h := xxhash.New()
	_, _ = h.WriteString(s.lang)
	_, _ = h.WriteString("\x00")
	for _, ctx := range s.contextLines(lineIndex) {
		_, _ = h.WriteString(ctx)
		_, _ = h.WriteString("\n")
	}
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(s.lines[lineIndex])
	return strconv.FormatUint(h.Sum64(), 16)
}

func (s *chromaSession) contextLines(lineIndex int) []string {
	start := lineIndex - s.oracle.contextDepth
	if start < 0 {
		start = 0
	}
	return s.lines[start:lineIndex]
}

// tokenizeLine runs the lexer over context + line and maps the tokens
// overlapping the target line onto a per-rune category table.
func (s *chromaSession) tokenizeLine(lineIndex int) ([]string, error) {
	line := s.lines[lineIndex]
	lineRunes := []rune(line)
	cats := make([]string, len(lineRunes))

	var sb strings.Builder
	for _, ctx := range s.contextLines(lineIndex) {
		sb.WriteString(ctx)
		sb.WriteByte('\n')
	}
	targetStart := len([]rune(sb.String()))
	sb.WriteString(line)
	sb.WriteByte('\n')

	tokens, err := chroma.Tokenise(s.lexer, nil, sb.String())
	if err != nil {
		log.Warn(log.CatOracle, "chroma tokenise failed", "lang", s.lang, "line", lineIndex, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	pos := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		tokRunes := []rune(tok.Value)
		tag := chromaTag(tok.Type)
		for n := range tokRunes {
			abs := pos + n
			local := abs - targetStart
			if local >= 0 && local < len(cats) {
				cats[local] = tag
			}
		}
		pos += len(tokRunes)
		if pos > targetStart+len(cats) {
			break
		}
	}
	return cats, nil
}

// chromaTag renders a token type as a raw category string. Plain text
// and whitespace carry no category.
func chromaTag(t chroma.TokenType) string {
	switch {
	case t == chroma.Text, t == chroma.TextWhitespace, t == chroma.EOFType:
		return ""
	default:
		return t.String()
	}
}

package engine

import (
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/hmgle/nvim-cat/internal/cache"
	"github.com/hmgle/nvim-cat/internal/log"
	"github.com/hmgle/nvim-cat/internal/oracle"
	"github.com/hmgle/nvim-cat/internal/patterns"
)

// resultCacheName is the cache instance holding assembled FileResults.
const resultCacheName = "highlight:results"

// spanSizeHint approximates the in-memory cost of one Span for cache
// accounting.
const spanSizeHint = 48

// TierPatterns is the tier label reported when the static rule tables
// produced the result.
const TierPatterns = "patterns"

// Options configures an Engine.
type Options struct {
	// Caches is the shared cache manager. A private one is created
	// when nil.
	Caches *cache.Manager

	// TierA and TierB are the preferred and legacy oracles. Either or
	// both may be nil; the engine degrades through the tiers.
	TierA oracle.Oracle
	TierB oracle.Oracle

	// Patterns backs the final tier. Defaults to the built-in tables.
	Patterns *patterns.Set

	// ResultCacheEntries and ResultCacheTTL size the FileResult cache.
	ResultCacheEntries int
	ResultCacheTTL     time.Duration

	// GuardedRescan enables linear re-scanning when a binary-search
	// probe disagreement is detected. Costs extra oracle calls; off by
	// default.
	GuardedRescan bool
}

// Engine is the tiered span-reconstruction dispatcher. Highlight
// never returns an error: any internal failure degrades to the next
// tier, bottoming out at the static pattern tables.
type Engine struct {
	caches        *cache.Manager
	results       *cache.Instance
	tierA         oracle.Oracle
	tierB         oracle.Oracle
	patterns      *patterns.Set
	norm          *Normalizer
	guardedRescan bool
}

// New assembles an Engine from options, creating (or reattaching to)
// its result cache instance on the shared manager.
func New(opts Options) (*Engine, error) {
	caches := opts.Caches
	if caches == nil {
		caches = cache.NewManager()
	}
	entries := opts.ResultCacheEntries
	if entries <= 0 {
		entries = 128
	}
	ttl := opts.ResultCacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	results, err := caches.Create(resultCacheName, entries, ttl)
	if errors.Is(err, cache.ErrDuplicateName) {
		// A shared manager may already carry the instance from a
		// previous engine; reuse it.
		results, _ = caches.Instance(resultCacheName)
		err = nil
	}
	if err != nil {
		return nil, err
	}

	pats := opts.Patterns
	if pats == nil {
		pats = patterns.DefaultSet()
	}

	return &Engine{
		caches:        caches,
		results:       results,
		tierA:         opts.TierA,
		tierB:         opts.TierB,
		patterns:      pats,
		norm:          NewNormalizer(),
		guardedRescan: opts.GuardedRescan,
	}, nil
}

// Caches exposes the manager for diagnostics tooling.
func (e *Engine) Caches() *cache.Manager { return e.caches }

// Fingerprint derives the cache key for a file's lines and language
// tag.
func Fingerprint(lines []string, lang string) string {
	h := xxhash.New()
	for _, line := range lines {
		_, _ = h.WriteString(line)
		_, _ = h.WriteString("\n")
	}
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(lang)
	return strconv.FormatUint(h.Sum64(), 16)
}

// Highlight assembles the per-line span lists for a file. Results are
// memoized by content fingerprint; on a miss the tiers are tried in
// order until one produces at least one categorized span, with the
// pattern tables as the backstop.
func (e *Engine) Highlight(lines []string, lang string) FileResult {
	fingerprint := Fingerprint(lines, lang)
	if cached, ok := e.results.Get(fingerprint); ok {
		if fr, ok := cached.(FileResult); ok {
			log.Debug(log.CatEngine, "highlight cache hit", "fingerprint", fingerprint)
			return fr
		}
	}

	fr := FileResult{Fingerprint: fingerprint}
	for _, o := range []oracle.Oracle{e.tierA, e.tierB} {
		if o == nil {
			continue
		}
		if lineResults, ok := e.runOracleTier(o, lines, lang); ok {
			fr.Tier = o.Name()
			fr.Lines = lineResults
			break
		}
	}
	if fr.Lines == nil {
		fr.Tier = TierPatterns
		fr.Lines = e.runPatternTier(lines, lang)
	}

	e.results.Set(fingerprint, fr, len(lines)*16+fr.SpanCount()*spanSizeHint)
	log.Debug(log.CatEngine, "highlight assembled",
		"fingerprint", fingerprint, "tier", fr.Tier, "lines", len(lines), "spans", fr.SpanCount())
	return fr
}

// runOracleTier drives sampler → range resolver → consolidator per
// line against one oracle. Returns ok=false when the oracle is
// unavailable for the language or produced zero categorized spans for
// the whole file, which sends the dispatcher to the next tier.
func (e *Engine) runOracleTier(o oracle.Oracle, lines []string, lang string) ([]LineResult, bool) {
	if !o.Available(lang) {
		log.Debug(log.CatEngine, "oracle unavailable", "oracle", o.Name(), "lang", lang)
		return nil, false
	}
	session, err := o.Open(lang, lines)
	if err != nil {
		log.Warn(log.CatEngine, "oracle open failed", "oracle", o.Name(), "lang", lang, "error", err)
		return nil, false
	}

	results := make([]LineResult, len(lines))
	totalSpans := 0
	queryFailures := 0
	for lineIndex, line := range lines {
		lineRunes := []rune(line)
		if len(lineRunes) == 0 {
			continue
		}

		query := func(col int) (string, error) {
			return session.CategoryAt(lineIndex, col)
		}

		raw := make([]Span, 0, 8)
		covered := make([]bool, len(lineRunes))
		for _, col := range sampleColumns(lineRunes) {
			if covered[col] {
				continue
			}
			rawCat, err := query(col)
			if err != nil {
				queryFailures++
				continue
			}
			if rawCat == "" {
				continue
			}
			start, end, err := resolveRange(query, col, rawCat, len(lineRunes), e.guardedRescan)
			if err != nil {
				// Abandon this span, keep sampling.
				queryFailures++
				continue
			}
			raw = append(raw, Span{
				StartCol: start,
				EndCol:   end,
				Category: e.norm.Normalize(rawCat),
			})
			for c := start; c <= end && c < len(covered); c++ {
				covered[c] = true
			}
		}

		results[lineIndex] = consolidate(raw)
		totalSpans += len(results[lineIndex])
	}

	if totalSpans == 0 {
		log.Debug(log.CatEngine, "oracle produced no spans",
			"oracle", o.Name(), "lang", lang, "queryFailures", queryFailures)
		return nil, false
	}
	return results, true
}

// runPatternTier applies the static rule tables line by line. It
// cannot fail; a language with no dedicated table still gets the
// generic rules.
func (e *Engine) runPatternTier(lines []string, lang string) []LineResult {
	results := make([]LineResult, len(lines))
	for lineIndex, line := range lines {
		matches := e.patterns.Match(lang, line)
		if len(matches) == 0 {
			continue
		}
		raw := make([]Span, 0, len(matches))
		for _, m := range matches {
			raw = append(raw, Span{
				StartCol: m.StartCol,
				EndCol:   m.EndCol,
				Category: e.norm.Normalize(m.Category),
				Priority: m.Priority,
			})
		}
		results[lineIndex] = consolidate(raw)
	}
	return results
}

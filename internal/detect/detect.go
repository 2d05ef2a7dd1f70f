// Package detect resolves a file's language tag from its name and
// contents. Detection is enry-backed, with shebang and content
// classification falling out of it for free, and results are memoized
// since the same file is often re-rendered within one session.
package detect

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	enry "github.com/go-enry/go-enry/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/hmgle/nvim-cat/internal/log"
)

const (
	cacheExpiration = 10 * time.Minute
	cacheCleanup    = 30 * time.Minute
)

// enryOverrides maps enry's display names onto the lexer-facing tags
// the rest of the system speaks, where lowercasing alone is not
// enough.
var enryOverrides = map[string]string{
	"c++":              "cpp",
	"c#":               "csharp",
	"objective-c":      "objc",
	"shell":            "bash",
	"vim script":       "vim",
	"emacs lisp":       "elisp",
	"jupyter notebook": "json",
}

// Detector resolves language tags, memoizing by file name and a
// content hash.
type Detector struct {
	cache *gocache.Cache
}

// New creates a Detector.
func New() *Detector {
	return &Detector{cache: gocache.New(cacheExpiration, cacheCleanup)}
}

// Language returns the normalized language tag for a file, or "" when
// detection fails. The empty tag tells the engine to rely on generic
// pattern rules.
func (d *Detector) Language(path string, content []byte) string {
	key := cacheKey(path, content)
	if cached, ok := d.cache.Get(key); ok {
		return cached.(string)
	}

	lang := normalize(enry.GetLanguage(filepath.Base(path), content))
	log.Debug(log.CatDetect, "language detected", "path", path, "lang", lang)
	d.cache.Set(key, lang, gocache.DefaultExpiration)
	return lang
}

func cacheKey(path string, content []byte) string {
	h := xxhash.New()
	_, _ = h.WriteString(path)
	_, _ = h.WriteString("\x00")
	_, _ = h.Write(content)
	return strconv.FormatUint(h.Sum64(), 16)
}

func normalize(lang string) string {
	lang = strings.ToLower(lang)
	if override, ok := enryOverrides[lang]; ok {
		return override
	}
	return lang
}

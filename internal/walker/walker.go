// Package walker discovers the HTML pages of a static prototype site.
package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/agenda-vta/internal/routes"
)

// DefaultMaxFileSize is the maximum page size to process (4 MB).
const DefaultMaxFileSize int64 = 4 << 20

// PageFile holds metadata about a single page found under the site root.
type PageFile struct {
	Path        string      // Absolute path on disk.
	RelPath     string      // Slash-separated path relative to the root.
	Size        int64       // File size in bytes.
	ContentHash string      // SHA-256 hex digest of the file content.
	Page        routes.Page // Route served by this file, empty if none.
}

// Routed reports whether the file backs one of the navigator routes.
func (p PageFile) Routed() bool { return p.Page != "" }

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir     string   // Root directory of the site.
	Pattern     string   // doublestar glob selecting pages, default **/*.html.
	Exclude     []string // Glob patterns; matching files are skipped.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// Walk globs config.Pattern under config.RootDir and returns metadata for
// every page that passes filtering, sorted by relative path. Pages whose
// base name is a static route filename are tagged with that route.
func Walk(config WalkerConfig) ([]PageFile, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	if st, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	} else if !st.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	pattern := config.Pattern
	if pattern == "" {
		pattern = "**/*.html"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("walker: invalid pattern %q", pattern)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("walker: glob: %w", err)
	}
	sort.Strings(matches)

	table := routes.MustForMode(routes.ModeStatic)

	var pages []PageFile
	for _, rel := range matches {
		if shouldExcludePath(rel) || MatchesExclude(rel, config.Exclude) {
			continue
		}

		info, err := fs.Stat(fsys, rel)
		if err != nil || !info.Mode().IsRegular() || info.Size() > maxSize {
			continue
		}

		abs := filepath.Join(root, filepath.FromSlash(rel))
		hash, err := HashFile(abs)
		if err != nil {
			continue
		}

		page, _ := table.PageForPath(filepath.Base(abs))
		pages = append(pages, PageFile{
			Path:        abs,
			RelPath:     rel,
			Size:        info.Size(),
			ContentHash: hash,
			Page:        page,
		})
	}

	return pages, nil
}

// Index maps each routed page to its file. When a route is backed by more
// than one file the shallowest path wins.
func Index(pages []PageFile) map[routes.Page]PageFile {
	out := make(map[routes.Page]PageFile)
	for _, p := range pages {
		if !p.Routed() {
			continue
		}
		if cur, ok := out[p.Page]; ok && depth(cur.RelPath) <= depth(p.RelPath) {
			continue
		}
		out[p.Page] = p
	}
	return out
}

func depth(rel string) int {
	n := 0
	for _, c := range rel {
		if c == '/' {
			n++
		}
	}
	return n
}

// HashFile computes the SHA-256 digest of the given file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

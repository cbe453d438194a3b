package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/phuslu/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/mimircode/mimircode/pkg/types"
)

// LanguageUnknown tags files whose extension has no mapping.
const LanguageUnknown = "unknown"

// supportedExtensions maps recognized file extensions to language tags.
var supportedExtensions = map[string]string{
	".cs":     "csharp",
	".ts":     "typescript",
	".java":   "java",
	".py":     "python",
	".js":     "javascript",
	".json":   "json",
	".config": "config",
	".xml":    "xml",
	".yaml":   "yaml",
	".yml":    "yaml",
	".env":    "environment configuration",
	".txt":    "text",
	".sql":    "sql",
	".go":     "golang",
	".php":    "php",
}

var (
	// ErrRootMissing is fatal: the source root does not exist or is not a
	// directory. No files are processed.
	ErrRootMissing = errors.New("source root is not a valid directory")

	// ErrUndecodable marks a file that could not be decoded as text. The
	// file is skipped, not fatal.
	ErrUndecodable = errors.New("file is not decodable text")
)

// Scanner discovers supported files under a source root. Directory
// exclusion applies uniformly to every task.
type Scanner struct {
	excludeDirs []string
}

// New creates a Scanner. excludeDirs are substrings; any directory whose
// path relative to the root contains one is pruned from the walk.
func New(excludeDirs []string) *Scanner {
	return &Scanner{excludeDirs: excludeDirs}
}

// Scan walks the root and returns the relative paths of all files whose
// extension is in the allow-list, in walk order. A missing or non-directory
// root is a fatal error.
func (s *Scanner) Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootMissing, root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Only the missing root is fatal; anything unreadable below it
			// is pruned from the walk.
			log.Warn().Str("path", path).Err(err).Msg("skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && s.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if supported(path) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return paths, nil
}

// Load reads one discovered file and decodes it as UTF-8, falling back to
// a Latin-1 decode for legacy encodings. Content that cannot be read is a
// recoverable per-file error.
func (s *Scanner) Load(root, relPath string) (*types.SourceFile, error) {
	raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", relPath, err)
	}

	content, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUndecodable, relPath)
	}

	return &types.SourceFile{
		RelPath:  relPath,
		Language: DetectLanguage(relPath),
		Content:  content,
	}, nil
}

// DetectLanguage maps a file's extension to its language tag, or
// LanguageUnknown when unmapped. Matching is case-insensitive.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := supportedExtensions[ext]; ok {
		return lang
	}
	return LanguageUnknown
}

// Extensions returns a copy of the extension allow-list.
func Extensions() map[string]string {
	out := make(map[string]string, len(supportedExtensions))
	for k, v := range supportedExtensions {
		out[k] = v
	}
	return out
}

func supported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (s *Scanner) excluded(relDir string) bool {
	for _, sub := range s.excludeDirs {
		if sub != "" && strings.Contains(relDir, sub) {
			return true
		}
	}
	return false
}

// decodeText decodes raw bytes as UTF-8 when valid, otherwise as Latin-1.
func decodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// Package media resolves free-text media filenames from the question sheet
// against a flat directory of files. Filenames in the sheet are hand-typed,
// so lookup tolerates case differences, Unicode normalization noise and a
// small set of interchangeable extensions.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// extensionEquivalents lists extensions accepted in place of the requested
// one, in priority order. The table is symmetric for the video formats and
// for the image formats it covers.
var extensionEquivalents = map[string][]string{
	"wmv":  {"mp4", "mov", "avi", "mkv"},
	"mp4":  {"wmv", "mov", "avi", "mkv"},
	"jpg":  {"jpeg", "png", "webp"},
	"jpeg": {"jpg", "png", "webp"},
	"png":  {"jpg", "jpeg", "webp"},
}

type Status string

const (
	StatusFound     Status = "found"
	StatusAmbiguous Status = "ambiguous"
	StatusMissing   Status = "missing"
)

type MatchType string

const (
	MatchExact              MatchType = "exact"
	MatchCasefold           MatchType = "casefold"
	MatchNormalized         MatchType = "normalized"
	MatchExtensionFallback  MatchType = "extension_fallback"
	MatchAmbiguous          MatchType = "ambiguous"
	MatchAmbiguousExtension MatchType = "ambiguous_extension"
	MatchMissing            MatchType = "missing"
)

// Resolution is the outcome of one lookup. Path is set only when Status is
// StatusFound; Candidates carries every file considered at the final tier.
type Resolution struct {
	Status     Status
	MatchType  MatchType
	Path       string
	Candidates []string
}

func (r Resolution) Found() bool {
	return r.Status == StatusFound
}

// Resolver indexes a media directory once at construction. The indices are
// read-only afterwards, so a single Resolver is shared for a whole import.
type Resolver struct {
	root              string
	exactMap          map[string]string
	casefoldMap       map[string]string
	normalizedMap     map[string][]string
	normalizedBaseMap map[string][]string
}

func NewResolver(root string) (*Resolver, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("media directory not found: %s", root)
	}

	r := &Resolver{
		root:              root,
		exactMap:          map[string]string{},
		casefoldMap:       map[string]string{},
		normalizedMap:     map[string][]string{},
		normalizedBaseMap: map[string][]string{},
	}
	if err := r.buildIndex(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolver) buildIndex() error {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return fmt.Errorf("cannot list media directory %s: %w", r.root, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		basename := entry.Name()
		path := filepath.Join(r.root, basename)

		r.exactMap[basename] = path
		// First writer wins so lookups stay deterministic on collisions.
		folded := strings.ToLower(basename)
		if _, taken := r.casefoldMap[folded]; !taken {
			r.casefoldMap[folded] = path
		}
		normalized := Normalize(basename)
		r.normalizedMap[normalized] = append(r.normalizedMap[normalized], path)
		base := Normalize(strings.TrimSuffix(basename, filepath.Ext(basename)))
		r.normalizedBaseMap[base] = append(r.normalizedBaseMap[base], path)
	}
	return nil
}

// Resolve walks the matching tiers in order and returns at the first hit:
// exact, case-insensitive, normalized full name, then normalized base name
// with extension fallback.
func (r *Resolver) Resolve(filename string) Resolution {
	if strings.TrimSpace(filename) == "" {
		return Resolution{Status: StatusMissing, MatchType: MatchMissing}
	}

	if path, ok := r.exactMap[filename]; ok {
		return Resolution{Status: StatusFound, MatchType: MatchExact, Path: path, Candidates: []string{path}}
	}

	if path, ok := r.casefoldMap[strings.ToLower(filename)]; ok {
		return Resolution{Status: StatusFound, MatchType: MatchCasefold, Path: path, Candidates: []string{path}}
	}

	normalized := r.normalizedMap[Normalize(filename)]
	if len(normalized) == 1 {
		return Resolution{Status: StatusFound, MatchType: MatchNormalized, Path: normalized[0], Candidates: normalized}
	}
	if len(normalized) > 1 {
		return Resolution{Status: StatusAmbiguous, MatchType: MatchAmbiguous, Candidates: normalized}
	}

	if fallback, ok := r.resolveWithExtensionFallback(filename); ok {
		return fallback
	}

	return Resolution{Status: StatusMissing, MatchType: MatchMissing}
}

func (r *Resolver) resolveWithExtensionFallback(filename string) (Resolution, bool) {
	base := Normalize(strings.TrimSuffix(filename, filepath.Ext(filename)))
	baseCandidates := r.normalizedBaseMap[base]
	if len(baseCandidates) == 0 {
		return Resolution{}, false
	}

	requested := extensionOf(filename)
	priority := append([]string{requested}, extensionEquivalents[requested]...)

	rank := func(path string) int {
		ext := extensionOf(path)
		for i, candidate := range priority {
			if candidate == ext {
				return i
			}
		}
		return len(priority)
	}

	var preferred []string
	for _, path := range baseCandidates {
		if rank(path) < len(priority) {
			preferred = append(preferred, path)
		}
	}
	if len(preferred) == 0 {
		return Resolution{}, false
	}
	if len(preferred) == 1 {
		return Resolution{Status: StatusFound, MatchType: MatchExtensionFallback, Path: preferred[0], Candidates: preferred}, true
	}

	sort.SliceStable(preferred, func(i, j int) bool { return rank(preferred[i]) < rank(preferred[j]) })
	best := []string{preferred[0]}
	for _, path := range preferred[1:] {
		if rank(path) == rank(best[0]) {
			best = append(best, path)
		}
	}
	if len(best) == 1 {
		return Resolution{Status: StatusFound, MatchType: MatchExtensionFallback, Path: best[0], Candidates: best}, true
	}
	return Resolution{Status: StatusAmbiguous, MatchType: MatchAmbiguousExtension, Candidates: best}, true
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize reduces a filename to its canonical lookup form: canonical
// decomposition, combining marks stripped, lowercased, whitespace runs
// collapsed to a single space, trimmed.
func Normalize(name string) string {
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

func extensionOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

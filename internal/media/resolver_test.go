package media

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("payload"), 0o644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
	return dir
}

func TestResolverRejectsMissingDirectory(t *testing.T) {
	if _, err := NewResolver(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing media directory")
	}
}

func TestResolveTiers(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		query     string
		status    Status
		matchType MatchType
		resolved  string
	}{
		{
			name:      "exact match",
			files:     []string{"znak.jpg"},
			query:     "znak.jpg",
			status:    StatusFound,
			matchType: MatchExact,
			resolved:  "znak.jpg",
		},
		{
			name:      "casefold match",
			files:     []string{"znak.JPG"},
			query:     "Znak.jpg",
			status:    StatusFound,
			matchType: MatchCasefold,
			resolved:  "znak.JPG",
		},
		{
			name:      "normalized match strips diacritics",
			files:     []string{"swit.png"},
			query:     "Świt.png",
			status:    StatusFound,
			matchType: MatchNormalized,
			resolved:  "swit.png",
		},
		{
			name:      "normalized match collapses whitespace",
			files:     []string{"znak stop.jpg"},
			query:     "Znak  Stop.jpg",
			status:    StatusFound,
			matchType: MatchNormalized,
			resolved:  "znak stop.jpg",
		},
		{
			name:      "normalized ambiguity chooses no path",
			files:     []string{"Znak.jpg", "znak.jpg"},
			query:     "Znak.jpg ",
			status:    StatusAmbiguous,
			matchType: MatchAmbiguous,
		},
		{
			name:      "extension fallback wmv to mp4",
			files:     []string{"clip.mp4"},
			query:     "clip.wmv",
			status:    StatusFound,
			matchType: MatchExtensionFallback,
			resolved:  "clip.mp4",
		},
		{
			name:      "extension fallback prefers higher ranked extension",
			files:     []string{"clip.mov", "clip.mp4"},
			query:     "clip.wmv",
			status:    StatusFound,
			matchType: MatchExtensionFallback,
			resolved:  "clip.mp4",
		},
		{
			name:      "extension fallback rejects unlisted extensions",
			files:     []string{"clip.txt"},
			query:     "clip.wmv",
			status:    StatusMissing,
			matchType: MatchMissing,
		},
		{
			name:      "missing file",
			files:     []string{"other.jpg"},
			query:     "znak.jpg",
			status:    StatusMissing,
			matchType: MatchMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files...)
			resolver, err := NewResolver(dir)
			if err != nil {
				t.Fatalf("NewResolver: %v", err)
			}

			result := resolver.Resolve(tt.query)
			if result.Status != tt.status {
				t.Errorf("status = %s, want %s", result.Status, tt.status)
			}
			if result.MatchType != tt.matchType {
				t.Errorf("matchType = %s, want %s", result.MatchType, tt.matchType)
			}
			if tt.resolved != "" && filepath.Base(result.Path) != tt.resolved {
				t.Errorf("path = %s, want basename %s", result.Path, tt.resolved)
			}
		})
	}
}

func TestResolveCaseCollisionIsAmbiguous(t *testing.T) {
	// Two files identical after normalization but both literally present: a
	// query hitting neither exact nor casefold tier sees both candidates.
	dir := writeFiles(t, "Znak.jpg", "znak.jpg")
	resolver, err := NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	result := resolver.Resolve("ZNAK.JPG")
	// casefold map holds the first writer; ZNAK.JPG folds to znak.jpg which
	// is literally present, so the casefold tier already resolves it.
	if result.Status != StatusFound || result.MatchType != MatchCasefold {
		t.Fatalf("got %s/%s, want found/casefold", result.Status, result.MatchType)
	}

	// A whitespace variant skips the literal tiers and lands on the
	// normalized index with two candidates.
	result = resolver.Resolve("znak.jpg ")
	if result.Status != StatusAmbiguous {
		t.Fatalf("status = %s, want ambiguous", result.Status)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(result.Candidates))
	}
	if result.Path != "" {
		t.Errorf("ambiguous resolution must not choose a path, got %s", result.Path)
	}
}

func TestResolveExtensionTieIsAmbiguous(t *testing.T) {
	dir := writeFiles(t, "Clip A.mp4", "Clip  A.mp4")
	resolver, err := NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	result := resolver.Resolve("clip a.wmv")
	if result.Status != StatusAmbiguous || result.MatchType != MatchAmbiguousExtension {
		t.Fatalf("got %s/%s, want ambiguous/ambiguous_extension", result.Status, result.MatchType)
	}
}

func TestResolveBlankFilenameIsMissing(t *testing.T) {
	dir := writeFiles(t, "znak.jpg")
	resolver, err := NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	for _, query := range []string{"", "   ", "\t"} {
		result := resolver.Resolve(query)
		if result.Status != StatusMissing {
			t.Errorf("Resolve(%q) status = %s, want missing", query, result.Status)
		}
		if len(result.Candidates) != 0 {
			t.Errorf("Resolve(%q) must not consult the indices", query)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Znak.jpg", "znak.jpg"},
		{"  Znak   STOP.jpg ", "znak stop.jpg"},
		{"Świt nad żółtą drogą.png", "swit nad zołta droga.png"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKindForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"znak.jpg", "image"},
		{"zdjecie.WEBP", "image"},
		{"clip.wmv", "video"},
		{"clip.mp4", "video"},
		{"strange.bin", "video"},
		{"noextension", "video"},
	}
	for _, tt := range tests {
		if got := string(KindForFilename(tt.filename)); got != tt.want {
			t.Errorf("KindForFilename(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}
}

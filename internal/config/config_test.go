package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/bookdiff/internal/fingerprint"
	"github.com/nao1215/bookdiff/internal/pages"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional; this test fails otherwise.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Threshold is 8", func(t *testing.T) {
		t.Parallel()
		if cfg.Threshold != 8 {
			t.Errorf("expected Threshold to be 8, got %d", cfg.Threshold)
		}
	})

	t.Run("default Algorithm is perception", func(t *testing.T) {
		t.Parallel()
		if cfg.Algorithm != fingerprint.AlgorithmPerception {
			t.Errorf("expected Algorithm to be perception, got %q", cfg.Algorithm)
		}
	})

	t.Run("default HashSize is 8", func(t *testing.T) {
		t.Parallel()
		if cfg.HashSize != 8 {
			t.Errorf("expected HashSize to be 8, got %d", cfg.HashSize)
		}
	})

	t.Run("default Band is unbounded", func(t *testing.T) {
		t.Parallel()
		if cfg.Band != 0 {
			t.Errorf("expected Band to be 0, got %d", cfg.Band)
		}
	})

	t.Run("default Workers is the CPU count", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != runtime.NumCPU() {
			t.Errorf("expected Workers to be %d, got %d", runtime.NumCPU(), cfg.Workers)
		}
	})

	t.Run("move detection is on and the cache is off", func(t *testing.T) {
		t.Parallel()
		if !cfg.DetectMoves {
			t.Error("expected DetectMoves to be true")
		}
		if cfg.UseCache {
			t.Error("expected UseCache to be false")
		}
		if cfg.CacheDir != XDGCacheDir() {
			t.Errorf("expected CacheDir to be %q, got %q", XDGCacheDir(), cfg.CacheDir)
		}
	})

	t.Run("default SortOrder is lexical", func(t *testing.T) {
		t.Parallel()
		if cfg.SortOrder != pages.SortLexical {
			t.Errorf("expected SortOrder to be lexical, got %q", cfg.SortOrder)
		}
	})

	t.Run("defaults pass parameter validation", func(t *testing.T) {
		t.Parallel()
		if err := cfg.ValidateParameters(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate tests every validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.OldPath = "old"
		cfg.NewPath = "new"
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	testCases := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"missing old path", func(c *Config) { c.OldPath = "" }, ErrMissingPath},
		{"missing new path", func(c *Config) { c.NewPath = "" }, ErrMissingPath},
		{"negative threshold", func(c *Config) { c.Threshold = -1 }, ErrInvalidThreshold},
		{"threshold at hash width", func(c *Config) { c.Threshold = 64 }, ErrInvalidThreshold},
		{"negative band", func(c *Config) { c.Band = -3 }, ErrInvalidBand},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "blockhash" }, ErrUnknownAlgorithm},
		{"hash size 12", func(c *Config) { c.HashSize = 12 }, ErrInvalidHashSize},
		{"unknown sort order", func(c *Config) { c.SortOrder = "mtime" }, ErrUnknownSortOrder},
		{"json and markdown", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	t.Run("zero threshold is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Threshold = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("large threshold is valid for 256-bit hashes", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.HashSize = 16
		cfg.Threshold = 64
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// TestFileGetProfile tests merging of profiles over defaults.
func TestFileGetProfile(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: Settings{Threshold: intPtr(6), Algorithm: strPtr("difference")},
		Profiles: map[string]Settings{
			"microfilm": {Threshold: intPtr(12), Band: intPtr(20)},
		},
	}

	t.Run("empty name returns defaults", func(t *testing.T) {
		t.Parallel()
		s, err := cf.GetProfile("")
		if err != nil {
			t.Fatal(err)
		}
		if *s.Threshold != 6 || s.Band != nil {
			t.Errorf("unexpected settings: %+v", s)
		}
	})

	t.Run("profile overrides defaults", func(t *testing.T) {
		t.Parallel()
		s, err := cf.GetProfile("microfilm")
		if err != nil {
			t.Fatal(err)
		}
		if *s.Threshold != 12 || *s.Band != 20 || *s.Algorithm != "difference" {
			t.Errorf("unexpected settings: threshold %d band %d algorithm %s", *s.Threshold, *s.Band, *s.Algorithm)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()
		if _, err := cf.GetProfile("vellum"); !errors.Is(err, ErrUnknownProfile) {
			t.Errorf("expected ErrUnknownProfile, got %v", err)
		}
	})
}

// TestConfigApply tests that only set fields are copied.
func TestConfigApply(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Apply(Settings{
		Threshold:   intPtr(3),
		Algorithm:   strPtr("average"),
		HashSize:    intPtr(16),
		Band:        intPtr(50),
		Workers:     intPtr(2),
		DetectMoves: boolPtr(false),
		Sort:        strPtr("natural"),
		Cache:       boolPtr(true),
		CacheDir:    strPtr("/var/cache/bookdiff"),
	})

	if cfg.Threshold != 3 || cfg.Algorithm != fingerprint.AlgorithmAverage || cfg.HashSize != 16 ||
		cfg.Band != 50 || cfg.Workers != 2 || cfg.DetectMoves || cfg.SortOrder != pages.SortNatural ||
		!cfg.UseCache || cfg.CacheDir != "/var/cache/bookdiff" {
		t.Errorf("settings not applied: %+v", cfg)
	}

	untouched := NewConfig()
	untouched.Apply(Settings{})
	if *untouched != *NewConfig() {
		t.Errorf("empty settings changed the config: %+v", untouched)
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.bookdiff")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".bookdiff")
		content := `defaults:
  threshold: 10
  algorithm: perception
  detectMoves: false
profiles:
  archive:
    hashSize: 16
    threshold: 40
    sort: natural
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *cf.Defaults.Threshold != 10 || *cf.Defaults.DetectMoves {
			t.Errorf("unexpected defaults: %+v", cf.Defaults)
		}
		archive, ok := cf.Profiles["archive"]
		if !ok {
			t.Fatal("expected archive in profiles")
		}
		if *archive.HashSize != 16 || *archive.Sort != "natural" {
			t.Errorf("unexpected profile: %+v", archive)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".bookdiff")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Profiles map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".bookdiff")
		if err := os.WriteFile(configPath, []byte("defaults:\n  threshold: 5\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Profiles == nil {
			t.Error("expected Profiles map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"config": XDGConfigDir(),
		"cache":  XDGCacheDir(),
	} {
		if !strings.HasSuffix(dir, AppName) {
			t.Errorf("XDG %s dir %q does not end in %s", name, dir, AppName)
		}
	}
}

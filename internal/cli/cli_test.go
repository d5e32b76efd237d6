package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/threadmap/pkg/config"
	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, PDF,,json", []string{"svg", "pdf", "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    *geom.Point
		wantErr bool
	}{
		{"", nil, false},
		{"10,20", &geom.Point{X: 10, Y: 20}, false},
		{" -3.5 , 4 ", &geom.Point{X: -3.5, Y: 4}, false},
		{"10", nil, true},
		{"a,1", nil, true},
		{"1,b", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePoint(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("parsePoint(%q) error = %v, want INVALID_INPUT", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePoint(%q) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parsePoint(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithExt(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"map.json", "svg", "map.svg"},
		{"map.layout.json", "png", "map.png"},
		{"dir.v2/map", "pdf", "dir.v2/map.pdf"},
		{"map.layout.json", "render.json", "map.render.json"},
	}
	for _, tt := range tests {
		if got := withExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("withExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"Default", "", []string{"svg", "json"}, map[string]string{"svg": "m.svg", "json": "m.render.json"}},
		{"SingleExplicit", "out.image", []string{"png"}, map[string]string{"png": "out.image"}},
		{"BaseWithFormatExt", "out/map.svg", []string{"svg", "pdf"}, map[string]string{"svg": "out/map.svg", "pdf": "out/map.pdf"}},
		{"BaseWithoutExt", "out/map", []string{"svg", "pdf"}, map[string]string{"svg": "out/map.svg", "pdf": "out/map.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths("m.layout.json", tt.output, tt.formats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.yaml", "a.layout.json", "sub/c.json"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	p := func(name string) string { return filepath.Join(dir, name) }

	t.Run("Glob", func(t *testing.T) {
		got, err := expandInputs([]string{p("*.json")})
		if err != nil {
			t.Fatal(err)
		}
		if want := []string{p("a.json")}; !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("DoubleStar", func(t *testing.T) {
		got, err := expandInputs([]string{p("**/*.{json,yaml}")})
		if err != nil {
			t.Fatal(err)
		}
		want := []string{p("a.json"), p("b.yaml"), p("sub/c.json")}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("LiteralAndDuplicates", func(t *testing.T) {
		got, err := expandInputs([]string{p("b.yaml"), p("*.yaml"), "missing.json"})
		if err != nil {
			t.Fatal(err)
		}
		want := []string{p("b.yaml"), "missing.json"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("NoMatch", func(t *testing.T) {
		_, err := expandInputs([]string{p("*.toml")})
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("error = %v, want FILE_NOT_FOUND", err)
		}
	})
}

func TestIsLayoutFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.layout.json": true,
		"x/a.layout.yaml": true,
		"a.json":        false,
		"layout.json":   false,
	} {
		if got := isLayoutFile(path); got != want {
			t.Errorf("isLayoutFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestCacheDir(t *testing.T) {
	t.Run("XDG", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
		c := New(os.Stderr, LogInfo)
		dir, err := c.cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("Configured", func(t *testing.T) {
		c := New(os.Stderr, LogInfo)
		c.Config.Cache.Dir = "/srv/tm-cache"
		if dir, _ := c.cacheDir(); dir != "/srv/tm-cache" {
			t.Errorf("cacheDir() = %q", dir)
		}
	})

	t.Run("Remote", func(t *testing.T) {
		c := New(os.Stderr, LogInfo)
		c.Config.Cache.Backend = config.BackendRedis
		if _, err := c.cacheDir(); !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("error = %v, want UNSUPPORTED", err)
		}
	})
}

package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	embedded := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	read := func() (*debug.BuildInfo, bool) { return embedded, true }

	tests := []struct {
		name                  string
		version, commit, date string
		read                  func() (*debug.BuildInfo, bool)
		want                  Info
	}{
		{
			name:    "Unstamped",
			version: devVersion, commit: noCommit, date: unknownDate,
			read: read,
			want: Info{Version: "v0.3.1", Commit: "abc123", Date: "2026-01-02T03:04:05Z", Dirty: true},
		},
		{
			name:    "StampedWins",
			version: "v1.0.0", commit: "fff", date: "today",
			read: read,
			want: Info{Version: "v1.0.0", Commit: "fff", Date: "today", Dirty: true},
		},
		{
			name:    "NoBuildInfo",
			version: devVersion, commit: noCommit, date: unknownDate,
			read: func() (*debug.BuildInfo, bool) { return nil, false },
			want: Info{Version: devVersion, Commit: noCommit, Date: unknownDate},
		},
		{
			name:    "DevelModule",
			version: devVersion, commit: noCommit, date: unknownDate,
			read: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
			},
			want: Info{Version: devVersion, Commit: noCommit, Date: unknownDate},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolve(tt.version, tt.commit, tt.date, tt.read); got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	s := Info{Version: "v1", Commit: "abc", Date: "d", Dirty: true}.String()
	for _, want := range []string{"version: v1", "commit: abc (modified)", "built: d"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} version: ") {
		t.Errorf("Template() = %q", tmpl)
	}
}

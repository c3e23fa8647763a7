package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"tools.zach/dev/presencecord/internal/config"
	"tools.zach/dev/presencecord/internal/paths"
)

// ///////////////////////////////////////////////
// render Tests
// ///////////////////////////////////////////////

func TestRenderMatchesCommittedFile(t *testing.T) {
	got, err := render(config.ExampleConfig(), config.ConfigDocs)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want, err := os.ReadFile(filepath.Join("..", "..", paths.DefaultConfigFile))
	if err != nil {
		t.Fatalf("read committed file: %v", err)
	}
	if got != string(want) {
		t.Errorf("%s is stale; run go generate ./internal/config\n--- rendered ---\n%s", paths.DefaultConfigFile, got)
	}
}

func TestRenderPlacesComments(t *testing.T) {
	type section struct {
		Name  string `toml:"name"`
		Extra string `toml:"extra,omitempty"`
	}
	cfg := struct {
		Version int     `toml:"version"`
		Sec     section `toml:"sec"`
	}{Version: 3, Sec: section{Name: "x"}}
	docs := map[string]config.FieldDoc{
		"version":   {Comment: "schema"},
		"sec":       {Comment: "a section\nover two lines"},
		"sec.name":  {Comment: "the name", Alternatives: []string{`name = "y"`}},
		"sec.extra": {Comment: "optional", Alternatives: []string{`extra = "z"`}},
	}

	got, err := render(cfg, docs)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := strings.Join([]string{
		"# ///////////////////////////////////////////////",
		"# presencecord Configuration",
		"# ///////////////////////////////////////////////",
		"",
		"# schema",
		"version = 3",
		"",
		"# ///// Sec /////",
		"",
		"# a section",
		"# over two lines",
		"[sec]",
		"# the name",
		`name = "x"`,
		`# name = "y"`,
		"",
		"# optional",
		`# extra = "z"`,
	}, "\n") + "\n"
	if got != want {
		t.Errorf("render() =\n%s\nwant\n%s", got, want)
	}
}

// ///////////////////////////////////////////////
// Helper Tests
// ///////////////////////////////////////////////

func TestParseSectionPath(t *testing.T) {
	tests := []struct {
		section string
		want    []string
	}{
		{"steam", []string{"steam"}},
		{"steam.proxy", []string{"steam", "proxy"}},
		{"a.b.c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		if got := parseSectionPath(tt.section); !slices.Equal(got, tt.want) {
			t.Errorf("parseSectionPath(%q) = %v, want %v", tt.section, got, tt.want)
		}
	}
}

func TestSectionName(t *testing.T) {
	tests := []struct {
		section string
		want    string
	}{
		{"tracker", "Tracker"},
		{"steam.proxy", "Proxy"},
		{"Log", "Log"},
		{"a", "A"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sectionName(tt.section); got != tt.want {
			t.Errorf("sectionName(%q) = %q, want %q", tt.section, got, tt.want)
		}
	}
}

func TestInjectOmittedNoSection(t *testing.T) {
	var out []string
	injectOmitted(&out, config.ConfigDocs, nil, map[string]bool{})
	if len(out) != 0 {
		t.Errorf("injectOmitted outside a section produced %d lines, want 0", len(out))
	}
}

func TestInjectOmittedSkipsNestedAndEmitted(t *testing.T) {
	docs := map[string]config.FieldDoc{
		"steam.a":       {Comment: "a"},
		"steam.b":       {Comment: "b"},
		"steam.proxy.c": {Comment: "nested"},
	}
	var out []string
	injectOmitted(&out, docs, []string{"steam"}, map[string]bool{"steam.a": true})
	want := []string{"", "# b"}
	if !slices.Equal(out, want) {
		t.Errorf("injectOmitted() = %q, want %q", out, want)
	}
}

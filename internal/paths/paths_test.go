package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ///////////////////////////////////////////////
// Constant Value Tests
// ///////////////////////////////////////////////

func TestConstantValues(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"DataDirRel", DataDirRel, ".presencecord"},
		{"PIDFile", PIDFile, "daemon.pid"},
		{"ConfigFile", ConfigFile, "config.toml"},
		{"LogFile", LogFile, "daemon.log"},
		{"BinaryName", BinaryName, "presencecord"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

// ///////////////////////////////////////////////
// DataDir Method Tests
// ///////////////////////////////////////////////

func TestDataDirMethods(t *testing.T) {
	root := filepath.Join("home", "user", ".presencecord")
	d := DataDir{Root: root}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"PID", d.PID(), filepath.Join(root, "daemon.pid")},
		{"Config", d.Config(), filepath.Join(root, "config.toml")},
		{"ConfigBackup", d.ConfigBackup(), filepath.Join(root, "config.toml.bak")},
		{"Log", d.Log(), filepath.Join(root, "daemon.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestDataDirEmptyRoot(t *testing.T) {
	d := DataDir{Root: ""}

	// With an empty root, methods should return just the filename.
	if got := d.PID(); got != PIDFile {
		t.Errorf("PID() with empty root = %q, want %q", got, PIDFile)
	}
	if got := d.Config(); got != ConfigFile {
		t.Errorf("Config() with empty root = %q, want %q", got, ConfigFile)
	}
}

func TestDefaultEndsWithDataDirRel(t *testing.T) {
	d := Default()
	if filepath.Base(d.Root) != DataDirRel {
		t.Errorf("Default().Root = %q, want it to end in %q", d.Root, DataDirRel)
	}
}

// ///////////////////////////////////////////////
// Embedded default config
// ///////////////////////////////////////////////

func TestDefaultConfigFilePresent(t *testing.T) {
	// The root package embeds this file; a missing file breaks the build of
	// every binary, so catch it here with a clearer message.
	data, err := os.ReadFile(filepath.Join(findRepoRoot(t), DefaultConfigFile))
	if err != nil {
		t.Fatalf("read %s: %v", DefaultConfigFile, err)
	}
	for _, section := range []string{"[discord]", "[steam]", "[tracker]", "[log]"} {
		if !strings.Contains(string(data), section) {
			t.Errorf("%s missing section %s", DefaultConfigFile, section)
		}
	}
}

// findRepoRoot walks up from the current working directory to find the repository
// root by looking for go.mod.
func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("os.Getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find repo root (go.mod)")
		}
		dir = parent
	}
}

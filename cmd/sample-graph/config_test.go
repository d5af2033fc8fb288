package main

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores global flag state after each test.
func resetFlags(t *testing.T) {
	t.Helper()
	orig := struct{ url, fmt string }{flagURL, flagFmt}
	t.Cleanup(func() {
		flagURL = orig.url
		flagFmt = orig.fmt
	})
}

// writeConfig writes ~/.sample-graph/config.yaml under a temporary HOME.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	if content == "" {
		return
	}

	cfgDir := filepath.Join(tmp, ".sample-graph")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// TestResolveConfigEnvURL verifies that SAMPLE_GRAPH_URL overrides the default URL.
func TestResolveConfigEnvURL(t *testing.T) {
	resetFlags(t)
	t.Setenv("SAMPLE_GRAPH_URL", "http://env-server:9090")
	writeConfig(t, "url: http://from-file:8080\n")

	flagURL = defaultURL
	resolveConfig()

	if flagURL != "http://env-server:9090" {
		t.Errorf("flagURL: got %q, want %q", flagURL, "http://env-server:9090")
	}
}

// TestResolveConfigFlagTakesPrecedenceOverEnv verifies that an explicit flag
// value is not overridden by the environment variable.
func TestResolveConfigFlagTakesPrecedenceOverEnv(t *testing.T) {
	resetFlags(t)
	t.Setenv("SAMPLE_GRAPH_URL", "http://env-server:9090")
	writeConfig(t, "")

	flagURL = "http://explicit-flag:1234"
	resolveConfig()

	if flagURL != "http://explicit-flag:1234" {
		t.Errorf("explicit flag should win; got %q", flagURL)
	}
}

func TestResolveConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "flat",
			content: "url: http://from-file:8080\n",
			want:    "http://from-file:8080",
		},
		{
			name: "active profile",
			content: `
active_profile: staging
profiles:
  default:
    url: http://default:8000
  staging:
    url: http://staging:4040
`,
			want: "http://staging:4040",
		},
		{
			name: "default profile",
			content: `
profiles:
  default:
    url: http://default-profile:5050
`,
			want: "http://default-profile:5050",
		},
		{
			name:    "malformed file is ignored",
			content: "url: [unterminated\n",
			want:    defaultURL,
		},
		{
			name:    "no file",
			content: "",
			want:    defaultURL,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags(t)
			t.Setenv("SAMPLE_GRAPH_URL", "")
			writeConfig(t, tc.content)

			flagURL = defaultURL
			resolveConfig()

			if flagURL != tc.want {
				t.Errorf("flagURL: got %q, want %q", flagURL, tc.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	origCommit, origDate := commit, buildDate
	t.Cleanup(func() { commit, buildDate = origCommit, origDate })

	commit, buildDate = "", ""
	if got := versionString(); got != "sample-graph version "+version+"-dev" {
		t.Errorf("dev version: %q", got)
	}

	commit, buildDate = "abc123", "2026-01-01"
	if got := versionString(); got != "sample-graph version "+version+" (commit: abc123, built: 2026-01-01)" {
		t.Errorf("release version: %q", got)
	}
}

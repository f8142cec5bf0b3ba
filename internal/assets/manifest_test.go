package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestResolveFromManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifestPath := filepath.Join(dir, ".vite", "manifest.json")
	writeFile(t, manifestPath, `{
		"index.html": {
			"file": "assets/index-BKq9ahGz.js",
			"css": ["assets/index-Dq3uVmICo.css"],
			"isEntry": true
		},
		"shared.ts": {
			"file": "assets/shared-aaaa.js"
		}
	}`)

	resolver, err := NewResolver(manifestPath, "/static/react-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bundle, err := resolver.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.ScriptURL != "/static/react-app/assets/index-BKq9ahGz.js" {
		t.Fatalf("unexpected script url: %s", bundle.ScriptURL)
	}
	if len(bundle.StyleURLs) != 1 || bundle.StyleURLs[0] != "/static/react-app/assets/index-Dq3uVmICo.css" {
		t.Fatalf("unexpected style urls: %v", bundle.StyleURLs)
	}
}

func TestResolveGlobFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "assets", "index-BKq9ahGz.js"), "//js")
	writeFile(t, filepath.Join(dir, "assets", "index-Dq3uVmICo.css"), "/*css*/")

	resolver, err := NewResolver(filepath.Join(dir, ".vite", "manifest.json"), "/static/react-app/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bundle, err := resolver.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.ScriptURL != "/static/react-app/assets/index-BKq9ahGz.js" {
		t.Fatalf("unexpected script url: %s", bundle.ScriptURL)
	}
	if len(bundle.StyleURLs) != 1 {
		t.Fatalf("unexpected style urls: %v", bundle.StyleURLs)
	}
}

func TestResolveMissingEverything(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	resolver, err := NewResolver(filepath.Join(dir, ".vite", "manifest.json"), "/static/react-app/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := resolver.Resolve(); err == nil {
		t.Fatal("expected error when no build output exists")
	}
}

func TestResolveManifestWithoutEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifestPath := filepath.Join(dir, ".vite", "manifest.json")
	writeFile(t, manifestPath, `{"shared.ts": {"file": "assets/shared-aaaa.js"}}`)

	resolver, err := NewResolver(manifestPath, "/static/react-app/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := resolver.Resolve(); err == nil {
		t.Fatal("expected error for manifest without entry chunk")
	}
}

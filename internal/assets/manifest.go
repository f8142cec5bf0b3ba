package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Bundle is the set of hashed build artifacts the storefront page loads.
type Bundle struct {
	ScriptURL string   `json:"scriptUrl"`
	StyleURLs []string `json:"styleUrls"`
}

type manifestEntry struct {
	File    string   `json:"file"`
	CSS     []string `json:"css"`
	IsEntry bool     `json:"isEntry"`
}

// Resolver maps the Vite build manifest to public URLs. Hashed filenames
// change on every build, so nothing here is cached beyond process lifetime.
type Resolver struct {
	manifestPath string
	baseURL      string
}

// NewResolver builds a resolver for the given manifest location.
func NewResolver(manifestPath, publicBaseURL string) (*Resolver, error) {
	if manifestPath == "" {
		return nil, fmt.Errorf("manifest path is required")
	}
	if publicBaseURL == "" {
		return nil, fmt.Errorf("public base url is required")
	}
	if !strings.HasSuffix(publicBaseURL, "/") {
		publicBaseURL += "/"
	}
	return &Resolver{manifestPath: manifestPath, baseURL: publicBaseURL}, nil
}

// Resolve locates the entry script and its stylesheets. It prefers the Vite
// manifest; when the manifest is absent it falls back to globbing the build
// directory for hashed index-* artifacts.
func (r *Resolver) Resolve() (*Bundle, error) {
	bundle, err := r.fromManifest()
	if err == nil {
		return bundle, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	return r.fromGlob()
}

func (r *Resolver) fromManifest() (*Bundle, error) {
	raw, err := os.ReadFile(r.manifestPath)
	if err != nil {
		return nil, err
	}

	var manifest map[string]manifestEntry
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parsing asset manifest: %w", err)
	}

	keys := make([]string, 0, len(manifest))
	for key := range manifest {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry := manifest[key]
		if !entry.IsEntry || entry.File == "" {
			continue
		}
		bundle := &Bundle{ScriptURL: r.baseURL + entry.File}
		for _, css := range entry.CSS {
			bundle.StyleURLs = append(bundle.StyleURLs, r.baseURL+css)
		}
		return bundle, nil
	}
	return nil, fmt.Errorf("asset manifest has no entry chunk")
}

func (r *Resolver) fromGlob() (*Bundle, error) {
	dir := filepath.Dir(filepath.Dir(r.manifestPath))

	scripts, err := filepath.Glob(filepath.Join(dir, "assets", "index-*.js"))
	if err != nil {
		return nil, err
	}
	if len(scripts) == 0 {
		return nil, fmt.Errorf("no built entry script under %s", dir)
	}
	sort.Strings(scripts)

	styles, err := filepath.Glob(filepath.Join(dir, "assets", "index-*.css"))
	if err != nil {
		return nil, err
	}
	sort.Strings(styles)

	bundle := &Bundle{ScriptURL: r.baseURL + relativeURL(dir, scripts[0])}
	for _, style := range styles {
		bundle.StyleURLs = append(bundle.StyleURLs, r.baseURL+relativeURL(dir, style))
	}
	return bundle, nil
}

func relativeURL(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

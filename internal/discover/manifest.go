package discover

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Contribution is one entry of a plugin manifest's contributes.snippets.
type Contribution struct {
	Language string `json:"language"`
	Path     string `json:"path"`
}

type manifest struct {
	Contributes struct {
		Snippets []Contribution `json:"snippets"`
	} `json:"contributes"`
}

// ReadManifest returns the snippet contributions declared in extDir's
// package.json, with each Path resolved against extDir. A missing or
// unparseable manifest declares nothing.
func ReadManifest(extDir string) []Contribution {
	data, err := os.ReadFile(filepath.Join(extDir, manifestFilename))
	if err != nil {
		return nil
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil
	}
	var m manifest
	if err := json.Unmarshal(std, &m); err != nil {
		return nil
	}

	var out []Contribution
	for _, c := range m.Contributes.Snippets {
		if c.Language == "" || c.Path == "" {
			continue
		}
		p := filepath.FromSlash(c.Path)
		if !filepath.IsAbs(p) {
			p = filepath.Join(extDir, p)
		}
		out = append(out, Contribution{Language: c.Language, Path: filepath.Clean(p)})
	}
	return out
}

// ContributionsFor filters contributions to one language id.
func ContributionsFor(contribs []Contribution, languageID string) []string {
	var paths []string
	for _, c := range contribs {
		if c.Language == languageID {
			paths = append(paths, c.Path)
		}
	}
	return paths
}

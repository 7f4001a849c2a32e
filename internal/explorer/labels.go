package explorer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DeusData/snippets-explorer/internal/pipeline"
	"github.com/DeusData/snippets-explorer/internal/snippet"
)

// FileLabel names a snippet file by plugin id and version.
func FileLabel(meta snippet.Meta) string {
	return meta.PathInfo.Label()
}

// FileTooltip says where a snippet file came from.
func FileTooltip(meta snippet.Meta) string {
	return fmt.Sprintf("%s snippets from %s", meta.KindNiceName(), meta.PathInfo.FullPath)
}

// LanguageTooltip describes a language node.
func LanguageTooltip(languageID string) string {
	return fmt.Sprintf("Snippets for '%s'", languageID)
}

// SnippetLabel is the prefix, then the name when it differs from the prefix,
// then the description when it differs from the name.
func SnippetLabel(s snippet.Snippet) string {
	prefix := s.PrefixText()
	desc := s.DescriptionText()
	nameDiffers := prefix != s.Name
	descDiffers := desc != "" && desc != s.Name

	var b strings.Builder
	b.WriteString(prefix)
	if nameDiffers {
		fmt.Fprintf(&b, "  ▪︎  \"%s\"", s.Name)
	}
	if descDiffers {
		if !nameDiffers {
			b.WriteString("  ▪︎")
		}
		fmt.Fprintf(&b, "  (%s)", desc)
	}
	return b.String()
}

// Tooltip is the body on one line.
func Tooltip(s snippet.Snippet) string {
	return s.Tooltip()
}

// StripPrefix shortens fullPath for display. Bundled plugin paths lose the
// editor install prefix, user snippet paths become User/snippets/..., and
// plugin paths become <plugin>/snippets/....
func StripPrefix(fullPath string, src pipeline.Sources) string {
	for _, dir := range []string{src.UserSnippetsDir, src.PortableSnippetsDir} {
		if rel, ok := under(dir, fullPath); ok {
			return filepath.Join("User", "snippets", rel)
		}
	}
	for _, root := range src.ExtensionRoots {
		if rel, ok := under(root, fullPath); ok {
			return rel
		}
	}
	for _, root := range src.BuiltinRoots {
		root = filepath.Clean(root)
		if _, ok := under(root, fullPath); ok {
			rel, _ := under(filepath.Dir(root), fullPath)
			return rel
		}
	}
	return fullPath
}

func under(root, p string) (string, bool) {
	if root == "" || !filepath.IsAbs(p) {
		return "", false
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

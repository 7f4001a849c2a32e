package snippet

import (
	"path"
	"regexp"
	"strings"

	"github.com/DeusData/snippets-explorer/internal/version"
)

// ExtensionPathInfo is derived from a snippet file's path. For plugin
// installations it carries the plugin id and version taken from the
// directory name; for any other path the id falls back to the basename.
type ExtensionPathInfo struct {
	FullPath         string
	ExtensionID      string
	ExtensionVersion string
	Version          version.Version
	Basename         string
}

const pluginDirPattern = `([^/]+?)(?:-(\d+(?:\.\d+)*))?(?:-(?:darwin|linux|win32|alpine|web)(?:-[a-z0-9]+)*)?/snippets/([^/]+)$`

var (
	// .../extensions/<id>[-<version>][-<platform>[-<arch>]]/snippets/<basename>
	extensionPathRe = regexp.MustCompile(`^.*/extensions/` + pluginDirPattern)
	// <root>/<id>[-<version>][-<platform>[-<arch>]]/snippets/<basename>
	pluginPathRe = regexp.MustCompile(`^(?:.*/)?` + pluginDirPattern)
)

// NewExtensionPathInfo analyses fullPath.
func NewExtensionPathInfo(fullPath string) ExtensionPathInfo {
	return newPathInfo(fullPath, extensionPathRe)
}

// NewPluginPathInfo analyses the path of a file shipped by an installed
// plugin. The id and version come from the directory above snippets/,
// whatever the plugin root is called.
func NewPluginPathInfo(fullPath string) ExtensionPathInfo {
	return newPathInfo(fullPath, pluginPathRe)
}

func newPathInfo(fullPath string, re *regexp.Regexp) ExtensionPathInfo {
	slashed := strings.ReplaceAll(fullPath, `\`, "/")
	info := ExtensionPathInfo{FullPath: fullPath}

	if m := re.FindStringSubmatch(slashed); m != nil {
		info.ExtensionID = strings.TrimLeft(m[1], ".")
		info.ExtensionVersion = m[2]
		info.Basename = m[3]
	} else {
		base := path.Base(slashed)
		info.ExtensionID = base
		info.Basename = base
	}
	info.Version = version.Parse(info.ExtensionVersion)
	return info
}

// Label is the display label of a snippet file: "<id> <version>".
func (p ExtensionPathInfo) Label() string {
	if p.ExtensionVersion == "" {
		return p.ExtensionID
	}
	return p.ExtensionID + " " + p.ExtensionVersion
}

package snippet

import (
	"fmt"
	"strings"
)

// Kind says where a snippet file was found.
type Kind int

const (
	KindUnknown Kind = iota
	// KindProject is a .code-snippets file in a project's .vscode directory.
	KindProject
	// KindUser is a per-language <id>.json file in the user snippets directory.
	KindUser
	// KindExtension is a file in an installed plugin's snippets directory.
	KindExtension
	// KindBuiltin is a file shipped with the editor's bundled plugins.
	KindBuiltin
	// KindGlobalUser is a user .code-snippets file whose entries carry their own scope.
	KindGlobalUser
	// KindExtensionPackageJSON is a file named by a plugin manifest's contributes.snippets.
	KindExtensionPackageJSON
)

var kindNames = map[Kind]string{
	KindProject:              "PROJECT",
	KindUser:                 "USER",
	KindExtension:            "EXTENSION",
	KindBuiltin:              "BUILTIN",
	KindGlobalUser:           "GLOBAL_USER",
	KindExtensionPackageJSON: "EXTENSION_PACKAGEJSON",
}

// String returns the short upper-case name, e.g. "EXTENSION".
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// NiceName returns the display name used in labels and tooltips.
func (k Kind) NiceName() string {
	switch k {
	case KindProject:
		return "PROJECT (defined in this project)"
	case KindUser:
		return "USER (user defined)"
	case KindExtension:
		return "EXTENSION (provided by an extension)"
	case KindExtensionPackageJSON:
		return "EXTENSION_PACKAGEJSON (contributed via extension's package.json)"
	case KindBuiltin:
		return "BUILTIN (built-in)"
	case KindGlobalUser:
		return "GLOBAL_USER (defined by user in a global snippets file)"
	default:
		return "UNKNOWN"
	}
}

// ParseKind accepts the short name in any case.
func ParseKind(s string) (Kind, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == want {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown snippet kind %q", s)
}

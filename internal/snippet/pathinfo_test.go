package snippet

import "testing"

func TestNewExtensionPathInfo(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantID      string
		wantVersion string
		wantBase    string
	}{
		{
			name:        "python extension",
			path:        "/Users/andy/.vscode/extensions/ms-python.python-2019.6.96456/snippets/python.json",
			wantID:      "ms-python.python",
			wantVersion: "2019.6.96456",
			wantBase:    "python.json",
		},
		{
			name:        "dart extension",
			path:        "/Users/Andy/.vscode/extensions/dart-code.dart-code-3.13.2/snippets/dart.json",
			wantID:      "dart-code.dart-code",
			wantVersion: "3.13.2",
			wantBase:    "dart.json",
		},
		{
			name:        "builtin without version",
			path:        "/Applications/Visual Studio Code.app/Contents/Resources/app/extensions/javascript/snippets/javascript.code-snippets",
			wantID:      "javascript",
			wantVersion: "",
			wantBase:    "javascript.code-snippets",
		},
		{
			name:        "leading dot",
			path:        "/Users/Andy/.vscode/extensions/.ms-python.python-2018.9.1/snippets/python.json",
			wantID:      "ms-python.python",
			wantVersion: "2018.9.1",
			wantBase:    "python.json",
		},
		{
			name:        "platform suffix",
			path:        "/Users/a/.vscode/extensions/ms-toolsai.jupyter-2024.3.1-darwin-arm64/snippets/python.json",
			wantID:      "ms-toolsai.jupyter",
			wantVersion: "2024.3.1",
			wantBase:    "python.json",
		},
		{
			name:        "web platform suffix",
			path:        "/home/u/.vscode/extensions/acme.tools-1.0.0-web/snippets/snippets.json",
			wantID:      "acme.tools",
			wantVersion: "1.0.0",
			wantBase:    "snippets.json",
		},
		{
			name:        "hyphenated builtin",
			path:        "/usr/share/code/resources/app/extensions/vscode-css/snippets/css.code-snippets",
			wantID:      "vscode-css",
			wantVersion: "",
			wantBase:    "css.code-snippets",
		},
		{
			name:        "windows separators",
			path:        `C:\Users\andy\.vscode\extensions\ms-python.python-2020.7.96456\snippets\python.json`,
			wantID:      "ms-python.python",
			wantVersion: "2020.7.96456",
			wantBase:    "python.json",
		},
		{
			name:        "user snippets fallback",
			path:        "/Users/Andy/Library/Application Support/Code/User/snippets/python.json",
			wantID:      "python.json",
			wantVersion: "",
			wantBase:    "python.json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewExtensionPathInfo(tt.path)
			if info.FullPath != tt.path {
				t.Errorf("FullPath = %q", info.FullPath)
			}
			if info.ExtensionID != tt.wantID {
				t.Errorf("ExtensionID = %q, want %q", info.ExtensionID, tt.wantID)
			}
			if info.ExtensionVersion != tt.wantVersion {
				t.Errorf("ExtensionVersion = %q, want %q", info.ExtensionVersion, tt.wantVersion)
			}
			if info.Version.String() != tt.wantVersion {
				t.Errorf("Version = %q, want %q", info.Version.String(), tt.wantVersion)
			}
			if info.Basename != tt.wantBase {
				t.Errorf("Basename = %q, want %q", info.Basename, tt.wantBase)
			}
		})
	}
}

func TestNewPluginPathInfo(t *testing.T) {
	tests := []struct {
		path        string
		wantID      string
		wantVersion string
		wantBase    string
	}{
		{"/opt/plugins/acme.one-1.0.0/snippets/go.json", "acme.one", "1.0.0", "go.json"},
		{"/opt/plugins/acme.two-1.2.0-linux-x64/snippets/go.json", "acme.two", "1.2.0", "go.json"},
		{"/h/.vscode/extensions/golang.go-0.40.0/snippets/go.json", "golang.go", "0.40.0", "go.json"},
		{`D:\plugins\acme.one-2.0.0\snippets\go.json`, "acme.one", "2.0.0", "go.json"},
		{"/opt/plugins/acme.one-1.0.0/out/go.json", "go.json", "", "go.json"},
	}
	for _, tt := range tests {
		info := NewPluginPathInfo(tt.path)
		if info.ExtensionID != tt.wantID || info.ExtensionVersion != tt.wantVersion || info.Basename != tt.wantBase {
			t.Errorf("NewPluginPathInfo(%q) = %q %q %q, want %q %q %q", tt.path,
				info.ExtensionID, info.ExtensionVersion, info.Basename, tt.wantID, tt.wantVersion, tt.wantBase)
		}
	}
}

func TestNewRecordUsesPluginPathInfo(t *testing.T) {
	snips := []Snippet{{Name: "log"}}
	path := "/opt/plugins/acme.one-1.0.0/snippets/go.json"
	rec, err := NewRecord(path, KindExtension, "go", snips)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if rec.Meta.PathInfo.ExtensionID != "acme.one" || rec.Meta.PathInfo.ExtensionVersion != "1.0.0" {
		t.Errorf("plugin meta = %+v", rec.Meta.PathInfo)
	}
	rec, err = NewRecord(path, KindUser, "go", snips)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if rec.Meta.PathInfo.ExtensionID != "go.json" {
		t.Errorf("user meta = %+v", rec.Meta.PathInfo)
	}
}

func TestExtensionPathInfoLabel(t *testing.T) {
	info := NewExtensionPathInfo("/h/.vscode/extensions/ms-python.python-2020.7.96456/snippets/python.json")
	if got := info.Label(); got != "ms-python.python 2020.7.96456" {
		t.Errorf("Label() = %q", got)
	}
	info = NewExtensionPathInfo("/h/.config/Code/User/snippets/go.json")
	if got := info.Label(); got != "go.json" {
		t.Errorf("Label() = %q", got)
	}
}

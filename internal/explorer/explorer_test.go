package explorer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/DeusData/snippets-explorer/internal/pipeline"
	"github.com/DeusData/snippets-explorer/internal/snippet"
	"github.com/DeusData/snippets-explorer/internal/store"
)

const twoSnippets = `{
	"name1": {"prefix": "prefix1", "body": ["line one", "line two"], "description": "description1"},
	"name2": {"prefix": "prefix2", "body": "x", "description": "description2"}
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

type fixture struct {
	ext, user               string
	dart, flutter, nash, py string
	userGo                  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		ext:  filepath.Join(root, "extensions"),
		user: filepath.Join(root, "Code", "User", "snippets"),
	}
	f.dart = filepath.Join(f.ext, "dart-code.dart-code-3.13.2", "snippets", "dart.json")
	f.flutter = filepath.Join(f.ext, "dart-code.dart-code-3.13.2", "snippets", "flutter.json")
	f.nash = filepath.Join(f.ext, "nash.awesome-flutter-snippets-2.0.4", "snippets", "snippets.json")
	f.py = filepath.Join(f.ext, "ms-python.python-2020.7.96456", "snippets", "python.json")
	f.userGo = filepath.Join(f.user, "go.json")
	for _, p := range []string{f.dart, f.flutter, f.nash, f.py, f.userGo} {
		writeFile(t, p, twoSnippets)
	}
	return f
}

func newExplorer(t *testing.T, f fixture, st *store.Store) *Explorer {
	t.Helper()
	return New(&pipeline.Enumerator{Sources: pipeline.Sources{
		UserSnippetsDir: f.user,
		ExtensionRoots:  []string{f.ext},
	}}, st)
}

func TestAddLanguageRunsCompanionJobs(t *testing.T) {
	f := newFixture(t)
	e := newExplorer(t, f, nil)
	ctx := context.Background()

	ran, err := e.AddLanguage(ctx, "dart")
	if err != nil || !ran {
		t.Fatalf("AddLanguage(dart) = %v, %v", ran, err)
	}
	tree := e.Tree()
	if !tree.Has("dart") || !tree.Has("flutter") {
		t.Fatalf("Languages() = %v", tree.Languages())
	}
	if _, ok := tree.Get("dart", f.dart); !ok {
		t.Errorf("dart.json missing under dart: %v", tree.Files("dart"))
	}
	want := []string{f.flutter, f.nash}
	slices.Sort(want)
	if got := tree.Files("flutter"); !slices.Equal(got, want) {
		t.Errorf("Files(flutter) = %v, want %v", got, want)
	}

	ran, err = e.AddLanguage(ctx, "dart")
	if err != nil || ran {
		t.Errorf("second AddLanguage(dart) = %v, %v", ran, err)
	}
	if ran, _ := e.AddLanguage(ctx, "search-result"); ran {
		t.Error("ignored language should not run")
	}
}

func TestRefreshDropsDeletedFiles(t *testing.T) {
	f := newFixture(t)
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer st.Close()
	e := newExplorer(t, f, st)
	ctx := context.Background()

	for _, id := range []string{"python", "go"} {
		if _, err := e.AddLanguage(ctx, id); err != nil {
			t.Fatalf("AddLanguage(%s): %v", id, err)
		}
	}
	if n, _ := st.Count(); n != 4 {
		t.Fatalf("store Count() = %d, want 4", n)
	}

	if err := os.Remove(f.userGo); err != nil {
		t.Fatal(err)
	}
	jobs, err := e.Refresh(ctx, "")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !slices.Equal(jobs, []string{"python", "go"}) {
		t.Errorf("jobs = %v", jobs)
	}
	if len(e.Tree().Files("go")) != 0 {
		t.Errorf("deleted file still present: %v", e.Tree().Files("go"))
	}
	if n, _ := st.Count(); n != 2 {
		t.Errorf("store Count() after refresh = %d, want 2", n)
	}

	writeFile(t, f.userGo, twoSnippets)
	jobs, err = e.Refresh(ctx, "go")
	if err != nil {
		t.Fatalf("Refresh(go): %v", err)
	}
	if !slices.Equal(jobs, []string{"go"}) || len(e.Tree().Files("go")) != 1 {
		t.Errorf("Refresh(go) jobs %v files %v", jobs, e.Tree().Files("go"))
	}
	if len(e.Tree().Files("python")) != 1 {
		t.Error("refreshing one language must keep the others")
	}
}

func TestConcurrentRefreshKeepsBuckets(t *testing.T) {
	f := newFixture(t)
	e := newExplorer(t, f, nil)
	ctx := context.Background()
	if _, err := e.AddLanguage(ctx, "dart"); err != nil {
		t.Fatalf("AddLanguage(dart): %v", err)
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			only := "dart"
			if i%2 == 1 {
				only = ""
			}
			if _, err := e.Refresh(ctx, only); err != nil {
				t.Errorf("Refresh(%q): %v", only, err)
			}
		}()
	}
	wg.Wait()

	wantDart := []string{f.dart, f.flutter, f.nash}
	slices.Sort(wantDart)
	if got := e.Tree().Files("dart"); !slices.Equal(got, wantDart) {
		t.Errorf("Files(dart) = %v, want %v", got, wantDart)
	}
	wantFlutter := []string{f.flutter, f.nash}
	slices.Sort(wantFlutter)
	if got := e.Tree().Files("flutter"); !slices.Equal(got, wantFlutter) {
		t.Errorf("Files(flutter) = %v, want %v", got, wantFlutter)
	}
}

func TestBodyAndErrors(t *testing.T) {
	f := newFixture(t)
	bad := filepath.Join(f.user, "rust.json")
	writeFile(t, bad, `{"oops": `)

	var notified []string
	enum := &pipeline.Enumerator{
		Sources: pipeline.Sources{UserSnippetsDir: f.user, ExtensionRoots: []string{f.ext}},
		Scanner: &pipeline.Scanner{Notify: func(path string, _ error) { notified = append(notified, path) }},
	}
	e := New(enum, nil)
	ctx := context.Background()

	if _, err := e.AddLanguage(ctx, "python"); err != nil {
		t.Fatalf("AddLanguage: %v", err)
	}
	body, err := e.Body("python", f.py, "name1")
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	if body != "line one\nline two" {
		t.Errorf("Body = %q", body)
	}
	if _, err := e.Body("python", f.py, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := e.Body("go", f.userGo, "name1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unenumerated language, got %v", err)
	}
	if len(e.LastErrors()) != 0 {
		t.Errorf("LastErrors() = %v", e.LastErrors())
	}

	if _, err := e.AddLanguage(ctx, "rust"); err != nil {
		t.Fatalf("AddLanguage(rust): %v", err)
	}
	errs := e.LastErrors()
	if len(errs) != 1 || errs[0].Path != bad {
		t.Fatalf("LastErrors() = %v", errs)
	}
	if !slices.Equal(notified, []string{bad}) {
		t.Errorf("caller Notify not chained, got %v", notified)
	}
	if !e.Tree().Has("rust") {
		t.Error("language bucket should exist even when every file failed")
	}
}

func TestDisplayPath(t *testing.T) {
	src := pipeline.Sources{
		UserSnippetsDir: "/home/ann/.config/Code/User/snippets",
		ExtensionRoots:  []string{"/home/ann/.vscode/extensions"},
		BuiltinRoots:    []string{"/usr/share/code/resources/app/extensions"},
	}
	tests := []struct {
		in, want string
	}{
		{"/home/ann/.config/Code/User/snippets/go.json", filepath.Join("User", "snippets", "go.json")},
		{"/home/ann/.vscode/extensions/golang.go-0.40.0/snippets/go.json", filepath.Join("golang.go-0.40.0", "snippets", "go.json")},
		{"/usr/share/code/resources/app/extensions/go/snippets/go.code-snippets", filepath.Join("extensions", "go", "snippets", "go.code-snippets")},
		{"/proj/.vscode/foo.code-snippets", "/proj/.vscode/foo.code-snippets"},
		{"/home/ann/.config/Code/User/snippets-other/go.json", "/home/ann/.config/Code/User/snippets-other/go.json"},
	}
	for _, tt := range tests {
		if got := StripPrefix(tt.in, src); got != tt.want {
			t.Errorf("StripPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	e := New(&pipeline.Enumerator{Sources: src}, nil)
	if got := e.DisplayPath(tests[0].in); got != tests[0].want {
		t.Errorf("DisplayPath = %q", got)
	}
}

func TestDisplayPathSiblingRoots(t *testing.T) {
	src := pipeline.Sources{
		UserSnippetsDir: "/r/User/snippets",
		ExtensionRoots:  []string{"/r/extensions"},
		BuiltinRoots:    []string{"/r/none"},
	}
	tests := []struct {
		in, want string
	}{
		{"/r/extensions/golang.go-0.40.0/snippets/go.json", filepath.Join("golang.go-0.40.0", "snippets", "go.json")},
		{"/r/User/snippets/go.json", filepath.Join("User", "snippets", "go.json")},
		{"/r/none/go/snippets/go.code-snippets", filepath.Join("none", "go", "snippets", "go.code-snippets")},
		{"/r/other/go.json", "/r/other/go.json"},
	}
	for _, tt := range tests {
		if got := StripPrefix(tt.in, src); got != tt.want {
			t.Errorf("StripPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name string
		s    snippet.Snippet
		want string
	}{
		{"all same", snippet.Snippet{Name: "log", Prefix: snippet.Lines{"log"}, Description: snippet.Lines{"log"}}, "log"},
		{"name differs", snippet.Snippet{Name: "Print", Prefix: snippet.Lines{"log"}}, `log  ▪︎  "Print"`},
		{"description differs", snippet.Snippet{Name: "log", Prefix: snippet.Lines{"log"}, Description: snippet.Lines{"Log to console"}},
			"log  ▪︎  (Log to console)"},
		{"both differ", snippet.Snippet{Name: "Print", Prefix: snippet.Lines{"log", "cl"}, Description: snippet.Lines{"Log", "output"}},
			`log, cl  ▪︎  "Print"  (Log output)`},
		{"description equals name", snippet.Snippet{Name: "Print", Prefix: snippet.Lines{"log"}, Description: snippet.Lines{"Print"}},
			`log  ▪︎  "Print"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SnippetLabel(tt.s); got != tt.want {
				t.Errorf("SnippetLabel() = %q, want %q", got, tt.want)
			}
		})
	}

	rec, err := snippet.NewRecord("/h/.vscode/extensions/ms-python.python-2020.7.96456/snippets/python.json",
		snippet.KindExtension, "python", []snippet.Snippet{{Name: "a"}})
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if got := FileLabel(rec.Meta); got != "ms-python.python 2020.7.96456" {
		t.Errorf("FileLabel() = %q", got)
	}
	want := "EXTENSION (provided by an extension) snippets from /h/.vscode/extensions/ms-python.python-2020.7.96456/snippets/python.json"
	if got := FileTooltip(rec.Meta); got != want {
		t.Errorf("FileTooltip() = %q", got)
	}
	if got := LanguageTooltip("go"); got != "Snippets for 'go'" {
		t.Errorf("LanguageTooltip() = %q", got)
	}
	if got := Tooltip(snippet.Snippet{Body: snippet.Lines{"a  b"}}); got != "a b" {
		t.Errorf("Tooltip() = %q", got)
	}
}

package lang

func init() {
	// Flutter plugins ship their snippets as flutter.json or under a
	// "flutter-" directory.
	Register(&LanguageSpec{ID: "dart", Related: []string{"flutter"}})
}

package lang

func init() {
	// Single file components embed markup, styles and script.
	Register(&LanguageSpec{
		ID:      "vue",
		Related: []string{"vue-html", "vue-scss", "vue-postcss", "html"},
	})
}

package lang

func init() {
	Register(&LanguageSpec{ID: "jupyter", Related: []string{"python"}})
}

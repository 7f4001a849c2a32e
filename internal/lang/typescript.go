package lang

func init() {
	Register(&LanguageSpec{ID: "typescript", Related: []string{"javascript"}})
	Register(&LanguageSpec{ID: "typescriptreact", Related: []string{"javascriptreact"}})
	Register(&LanguageSpec{ID: "ts", Related: []string{"js"}})
}

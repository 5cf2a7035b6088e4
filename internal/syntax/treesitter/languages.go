package treesitter

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	bashlang "github.com/smacker/go-tree-sitter/bash"
	clang "github.com/smacker/go-tree-sitter/c"
	cpplang "github.com/smacker/go-tree-sitter/cpp"
	golang "github.com/smacker/go-tree-sitter/golang"
	jslang "github.com/smacker/go-tree-sitter/javascript"
	python "github.com/smacker/go-tree-sitter/python"
	rust "github.com/smacker/go-tree-sitter/rust"
	toml "github.com/smacker/go-tree-sitter/toml"
	tsxlang "github.com/smacker/go-tree-sitter/typescript/tsx"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"
	yaml "github.com/smacker/go-tree-sitter/yaml"
)

var grammars = map[string]func() *sitter.Language{
	"go":         golang.GetLanguage,
	"python":     python.GetLanguage,
	"javascript": jslang.GetLanguage,
	"typescript": tslang.GetLanguage,
	"tsx":        tsxlang.GetLanguage,
	"rust":       rust.GetLanguage,
	"c":          clang.GetLanguage,
	"cpp":        cpplang.GetLanguage,
	"bash":       bashlang.GetLanguage,
	"yaml":       yaml.GetLanguage,
	"toml":       toml.GetLanguage,
}

// Lookup returns the grammar registered under name
func Lookup(name string) (*sitter.Language, bool) {
	get, ok := grammars[name]
	if !ok {
		return nil, false
	}
	return get(), true
}

// Languages returns the names of every bundled grammar, sorted
func Languages() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

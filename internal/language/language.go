// Package language picks a parser for a file.
package language

import (
	"fmt"
	"path/filepath"
	"strings"

	"nodewalk/internal/domain"
	"nodewalk/internal/syntax"
	"nodewalk/internal/syntax/sexp"
	"nodewalk/internal/syntax/treesitter"
)

// ID names a language
type ID string

const (
	Plain      ID = "plain"
	Sexp       ID = "sexp"
	Go         ID = "go"
	Python     ID = "python"
	JavaScript ID = "javascript"
	TypeScript ID = "typescript"
	TSX        ID = "tsx"
	Rust       ID = "rust"
	C          ID = "c"
	CPP        ID = "cpp"
	Bash       ID = "bash"
	YAML       ID = "yaml"
	TOML       ID = "toml"
)

var extLangMap = map[string]ID{
	".go":   Go,
	".py":   Python,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".ts":   TypeScript,
	".tsx":  TSX,
	".rs":   Rust,
	".c":    C,
	".h":    C,
	".cpp":  CPP,
	".cc":   CPP,
	".cxx":  CPP,
	".hpp":  CPP,
	".sh":   Bash,
	".bash": Bash,
	".zsh":  Bash,
	".yaml": YAML,
	".yml":  YAML,
	".toml": TOML,

	".el":    Sexp,
	".lisp":  Sexp,
	".lsp":   Sexp,
	".cl":    Sexp,
	".scm":   Sexp,
	".ss":    Sexp,
	".rkt":   Sexp,
	".clj":   Sexp,
	".cljs":  Sexp,
	".edn":   Sexp,
	".fnl":   Sexp,
	".sexp":  Sexp,
	".janet": Sexp,
}

var fileLangMap = map[string]ID{
	"go.mod":     Go,
	".bashrc":    Bash,
	".zshrc":     Bash,
	"Cargo.toml": TOML,
	".emacs":     Sexp,
}

// Detect guesses the language of path, falling back to the shebang line
func Detect(path string, firstLine string) ID {
	base := filepath.Base(path)
	if lang, ok := fileLangMap[base]; ok {
		return lang
	}
	ext := strings.ToLower(filepath.Ext(base))
	if lang, ok := extLangMap[ext]; ok {
		return lang
	}

	if !strings.HasPrefix(firstLine, "#!") {
		return Plain
	}
	lower := strings.ToLower(firstLine)
	switch {
	case strings.Contains(lower, "python"):
		return Python
	case strings.Contains(lower, "node"):
		return JavaScript
	case strings.Contains(lower, "bash"), strings.Contains(lower, "/sh"), strings.Contains(lower, "zsh"):
		return Bash
	case strings.Contains(lower, "guile"), strings.Contains(lower, "racket"), strings.Contains(lower, "sbcl"):
		return Sexp
	}
	return Plain
}

// Parse turns a user supplied name into an ID
func Parse(name string) (ID, error) {
	id := ID(strings.TrimSpace(strings.ToLower(name)))
	switch id {
	case "":
		return Plain, nil
	case Plain, Sexp:
		return id, nil
	case "lisp", "scheme", "clojure", "elisp":
		return Sexp, nil
	case "golang":
		return Go, nil
	}
	if _, ok := treesitter.Lookup(string(id)); ok {
		return id, nil
	}
	return "", fmt.Errorf("language %q: %w", name, domain.ErrUnsupportedLanguage)
}

// NewParser returns a parser for id. Plain text gets the s-expression
// parser, which still yields words and bracketed groups as nodes.
func NewParser(id ID) (syntax.Parser, error) {
	switch id {
	case Plain, Sexp, "":
		return sexp.NewParser(sexp.Options{}), nil
	}
	return treesitter.NewParser(string(id))
}

// Supported lists every language id NewParser accepts
func Supported() []ID {
	ids := []ID{Plain, Sexp}
	for _, name := range treesitter.Languages() {
		ids = append(ids, ID(name))
	}
	return ids
}

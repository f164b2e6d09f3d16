package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// JavaGrammar is the tree-sitter Java grammar.
type JavaGrammar struct{}

func (JavaGrammar) Name() string { return "java" }

func (JavaGrammar) Language() *sitter.Language {
	return java.GetLanguage()
}

func (JavaGrammar) Extensions() []string {
	return []string{".java"}
}

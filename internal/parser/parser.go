package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"

	"jrewrite/internal/syntax"
)

// Grammar describes a tree-sitter grammar the parser can drive.
type Grammar interface {
	Name() string
	Language() *sitter.Language
	Extensions() []string
}

// Parser turns source text into lossless syntax units. A Parser holds no mutable
// state and may be shared; every call creates its own tree-sitter parser.
type Parser struct {
	grammar Grammar
}

// NewParser creates a parser for a given language.
func NewParser(lang string) (*Parser, error) {
	var g Grammar
	switch lang {
	case "java":
		g = JavaGrammar{}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Parser{grammar: g}, nil
}

// Grammar returns the grammar the parser uses.
func (p *Parser) Grammar() Grammar {
	return p.grammar
}

// Handles reports whether path has one of the grammar's file extensions.
func (p *Parser) Handles(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range p.grammar.Extensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// ParseFile reads and parses a single source file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*syntax.Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.Parse(ctx, path, src)
}

// Parse builds a unit from src. Malformed regions do not fail the parse; they
// become opaque error nodes listed in Unit.Errors.
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*syntax.Unit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.grammar.Language())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}

	c := &converter{src: src}
	root := tree.RootNode()
	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	start, end := int(root.StartByte()), int(root.EndByte())
	if start > len(src) {
		start = len(src)
	}
	if end < start {
		end = start
	}
	node := c.convert(cursor)
	node.Leading = string(src[:start])

	return &syntax.Unit{
		Path:   path,
		Source: src,
		Root:   node,
		EOF:    string(src[end:]),
		Errors: c.errors,
	}, nil
}

package crawler

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"jrewrite/internal/parser"
	"jrewrite/internal/recipe"
)

// Crawler scans a directory for source files.
type Crawler struct {
	parser  *parser.Parser
	ignored []string
}

// NewCrawler creates a new crawler instance. Directories named in exclude are
// skipped in addition to the usual build and VCS directories.
func NewCrawler(p *parser.Parser, exclude ...string) *Crawler {
	return &Crawler{
		parser:  p,
		ignored: append([]string{".git", "build", "target", "out", "node_modules", ".gradle", ".idea"}, exclude...),
	}
}

// ScanProject walks the root directory and streams every source file the
// parser handles to onSource. Paths are relative to root.
func (c *Crawler) ScanProject(root string, onSource func(recipe.Source)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			if path == root {
				return nil
			}
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !c.parser.Handles(path) {
			return nil
		}

		text, err := os.ReadFile(path)
		if err != nil {
			// Skip unreadable files instead of failing the whole scan
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		onSource(recipe.Source{Path: filepath.ToSlash(rel), Text: text})
		return nil
	})
}

// Collect returns every source file under root sorted by path.
func (c *Crawler) Collect(root string) ([]recipe.Source, error) {
	var out []recipe.Source
	if err := c.ScanProject(root, func(s recipe.Source) { out = append(out, s) }); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

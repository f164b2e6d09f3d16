package recipes_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"jrewrite/internal/recipe"
	"jrewrite/internal/recipe/recipetest"
	"jrewrite/internal/recipes"
)

// TestGolden runs every testdata/*.txt archive. The archive comment names the
// recipe on its first line, followed by key=value options. Each X.java file is
// an input; after/X.java holds the expected output, and a missing one means
// the input must come back unchanged.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	require.NoError(t, err)
	require.NotEmpty(t, files, "no test cases")

	reg := recipes.Default()
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txt"), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(string(ar.Comment)), "\n")
			opts, err := recipe.ParseOptions(lines[1:])
			require.NoError(t, err)
			rec, err := reg.New(strings.TrimSpace(lines[0]), opts)
			require.NoError(t, err)

			after := make(map[string]string)
			for _, f := range ar.Files {
				if name, ok := strings.CutPrefix(f.Name, "after/"); ok {
					after[name] = string(f.Data)
				}
			}
			var units []recipetest.Unit
			for _, f := range ar.Files {
				if strings.HasPrefix(f.Name, "after/") {
					continue
				}
				units = append(units, recipetest.Unit{Path: f.Name, Before: string(f.Data), After: after[f.Name]})
			}
			require.NotEmpty(t, units)
			recipetest.RunUnits(t, rec, units)
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	var names []string
	for _, d := range recipes.Default().List() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"ChainStringBuilderAppendCalls",
		"Cleanup",
		"CombineSemanticallyEqualCatchBlocks",
		"RemoveEmptyStatements",
		"RemoveRedundantThisQualifier",
		"RemoveUnusedLocalVariables",
		"SimplifyEmptyIfThen",
	}, names)

	_, err := recipes.Default().New("RemoveEmptyStatements", recipe.NewOptions(map[string]string{"allowEmptyLoopBody": "maybe"}))
	assert.ErrorContains(t, err, "allowEmptyLoopBody")
}

func TestCleanupPasses(t *testing.T) {
	var passes []string
	for _, p := range recipes.Cleanup().Passes() {
		passes = append(passes, p.Name)
	}
	assert.Equal(t, []string{"RemoveEmptyStatements", "RemoveUnusedLocalVariables", "SimplifyEmptyIfThen"}, passes)
}

func TestSingleRecipes(t *testing.T) {
	recipetest.Run(t, recipes.RemoveUnusedLocalVariables(),
		"class A {\n    void f() {\n        int x = 1;\n        x = 2;\n        x = 3;\n    }\n}\n",
		"class A {\n    void f() {\n    }\n}\n")

	recipetest.Run(t, recipes.RemoveUnusedLocalVariables(),
		"class A {\n    int f() {\n        int x = 1;\n        x += 2;\n        return 0;\n    }\n}\n",
		"")

	recipetest.Run(t, recipes.SimplifyEmptyIfThen(),
		"class A {\n    void f(double d) {\n        if (d < 1.0) {\n        } else {\n            d++;\n        }\n    }\n}\n",
		"")
}

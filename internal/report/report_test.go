package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrewrite/internal/pipeline"
	"jrewrite/internal/recipe"
)

func sample() *pipeline.Report {
	return &pipeline.Report{
		Recipe:      "RemoveEmptyStatements",
		Fingerprint: "RemoveEmptyStatements",
		Duration:    1500 * time.Millisecond,
		Units: []pipeline.UnitResult{
			{
				Path: "A.java", Changed: true, Edits: 1,
				Before: "class A {\n    ;\n}\n", After: "class A {\n}\n",
				Passes: []recipe.PassRecord{{Name: "RemoveEmptyStatements", State: recipe.PassCompleted, Edits: 1}},
			},
			{Path: "B.java", Before: "class B {}\n", After: "class B {}\n", Cached: true},
			{Path: "C.java", Err: errors.New("boom"), Error: "boom"},
		},
	}
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Options{Format: FormatText}))
	assert.Equal(t, "changed A.java (1 edits)\n"+
		"FAIL C.java: boom\n"+
		"RemoveEmptyStatements: 3 units, 1 changed, 1 cached, 1 failed, 1 edits in 1.5s\n", buf.String())
}

func TestWrite_TextDiffs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Options{Format: FormatText, Diffs: true}))
	assert.Contains(t, buf.String(), "diff a/A.java b/A.java\n")
	assert.Contains(t, buf.String(), "-    ;\n")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Options{Format: FormatJSON, Diffs: true}))

	var doc struct {
		Recipe     string           `json:"recipe"`
		DurationMS int64            `json:"durationMs"`
		Summary    pipeline.Summary `json:"summary"`
		Units      []struct {
			Path   string `json:"path"`
			Error  string `json:"error"`
			Diff   string `json:"diff"`
			Passes []struct {
				Name  string `json:"name"`
				State string `json:"state"`
			} `json:"passes"`
		} `json:"units"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "RemoveEmptyStatements", doc.Recipe)
	assert.Equal(t, int64(1500), doc.DurationMS)
	assert.Equal(t, pipeline.Summary{Units: 3, Changed: 1, Cached: 1, Failed: 1, Edits: 1}, doc.Summary)
	require.Len(t, doc.Units, 3)
	assert.Contains(t, doc.Units[0].Diff, "-    ;\n")
	assert.Equal(t, "completed", doc.Units[0].Passes[0].State)
	assert.Empty(t, doc.Units[1].Diff)
	assert.Equal(t, "boom", doc.Units[2].Error)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnified(t *testing.T) {
	old := "class A {\n    void f() {\n        int x = 1;\n    }\n}\n"
	new := "class A {\n    void f() {\n    }\n}\n"

	got, err := Unified("A.java", old, new)
	require.NoError(t, err)
	assert.Equal(t, "diff a/A.java b/A.java\n"+
		"--- a/A.java\n"+
		"+++ b/A.java\n"+
		"@@ -1,5 +1,4 @@\n"+
		" class A {\n"+
		"     void f() {\n"+
		"-        int x = 1;\n"+
		"     }\n"+
		" }\n", got)
}

func TestUnified_Identical(t *testing.T) {
	got, err := Unified("A.java", "class A {}\n", "class A {}\n")
	require.NoError(t, err)
	assert.Empty(t, got)
}

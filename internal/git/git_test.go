package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/src/app/Main.java b/src/app/Main.java
index 3b18e51..a9c4f2e 100644
--- a/src/app/Main.java
+++ b/src/app/Main.java
@@ -3,0 +4,2 @@ class Main {
+    int x;
+    int y;
@@ -10 +12 @@ class Main {
-        run();
+        start();
@@ -20,3 +22,0 @@ class Main {
diff --git a/src/app/Old.java b/src/app/Old.java
deleted file mode 100644
index 1111111..0000000
--- a/src/app/Old.java
+++ /dev/null
@@ -1,3 +0,0 @@
-class Old {
-}
-
`

func TestParseDiff(t *testing.T) {
	files, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "src/app/Main.java", files[0].Path)
	assert.Equal(t, []int{4, 5, 12}, files[0].ChangedLines)
	assert.False(t, files[0].Deleted)

	assert.Equal(t, "src/app/Old.java", files[1].Path)
	assert.True(t, files[1].Deleted)
	assert.Empty(t, files[1].ChangedLines)
}

func TestParseDiff_Empty(t *testing.T) {
	files, err := parseDiff(nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

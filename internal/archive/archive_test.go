package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "src.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return zipPath
}

func TestExtract(t *testing.T) {
	zipPath := buildZip(t, map[string]string{
		"app.py":      "print('hi')\n",
		"lib/util.py": "pass\n",
	})
	dest := filepath.Join(t.TempDir(), "extracted")

	n, err := Extract(zipPath, dest)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := os.ReadFile(filepath.Join(dest, "lib", "util.py"))
	require.NoError(t, err)
	assert.Equal(t, "pass\n", string(raw))
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	zipPath := buildZip(t, map[string]string{
		"../evil.txt": "escaped\n",
	})
	dest := filepath.Join(t.TempDir(), "extracted")

	_, err := Extract(zipPath, dest)
	require.ErrorIs(t, err, ErrUnsafePath)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractInvalidArchive(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "not-a-zip.zip")
	require.NoError(t, os.WriteFile(bad, []byte("plain text"), 0644))

	_, err := Extract(bad, t.TempDir())
	assert.Error(t, err)
}

func TestPackRoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "TABLE_OF_CONTENTS.md"), []byte("# TOC\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "docs", "app_doc.md"), []byte("# Docs\n"), 0644))

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, PackToFile(src, zipPath))

	dest := filepath.Join(t.TempDir(), "roundtrip")
	n, err := Extract(zipPath, dest)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := os.ReadFile(filepath.Join(dest, "docs", "app_doc.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Docs\n", string(raw))
}

package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")

	require.NoError(t, Write(path, doc{Name: "a", Count: 2}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"a\",\n  \"count\": 2\n}", string(raw))

	var got doc
	require.NoError(t, Read(path, &got))
	assert.Equal(t, doc{Name: "a", Count: 2}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestRead_Missing(t *testing.T) {
	var got doc
	assert.ErrorIs(t, Read(filepath.Join(t.TempDir(), "none.json"), &got), ErrNotExist)
}

func TestRead_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var got doc
	err := Read(path, &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotExist)
}

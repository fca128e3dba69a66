package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	entry := &Entry{ID: "ab12cd34", Type: TypeImage}

	assert.False(t, store.Has(entry, "objects.json"))
	_, err = store.Read(entry, "objects.json")
	assert.Error(t, err)

	require.NoError(t, store.Write(entry, "objects.json", []byte(`{"objects":[]}`)))
	assert.True(t, store.Has(entry, "objects.json"))

	body, err := store.Read(entry, "objects.json")
	require.NoError(t, err)
	assert.Equal(t, `{"objects":[]}`, string(body))
}

func TestFileStoreShardsByIDPrefix(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	entry := &Entry{ID: "ab12cd34", Type: TypeImage}
	require.NoError(t, store.Write(entry, "preview-400.jpg", []byte("jpeg")))

	want := filepath.Join(root, "ab", "ab12cd34", "preview-400.jpg")
	_, err = os.Stat(want)
	assert.NoError(t, err, "artifacts shard under the first two id characters")
}

func TestFileStoreOverwritesExistingArtifact(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	entry := &Entry{ID: "ff00aa11", Type: TypeImage}
	require.NoError(t, store.Write(entry, "faces.json", []byte("old")))
	require.NoError(t, store.Write(entry, "faces.json", []byte("new")))

	body, err := store.Read(entry, "faces.json")
	require.NoError(t, err)
	assert.Equal(t, "new", string(body))

	// No temp files may survive the rename.
	dirEntries, err := os.ReadDir(filepath.Join(store.Root(), "ff", "ff00aa11"))
	require.NoError(t, err)
	assert.Len(t, dirEntries, 1)
}

func TestNewFileStoreRequiresRoot(t *testing.T) {
	t.Parallel()

	_, err := NewFileStore("  ")
	assert.Error(t, err)
}

func TestParseEntryType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TypeImage, ParseEntryType("image"))
	assert.Equal(t, TypeRawImage, ParseEntryType("rawImage"))
	assert.Equal(t, TypeVideo, ParseEntryType("video"))
	assert.Equal(t, TypeOther, ParseEntryType("document"))
	assert.Equal(t, TypeOther, ParseEntryType(""))
}

func TestReadEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entries.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "a1", "type": "image"},
		{"id": "b2", "type": "rawImage"},
		{"id": "c3", "type": "pdf"}
	]`), 0o644))

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, &Entry{ID: "a1", Type: TypeImage}, entries[0])
	assert.Equal(t, &Entry{ID: "b2", Type: TypeRawImage}, entries[1])
	assert.Equal(t, &Entry{ID: "c3", Type: TypeOther}, entries[2])
}

func TestReadEntriesRejectsMissingID(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entries.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type": "image"}]`), 0o644))

	_, err := ReadEntries(path)
	assert.Error(t, err)
}

package importer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poezjaapp/poezja-server/internal/service"
	"github.com/poezjaapp/poezja-server/internal/store"
	"github.com/poezjaapp/poezja-server/internal/store/sqlite"
	"github.com/poezjaapp/poezja-server/internal/timeutil"
)

func newTestImporter(t *testing.T) (*Importer, *sqlite.Store, string) {
	t.Helper()

	base := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(filepath.Join(base, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	poems := service.NewPoemService(st, logger, timeutil.NewConverter())

	dir := filepath.Join(base, "import")
	im, err := New(dir, poems, logger)
	require.NoError(t, err)

	return im, st, dir
}

func dropFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew_CreatesSubdirs(t *testing.T) {
	_, _, dir := newTestImporter(t)

	for _, sub := range []string{doneDir, failedDir} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestProcess_ValidPoem(t *testing.T) {
	im, st, dir := newTestImporter(t)
	ctx := context.Background()

	path := dropFile(t, dir, "wiersz.json", `{"title":"Zima","body":"śnieg","tags":"pory roku"}`)
	im.process(ctx, path)

	poems, err := st.ListPoems(ctx, store.PoemListOptions{})
	require.NoError(t, err)
	require.Len(t, poems, 1)
	assert.Equal(t, "Zima", poems[0].Title)

	// The file moved to imported/.
	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(dir, doneDir, "wiersz.json"))
}

func TestProcess_InvalidJSON(t *testing.T) {
	im, st, dir := newTestImporter(t)
	ctx := context.Background()

	path := dropFile(t, dir, "broken.json", `{not json`)
	im.process(ctx, path)

	poems, err := st.ListPoems(ctx, store.PoemListOptions{})
	require.NoError(t, err)
	assert.Empty(t, poems)
	assert.FileExists(t, filepath.Join(dir, failedDir, "broken.json"))
}

func TestProcess_MissingTitle(t *testing.T) {
	im, _, dir := newTestImporter(t)

	path := dropFile(t, dir, "untitled.json", `{"body":"b"}`)
	im.process(context.Background(), path)

	assert.FileExists(t, filepath.Join(dir, failedDir, "untitled.json"))
}

func TestProcess_SkipsNonJSON(t *testing.T) {
	im, _, dir := newTestImporter(t)

	path := dropFile(t, dir, "notes.txt", "x")
	im.process(context.Background(), path)

	// Left in place, not archived.
	assert.FileExists(t, path)
}

func TestArchive_NameClash(t *testing.T) {
	im, _, dir := newTestImporter(t)
	ctx := context.Background()

	first := dropFile(t, dir, "dup.json", `{"title":"A","body":"b"}`)
	im.process(ctx, first)
	second := dropFile(t, dir, "dup.json", `{"title":"B","body":"b"}`)
	im.process(ctx, second)

	assert.FileExists(t, filepath.Join(dir, doneDir, "dup.json"))
	assert.FileExists(t, filepath.Join(dir, doneDir, "dup.1.json"))
}

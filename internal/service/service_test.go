package service

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poezjaapp/poezja-server/internal/store/sqlite"
	"github.com/poezjaapp/poezja-server/internal/timeutil"
)

// fixedClock pins the converter to a known instant.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// testNow is a summer instant: Europe/Warsaw is UTC+2.
var testNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testConverter() *timeutil.Converter {
	return timeutil.NewConverterWithClock(fixedClock{t: testNow})
}

func newTestPoemService(t *testing.T) *PoemService {
	t.Helper()
	return NewPoemService(newTestStore(t), testLogger(), testConverter())
}

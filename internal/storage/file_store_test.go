package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendMissingFile(t *testing.T) {
	fb := NewFileBackend(filepath.Join(t.TempDir(), "nope.json"))
	records, err := fb.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileBackendInvalidContent(t *testing.T) {
	cases := map[string]string{
		"object":    `{"url": "https://x.example"}`,
		"truncated": `[{"url": "https://x.exa`,
		"binary":    "\x00\x01\x02",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "history.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := NewFileBackend(path).Load(context.Background())
			assert.Error(t, err)

			h := NewHistory(NewFileBackend(path), time.Hour)
			h.Load(context.Background())
			assert.Equal(t, 0, h.Len())
		})
	}
}

func TestFileBackendBlankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	records, err := NewFileBackend(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	fb := NewFileBackend(path)
	want := []Record{
		{URL: "https://x.example/1", TitleNorm: "one", SentAt: "2025-06-01T12:00:00+09:00"},
		{URL: "https://x.example/2", TitleNorm: "두번째", SentAt: "2025-06-01T12:00:01+09:00"},
	}

	require.NoError(t, fb.Save(context.Background(), want))
	got, err := fb.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"title_norm"`)
	assert.Contains(t, string(raw), `"sent_at"`)
}

func TestFileBackendOverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	fb := NewFileBackend(path)

	require.NoError(t, fb.Save(context.Background(), []Record{{URL: "a", TitleNorm: "a", SentAt: "2025-06-01T00:00:00Z"}}))
	require.NoError(t, fb.Save(context.Background(), nil))

	got, err := fb.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "history.json", entries[0].Name())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

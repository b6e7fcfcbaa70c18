package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMerge(t *testing.T) {
	s := Default().Merge(Patch{Theme: ptr("dark"), AutoSearch: ptr(false)})
	assert.Equal(t, Settings{
		Theme:        "dark",
		FontSize:     "medium",
		AutoAnalyze:  false,
		VoiceEnabled: true,
		AutoSearch:   false,
	}, s)

	assert.Equal(t, s, s.Merge(Patch{}), "empty patch changes nothing")
}

func TestParseAssignments(t *testing.T) {
	p, err := ParseAssignments([]string{"theme=dark", "fontSize=large", "voiceEnabled=false", "AUTOANALYZE=1"})
	require.NoError(t, err)
	got := Default().Merge(p)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "large", got.FontSize)
	assert.False(t, got.VoiceEnabled)
	assert.True(t, got.AutoAnalyze)
	assert.Nil(t, p.AutoSearch)

	for _, bad := range []string{"theme", "theme=neon", "fontSize=huge", "autoSearch=maybe", "colour=red"} {
		_, err := ParseAssignments([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "pagechat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	stores := map[string]Store{
		"memory": NewMemory(Default()),
		"sqlite": sqlite,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			got, err := store.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, Default(), got)

			merged, err := store.Merge(ctx, Patch{VoiceEnabled: ptr(false)})
			require.NoError(t, err)
			assert.False(t, merged.VoiceEnabled)

			merged, err = store.Merge(ctx, Patch{Theme: ptr("dark")})
			require.NoError(t, err)
			assert.False(t, merged.VoiceEnabled, "earlier merge is kept")
			assert.Equal(t, "dark", merged.Theme)

			got, err = store.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, merged, got)
		})
	}
}

func TestSQLitePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pagechat.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = s.Merge(ctx, Patch{AutoSearch: ptr(false)})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.False(t, got.AutoSearch)
	assert.True(t, got.VoiceEnabled)
}

func TestSQLiteMissingFieldsKeepDefaults(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "pagechat.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, settingsKey, `{"theme":"dark"}`)
	require.NoError(t, err)

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.True(t, got.VoiceEnabled)
	assert.True(t, got.AutoSearch)
}

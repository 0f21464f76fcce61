package assetstore_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/terse/assetstore"
	"github.com/hupe1980/terse/dna"
	ifs "github.com/hupe1980/terse/internal/fs"
	"github.com/hupe1980/terse/testutil"
)

func stores(t *testing.T) map[string]assetstore.Store {
	return map[string]assetstore.Store{
		"Memory":      assetstore.NewMemory(),
		"Local":       assetstore.NewLocal(t.TempDir()),
		"RateLimited": assetstore.RateLimited(assetstore.NewMemory(), 1<<20),
	}
}

func TestStore_Lifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing.dna")
			assert.True(t, errors.Is(err, assetstore.ErrNotFound))
			assert.True(t, errors.Is(err, os.ErrNotExist))

			require.NoError(t, store.Put(ctx, "rigs/b.dna", []byte("bravo")))
			require.NoError(t, store.Put(ctx, "rigs/a.dna", []byte("alpha")))
			require.NoError(t, store.Put(ctx, "other.json", []byte("{}")))

			data, err := store.Get(ctx, "rigs/a.dna")
			require.NoError(t, err)
			assert.Equal(t, "alpha", string(data))

			// Overwrite.
			require.NoError(t, store.Put(ctx, "rigs/a.dna", []byte("alpha2")))
			data, err = store.Get(ctx, "rigs/a.dna")
			require.NoError(t, err)
			assert.Equal(t, "alpha2", string(data))

			names, err := store.List(ctx, "rigs/")
			require.NoError(t, err)
			assert.Equal(t, []string{"rigs/a.dna", "rigs/b.dna"}, names)

			all, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"other.json", "rigs/a.dna", "rigs/b.dna"}, all)

			require.NoError(t, store.Delete(ctx, "rigs/a.dna"))
			require.NoError(t, store.Delete(ctx, "rigs/a.dna"))
			_, err = store.Get(ctx, "rigs/a.dna")
			assert.True(t, errors.Is(err, assetstore.ErrNotFound))
		})
	}
}

func TestStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := assetstore.NewMemory()
	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	got[1] = 'z'

	again, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestStore_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Put(ctx, "x", []byte("x")), context.Canceled)
		})
	}
}

func TestLocal(t *testing.T) {
	ctx := context.Background()

	t.Run("Layout", func(t *testing.T) {
		root := t.TempDir()
		store := assetstore.NewLocal(root)
		require.NoError(t, store.Put(ctx, "a/b/c.dna", []byte("abc")))

		data, err := os.ReadFile(filepath.Join(root, "a", "b", "c.dna"))
		require.NoError(t, err)
		assert.Equal(t, "abc", string(data))
	})

	t.Run("EmptyAsset", func(t *testing.T) {
		store := assetstore.NewLocal(t.TempDir())
		require.NoError(t, store.Put(ctx, "empty", nil))
		data, err := store.Get(ctx, "empty")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("MissingRoot", func(t *testing.T) {
		store := assetstore.NewLocal(filepath.Join(t.TempDir(), "nope"))
		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("InvalidName", func(t *testing.T) {
		store := assetstore.NewLocal(t.TempDir())
		for _, name := range []string{"", "../escape", "/abs"} {
			assert.Error(t, store.Put(ctx, name, []byte("x")), name)
		}
	})

	t.Run("FailedRenameKeepsOldContent", func(t *testing.T) {
		root := t.TempDir()
		fsys := ifs.NewFaultyFS(ifs.LocalFS{})
		store := assetstore.NewLocalFS(root, fsys)
		require.NoError(t, store.Put(ctx, "rig.dna", []byte("old")))

		fsys.AddRule("rig.dna", ifs.Fault{FailAfterBytes: -1, FailOnRename: true})
		err := store.Put(ctx, "rig.dna", []byte("new"))
		assert.ErrorIs(t, err, ifs.ErrInjected)

		data, err := store.Get(ctx, "rig.dna")
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"rig.dna"}, names)

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestRateLimited(t *testing.T) {
	ctx := context.Background()
	store := assetstore.RateLimited(assetstore.NewMemory(), 1000)
	// The first second of traffic is covered by the burst.
	require.NoError(t, store.Put(ctx, "a", make([]byte, 1000)))

	start := time.Now()
	require.NoError(t, store.Put(ctx, "b", make([]byte, 100)))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	t.Run("Deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		err := store.Put(ctx, "c", make([]byte, 5000))
		assert.Error(t, err)
		_, err = store.Get(context.Background(), "c")
		assert.True(t, errors.Is(err, assetstore.ErrNotFound))
	})
}

func TestDNA(t *testing.T) {
	ctx := context.Background()
	want := testutil.SampleDNA()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, assetstore.SaveDNA(ctx, store, "rigs/a.dna", want, dna.Binary))
			require.NoError(t, assetstore.SaveDNA(ctx, store, "rigs/b.json.zst", want, dna.JSON))

			got, err := assetstore.LoadDNA(ctx, store, "rigs/b.json.zst")
			require.NoError(t, err)
			assert.Equal(t, testutil.JSON(want), testutil.JSON(got))

			docs, err := assetstore.LoadAllDNA(ctx, store, "rigs/", 2)
			require.NoError(t, err)
			require.Len(t, docs, 2)
			for _, d := range docs {
				assert.Equal(t, testutil.JSON(want), testutil.JSON(d))
			}

			_, err = assetstore.LoadDNA(ctx, store, "rigs/none.dna")
			assert.True(t, errors.Is(err, assetstore.ErrNotFound))
		})
	}

	t.Run("Corrupt", func(t *testing.T) {
		store := assetstore.NewMemory()
		require.NoError(t, store.Put(ctx, "bad.dna", []byte("DNA\x00")))
		_, err := assetstore.LoadDNA(ctx, store, "bad.dna")
		assert.True(t, errors.Is(err, dna.ErrMalformed), "got %v", err)

		_, err = assetstore.LoadAllDNA(ctx, store, "", 0)
		assert.Error(t, err)
	})
}

func BenchmarkMemoryPut(b *testing.B) {
	ctx := context.Background()
	store := assetstore.NewMemory()
	data := make([]byte, 64<<10)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		if err := store.Put(ctx, fmt.Sprintf("a%d", i%16), data); err != nil {
			b.Fatal(err)
		}
	}
}

package modcache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1homsi/unusedjs/internal/model"
)

func TestGetParsesOnce(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	var calls int
	var mu sync.Mutex
	c := New(func(fileID string, content []byte) ([]model.Specifier, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return []model.Specifier{{Raw: "./b", Referrer: fileID}}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := c.Get(file)
			require.NoError(t, err)
			require.Equal(t, model.Done, entry.State)
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), c.ParseCount())
	require.Equal(t, 1, calls)
}

func TestGetRecordsFailedOnParseError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.ts")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	c := New(func(fileID string, content []byte) ([]model.Specifier, error) {
		return nil, assertErr
	})

	entry, err := c.Get(file)
	require.NoError(t, err)
	require.Equal(t, model.Failed, entry.State)
	require.Error(t, entry.Err)
}

func TestGetRecordsFailedOnReadError(t *testing.T) {
	c := New(func(fileID string, content []byte) ([]model.Specifier, error) {
		t.Fatal("parse should not be called for an unreadable file")
		return nil, nil
	})

	entry, err := c.Get(filepath.Join(t.TempDir(), "missing.ts"))
	require.NoError(t, err)
	require.Equal(t, model.Failed, entry.State)
	require.Error(t, entry.Err)
}

var assertErr = &parseFailure{"boom"}

type parseFailure struct{ msg string }

func (e *parseFailure) Error() string { return e.msg }

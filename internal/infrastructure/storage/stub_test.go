package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewStubObjectStorage()

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "catalog/ci-1/0.jpg", []byte("jpeg bytes"), "image/jpeg"))
		data, ok := s.Get("catalog/ci-1/0.jpg")
		require.True(t, ok)
		assert.Equal(t, []byte("jpeg bytes"), data)
	})

	t.Run("put rejects empty key", func(t *testing.T) {
		assert.Error(t, s.Put(ctx, "", []byte("x"), "image/jpeg"))
	})

	t.Run("stored data is copied", func(t *testing.T) {
		src := []byte("original")
		require.NoError(t, s.Put(ctx, "k", src, "image/jpeg"))
		src[0] = 'X'
		data, _ := s.Get("k")
		assert.Equal(t, []byte("original"), data)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "gone", []byte("x"), "image/jpeg"))
		require.NoError(t, s.Delete(ctx, "gone"))
		_, ok := s.Get("gone")
		assert.False(t, ok)
	})

	t.Run("delete rejects empty key", func(t *testing.T) {
		assert.Error(t, s.Delete(ctx, ""))
	})

	t.Run("url", func(t *testing.T) {
		assert.Equal(t, "https://storage.example.com/catalog/a.jpg", s.URL("catalog/a.jpg"))
	})
}

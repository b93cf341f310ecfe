package weatherfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetServer_CreateAndRelease(t *testing.T) {
	server := NewAssetServer()

	texels := make([]uint8, 4*2*2)
	id := server.CreateTexture(texels, 2, 2, TextureFormatRGBA8Unorm)
	require.NotEmpty(t, id)

	tex, ok := server.Texture(id)
	require.True(t, ok)
	w, h := tex.Size()
	assert.Equal(t, uint32(2), w)
	assert.Equal(t, uint32(2), h)
	assert.Equal(t, TextureFormatRGBA8Unorm, tex.Format())
	assert.Len(t, tex.Texels(), 16)
	assert.Equal(t, 1, server.LiveTextures())

	assert.True(t, server.ReleaseTexture(id))
	assert.False(t, server.ReleaseTexture(id), "second release reports false")
	assert.Equal(t, 0, server.LiveTextures())
}

func TestAssetServer_SizeMismatchPanics(t *testing.T) {
	server := NewAssetServer()
	assert.Panics(t, func() {
		server.CreateTexture(make([]uint8, 3), 2, 2, TextureFormatRGBA8Unorm)
	})
	assert.NotPanics(t, func() {
		server.CreateTexture(make([]uint8, 4), 2, 2, TextureFormatR8Uint)
	})
}

func TestAssetServer_UniqueIds(t *testing.T) {
	server := NewAssetServer()
	seen := make(map[AssetId]bool)
	for i := 0; i < 50; i++ {
		id := server.CreateTexture(make([]uint8, 1), 1, 1, TextureFormatR8Uint)
		if seen[id] {
			t.Fatalf("duplicate asset id %s", id)
		}
		seen[id] = true
	}
}

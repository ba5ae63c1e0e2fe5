package assets

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

const triangleObj = "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 0\nvt 0 1\nf 1/1 2/2 3/3\n"

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	model := filepath.Join(dir, "triangle.obj")
	require.NoError(t, os.WriteFile(model, []byte(triangleObj), 0o644))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	texture := filepath.Join(dir, "texture.png")
	require.NoError(t, os.WriteFile(texture, buf.Bytes(), 0o644))

	return model, texture
}

func TestDetermineAssetType(t *testing.T) {
	tests := map[string]metadata.ResourceType{
		"shaders/vert.spv":   metadata.ResourceTypeShader,
		"a/b/room.OBJ":       metadata.ResourceTypeMesh,
		"scene.glb":          metadata.ResourceTypeMesh,
		"scene.gltf":         metadata.ResourceTypeMesh,
		"tex.png":            metadata.ResourceTypeTexture,
		"tex.jpeg":           metadata.ResourceTypeTexture,
		"tex.webp":           metadata.ResourceTypeTexture,
		"notes.txt":          metadata.ResourceTypeNone,
		"no_extension_at_al": metadata.ResourceTypeNone,
	}
	for path, want := range tests {
		assert.Equal(t, want, determineAssetType(path), path)
	}
}

func TestLoadModel(t *testing.T) {
	model, texture := writeFixtures(t)
	am := NewAssetManager()
	defer am.Close()

	mesh, tex, err := am.LoadModel(context.Background(), model, texture)
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.Equal(t, 4, tex.Width)
	assert.Len(t, tex.Pixels, 4*4*4)

	info, ok := am.Info(model)
	require.True(t, ok)
	assert.Equal(t, metadata.ResourceTypeMesh, info.Type)
	assert.False(t, info.LastLoaded.IsZero())
}

func TestLoadModelFailsWhenEitherFails(t *testing.T) {
	model, texture := writeFixtures(t)
	am := NewAssetManager()

	mesh, tex, err := am.LoadModel(context.Background(), model, filepath.Join(filepath.Dir(texture), "missing.png"))
	assert.Error(t, err)
	assert.Nil(t, mesh)
	assert.Nil(t, tex)

	_, _, err = am.LoadModel(context.Background(), texture, texture)
	assert.ErrorIs(t, err, core.ErrUnsupportedAsset)
}

func TestLoadModelCancelled(t *testing.T) {
	model, texture := writeFixtures(t)
	am := NewAssetManager()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mesh, tex, err := am.LoadModel(ctx, model, texture)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, mesh)
	assert.Nil(t, tex)

	_, ok := am.Info(model)
	assert.False(t, ok)
}

func TestLoadUnsupported(t *testing.T) {
	am := NewAssetManager()
	_, err := am.Load("readme.md")
	assert.ErrorIs(t, err, core.ErrUnsupportedAsset)

	_, err = am.LoadShader("triangle.obj")
	assert.Error(t, err)
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "vert.spv")
	other := filepath.Join(dir, "other.spv")
	require.NoError(t, os.WriteFile(watched, make([]byte, 4), 0o644))

	am := NewAssetManager()
	defer am.Close()
	require.NoError(t, am.Watch(watched))

	require.NoError(t, os.WriteFile(other, make([]byte, 4), 0o644))
	require.NoError(t, os.WriteFile(watched, make([]byte, 8), 0o644))

	select {
	case name := <-am.Changes():
		assert.Equal(t, watched, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestWatchAfterClose(t *testing.T) {
	am := NewAssetManager()
	require.NoError(t, am.Close())
	assert.Error(t, am.Watch("vert.spv"))
	assert.NoError(t, am.Close())
}

func TestWatchAndCloseConcurrently(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "frag.spv")
	require.NoError(t, os.WriteFile(watched, make([]byte, 4), 0o644))

	am := NewAssetManager()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			// Either outcome is fine; a watch racing with Close may fail.
			_ = am.Watch(watched)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, am.Close())
		}()
	}
	wg.Wait()

	assert.Error(t, am.Watch(watched))
}

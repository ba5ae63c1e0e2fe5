package assets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/spaghettifunk/meshview/engine/assets/loaders"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	watched  map[string]struct{}
	isClosed bool
	changes  chan string
}

func NewAssetManager() *AssetManager {
	am := &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		watched: make(map[string]struct{}),
		changes: make(chan string, 1),
		done:    make(chan struct{}),
	}

	am.registerLoader(metadata.ResourceTypeMesh, &loaders.MeshLoader{})
	am.registerLoader(metadata.ResourceTypeTexture, &loaders.TextureLoader{})
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})

	return am
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Load an asset using the loader registered for its extension
func (am *AssetManager) Load(path string) (*metadata.Resource, error) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedAsset, path)
	}

	loader, exists := am.loaders[assetType]
	if !exists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", assetType)
	}

	start := time.Now()
	res, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()

	core.LogInfo("loaded %s %s (%d bytes) in %s", assetType, path, res.DataSize, time.Since(start))
	return res, nil
}

func (am *AssetManager) LoadMesh(path string) (*metadata.MeshData, error) {
	res, err := am.Load(path)
	if err != nil {
		return nil, err
	}
	mesh, ok := res.Data.(*metadata.MeshData)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a mesh", core.ErrUnsupportedAsset, path)
	}
	return mesh, nil
}

func (am *AssetManager) LoadTexture(path string) (*metadata.TextureData, error) {
	res, err := am.Load(path)
	if err != nil {
		return nil, err
	}
	tex, ok := res.Data.(*metadata.TextureData)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a texture", core.ErrUnsupportedAsset, path)
	}
	return tex, nil
}

func (am *AssetManager) LoadShader(path string) ([]uint32, error) {
	res, err := am.Load(path)
	if err != nil {
		return nil, err
	}
	code, ok := res.Data.([]uint32)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a shader", core.ErrUnsupportedAsset, path)
	}
	return code, nil
}

// LoadModel decodes the mesh and its texture concurrently and returns
// once both are done. Nothing is returned unless both succeed. A
// cancelled ctx, or a failure of the other load, stops a load before it
// starts and discards its result once it finishes.
func (am *AssetManager) LoadModel(ctx context.Context, meshPath, texturePath string) (*metadata.MeshData, *metadata.TextureData, error) {
	var (
		mesh *metadata.MeshData
		tex  *metadata.TextureData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		m, err := am.LoadMesh(meshPath)
		if err != nil {
			return err
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		mesh = m
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		t, err := am.LoadTexture(texturePath)
		if err != nil {
			return err
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		tex = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return mesh, tex, nil
}

// Info reports when path was last loaded.
func (am *AssetManager) Info(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[path]
	return info, ok
}

// Watch starts reporting writes to the given files on Changes. The
// parent directories are watched so editors that replace files on save
// are still seen.
func (am *AssetManager) Watch(paths ...string) error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return errors.New("asset manager already closed")
	}

	if am.fsnotify == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			am.mutex.Unlock()
			return err
		}
		am.fsnotify = w
		go am.start(w)
	}
	watcher := am.fsnotify

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			am.mutex.Unlock()
			return err
		}
		am.watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	am.mutex.Unlock()

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		core.LogDebug("watching %s for asset changes", dir)
	}
	return nil
}

// Changes delivers the path of a watched file after it was written.
// Bursts of writes collapse into a single pending notification.
func (am *AssetManager) Changes() <-chan string {
	return am.changes
}

func (am *AssetManager) Close() error {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	if am.fsnotify == nil {
		return nil
	}
	close(am.done)
	return nil
}

func (am *AssetManager) start(watcher *fsnotify.Watcher) {
	for {
		select {
		case e, ok := <-watcher.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !am.isWatched(e.Name) {
				continue
			}
			select {
			case am.changes <- e.Name:
			default:
			}

		case e, ok := <-watcher.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-am.done:
			watcher.Close()
			return
		}
	}
}

func (am *AssetManager) isWatched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	_, ok := am.watched[abs]
	return ok
}

func determineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".spv":
		return metadata.ResourceTypeShader
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeTexture
	case ".obj", ".gltf", ".glb":
		return metadata.ResourceTypeMesh
	default:
		return metadata.ResourceTypeNone
	}
}

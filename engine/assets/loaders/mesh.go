package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type MeshLoader struct{}

func (ml *MeshLoader) Load(path string) (*metadata.Resource, error) {
	var (
		mesh *metadata.MeshData
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		mesh, err = LoadObj(path)
	case ".gltf", ".glb":
		mesh, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedAsset, path)
	}
	if err != nil {
		return nil, err
	}

	core.LogDebug("mesh %s: %d vertices, %d indices", path, len(mesh.Vertices), len(mesh.Indices))

	return &metadata.Resource{
		Name:     path,
		FullPath: path,
		Type:     metadata.ResourceTypeMesh,
		DataSize: uint64(len(mesh.VertexBytes()) + len(mesh.IndexBytes())),
		Data:     mesh,
	}, nil
}

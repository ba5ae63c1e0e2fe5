package loaders

import (
	"fmt"
	"os"

	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type ShaderLoader struct{}

// Load reads a whole SPIR-V module and hands it back as []uint32.
func (sl *ShaderLoader) Load(path string) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	code, err := bytesToBytecode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &metadata.Resource{
		Name:     path,
		FullPath: path,
		Type:     metadata.ResourceTypeShader,
		DataSize: uint64(len(data)),
		Data:     code,
	}, nil
}

package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spaghettifunk/facet/engine/renderer/metadata"
	"github.com/spaghettifunk/facet/engine/shaders"
)

// ShaderLoader reads a WGSL file and only hands it out when it validates.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	source := string(data)
	if err := shaders.Validate(source); err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     resourceName(path),
		FullPath: path,
		Type:     metadata.ResourceTypeShader,
		DataSize: uint64(len(data)),
		Data:     source,
		LoadedAt: time.Now(),
	}, nil
}

func (sl *ShaderLoader) Unload(*metadata.Resource) error {
	return nil
}

func resourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package loaders

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/spaghettifunk/facet/engine/renderer/metadata"
)

// BinaryLoader reads precompiled SPIR-V modules written by the build script.
type BinaryLoader struct{}

func (bl *BinaryLoader) Load(path string) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	words, err := spirvWords(data)
	if err != nil {
		return nil, fmt.Errorf("BinaryLoader - %s: %w", path, err)
	}
	return &metadata.Resource{
		Name:     resourceName(path),
		FullPath: path,
		Type:     metadata.ResourceTypeShaderBinary,
		DataSize: uint64(len(data)),
		Data:     words,
		LoadedAt: time.Now(),
	}, nil
}

func (bl *BinaryLoader) Unload(*metadata.Resource) error {
	return nil
}

// spirvWords splits a little endian module into words and checks the magic number.
func spirvWords(data []byte) ([]uint32, error) {
	if len(data) < 4 || len(data)%4 != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of SPIR-V words", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	if words[0] != metadata.SPIRVMagic {
		return nil, fmt.Errorf("magic 0x%08x, expected 0x%08x", words[0], metadata.SPIRVMagic)
	}
	return words, nil
}

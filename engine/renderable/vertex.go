package renderable

import (
	"encoding/binary"
	"hash/fnv"
	m "math"
)

// VertexSize is the stride of an encoded Vertex in bytes.
const VertexSize = 24

// Byte offsets of the vertex attributes, matching @location(0) and @location(1).
const (
	PositionOffset = 0
	ColorOffset    = 12
)

// Vertex is a position and an RGB color, both three float32.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
}

// EncodeVertices packs vertices into the little-endian layout the vertex
// buffer expects.
func EncodeVertices(vertices []Vertex) []byte {
	out := make([]byte, 0, len(vertices)*VertexSize)
	for _, v := range vertices {
		for _, f := range v.Position {
			out = binary.LittleEndian.AppendUint32(out, m.Float32bits(f))
		}
		for _, f := range v.Color {
			out = binary.LittleEndian.AppendUint32(out, m.Float32bits(f))
		}
	}
	return out
}

// HashVertexData returns the 64-bit FNV-1a hash of encoded vertex bytes.
func HashVertexData(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

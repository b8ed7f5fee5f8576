package renderer

import (
	"fmt"
	"time"

	"github.com/gogpu/wgpu"
)

/** @brief Cached vertex buffers unused for this long are released by Cleanup. */
const vertexCacheMaxAge = 30 * time.Second

// Releaser is anything holding GPU memory.
type Releaser interface {
	Release()
}

// BufferFactory uploads vertex bytes into a new GPU buffer.
type BufferFactory[B Releaser] func(label string, data []byte) (B, error)

type cachedVertexBuffer[B Releaser] struct {
	buffer      B
	size        int
	vertexCount uint32
	lastUsed    time.Time
}

type CacheStats struct {
	Entries  int
	Vertices uint32
}

/**
 * @brief Keeps one vertex buffer per distinct vertex payload, keyed by the
 * 64-bit FNV-1a hash of its bytes, so identical meshes share a buffer and
 * unchanged meshes are not uploaded again every frame.
 */
type VertexBufferCache[B Releaser] struct {
	entries map[uint64]*cachedVertexBuffer[B]
	create  BufferFactory[B]
	maxAge  time.Duration
	now     func() time.Time
}

func NewVertexBufferCache[B Releaser](create BufferFactory[B]) *VertexBufferCache[B] {
	return &VertexBufferCache[B]{
		entries: make(map[uint64]*cachedVertexBuffer[B]),
		create:  create,
		maxAge:  vertexCacheMaxAge,
		now:     time.Now,
	}
}

/**
 * @brief Returns the buffer for the given payload, creating it on first use.
 * @param hash The FNV-1a hash of data.
 * @param data The encoded vertices.
 * @param vertexCount The number of vertices in data.
 */
func (c *VertexBufferCache[B]) Get(hash uint64, data []byte, vertexCount uint32) (B, error) {
	now := c.now()
	if e, ok := c.entries[hash]; ok && e.size == len(data) {
		e.lastUsed = now
		return e.buffer, nil
	} else if ok {
		// Same hash, different payload size: the old buffer can't be reused.
		e.buffer.Release()
		delete(c.entries, hash)
	}

	buffer, err := c.create(fmt.Sprintf("vertices-%016x", hash), data)
	if err != nil {
		var zero B
		return zero, err
	}
	c.entries[hash] = &cachedVertexBuffer[B]{
		buffer:      buffer,
		size:        len(data),
		vertexCount: vertexCount,
		lastUsed:    now,
	}
	return buffer, nil
}

// Cleanup releases entries not used within the max age and returns how many were dropped.
func (c *VertexBufferCache[B]) Cleanup() int {
	now := c.now()
	dropped := 0
	for hash, e := range c.entries {
		if now.Sub(e.lastUsed) >= c.maxAge {
			e.buffer.Release()
			delete(c.entries, hash)
			dropped++
		}
	}
	return dropped
}

func (c *VertexBufferCache[B]) Stats() CacheStats {
	stats := CacheStats{Entries: len(c.entries)}
	for _, e := range c.entries {
		stats.Vertices += e.vertexCount
	}
	return stats
}

func (c *VertexBufferCache[B]) Clear() {
	for hash, e := range c.entries {
		e.buffer.Release()
		delete(c.entries, hash)
	}
}

// wgpuVertexBuffers returns a factory creating vertex buffers on device and filling them through queue.
func wgpuVertexBuffers(device *wgpu.Device, queue *wgpu.Queue, prefix string) BufferFactory[*wgpu.Buffer] {
	return func(label string, data []byte) (*wgpu.Buffer, error) {
		buffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: prefix + "-" + label,
			Size:  alignUp(uint64(len(data)), 4),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("vertex buffer %s: %w", label, err)
		}
		if err := queue.WriteBuffer(buffer, 0, data); err != nil {
			buffer.Release()
			return nil, fmt.Errorf("vertex buffer %s upload: %w", label, err)
		}
		return buffer, nil
	}
}

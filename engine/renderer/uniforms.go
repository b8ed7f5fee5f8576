package renderer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/spaghettifunk/facet/engine/core"
	"github.com/spaghettifunk/facet/engine/math"
)

const (
	/** @brief Bytes of one mvp matrix as seen by the shader. */
	uniformBindingSize uint64 = math.Mat4Size
	/** @brief Slots allocated before the first frame. */
	initialUniformSlots uint32 = 64
)

func alignUp(v, alignment uint64) uint64 {
	if alignment <= 1 {
		return v
	}
	return (v + alignment - 1) / alignment * alignment
}

func nextPowerOfTwo(v uint32) uint32 {
	if v <= 1 {
		return 1
	}
	p := uint32(1)
	for p < v {
		p <<= 1
	}
	return p
}

// uniformSlots tracks slot usage inside the dynamic uniform buffer for the current frame.
type uniformSlots struct {
	stride   uint64
	capacity uint32
	used     uint32
}

func newUniformSlots(offsetAlignment uint32, capacity uint32) uniformSlots {
	return uniformSlots{
		stride:   alignUp(uniformBindingSize, uint64(offsetAlignment)),
		capacity: capacity,
	}
}

// reserve claims n slots and reports the capacity the buffer must grow to, if any.
func (s *uniformSlots) reserve(n uint32) (first uint32, grow bool, newCapacity uint32) {
	first = s.used
	s.used += n
	if s.used > s.capacity {
		return first, true, nextPowerOfTwo(s.used)
	}
	return first, false, s.capacity
}

func (s uniformSlots) offset(slot uint32) uint32 {
	return uint32(uint64(slot) * s.stride)
}

func (s uniformSlots) size() uint64 {
	return uint64(s.capacity) * s.stride
}

/**
 * @brief One uniform buffer holding an mvp matrix per object. Each object is
 * drawn with the same bind group and its own dynamic offset. Slots are
 * reclaimed every frame with ResetFrame.
 */
type DynamicUniformBuffer struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	label  string

	slots   uniformSlots
	staging []byte

	buffer          *wgpu.Buffer
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup
}

func NewDynamicUniformBuffer(device *wgpu.Device, queue *wgpu.Queue, label string) (*DynamicUniformBuffer, error) {
	u := &DynamicUniformBuffer{
		device: device,
		queue:  queue,
		label:  label,
		slots:  newUniformSlots(device.Limits().MinUniformBufferOffsetAlignment, initialUniformSlots),
	}

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label + "-uniform-layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   uniformBindingSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("NewDynamicUniformBuffer - bind group layout: %w", err)
	}
	u.bindGroupLayout = layout

	if err := u.allocate(); err != nil {
		u.Release()
		return nil, err
	}
	return u, nil
}

// allocate (re)creates the buffer and the bind group for the current capacity.
func (u *DynamicUniformBuffer) allocate() error {
	buffer, err := u.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: u.label + "-uniforms",
		Size:  u.slots.size(),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("DynamicUniformBuffer - create buffer: %w", err)
	}
	group, err := u.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  u.label + "-uniform-group",
		Layout: u.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buffer, Offset: 0, Size: uniformBindingSize},
		},
	})
	if err != nil {
		buffer.Release()
		return fmt.Errorf("DynamicUniformBuffer - create bind group: %w", err)
	}

	u.releaseBuffer()
	u.buffer = buffer
	u.bindGroup = group
	return nil
}

func (u *DynamicUniformBuffer) BindGroupLayout() *wgpu.BindGroupLayout {
	return u.bindGroupLayout
}

func (u *DynamicUniformBuffer) BindGroup() *wgpu.BindGroup {
	return u.bindGroup
}

func (u *DynamicUniformBuffer) Capacity() uint32 {
	return u.slots.capacity
}

// Stride is the distance in bytes between two slots.
func (u *DynamicUniformBuffer) Stride() uint64 {
	return u.slots.stride
}

func (u *DynamicUniformBuffer) ResetFrame() {
	u.slots.used = 0
	u.staging = u.staging[:0]
}

/**
 * @brief Writes one matrix per slot and returns the dynamic offset of each.
 * When the frame needs more slots than the buffer holds, the buffer grows to
 * the next power of two and everything written this frame is uploaded again.
 */
func (u *DynamicUniformBuffer) Upload(matrices []math.Mat4) ([]uint32, error) {
	if len(matrices) == 0 {
		return nil, nil
	}
	first, grow, newCapacity := u.slots.reserve(uint32(len(matrices)))

	start := len(u.staging)
	for _, m := range matrices {
		slot := m.AppendBytes(u.staging)
		for uint64(len(slot)-start)%u.slots.stride != 0 {
			slot = append(slot, 0)
		}
		u.staging = slot
	}

	writeFrom := uint64(start)
	if grow {
		core.LogWarn("uniform buffer %s full at %d slots, growing to %d", u.label, u.slots.capacity, newCapacity)
		u.slots.capacity = newCapacity
		if err := u.allocate(); err != nil {
			return nil, err
		}
		writeFrom = 0
	}
	if err := u.queue.WriteBuffer(u.buffer, writeFrom, u.staging[writeFrom:]); err != nil {
		return nil, fmt.Errorf("DynamicUniformBuffer - write: %w", err)
	}

	offsets := make([]uint32, len(matrices))
	for i := range matrices {
		offsets[i] = u.slots.offset(first + uint32(i))
	}
	return offsets, nil
}

func (u *DynamicUniformBuffer) releaseBuffer() {
	if u.bindGroup != nil {
		u.bindGroup.Release()
		u.bindGroup = nil
	}
	if u.buffer != nil {
		u.buffer.Release()
		u.buffer = nil
	}
}

func (u *DynamicUniformBuffer) Release() {
	u.releaseBuffer()
	if u.bindGroupLayout != nil {
		u.bindGroupLayout.Release()
		u.bindGroupLayout = nil
	}
}

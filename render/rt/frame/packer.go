package frame

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxRenderables is the per-frame draw item capacity.
	MaxRenderables = 512
	// MaxBones is the bone matrix capacity of a slot.
	MaxBones = 128
	// UniformAlign is the dynamic offset alignment of the object buffer.
	UniformAlign = 256
)

// Slot layout in floats.
const (
	slotWorld  = 0
	slotNormal = 16
	slotColor  = 32
	slotParams = 36 // layer, bone count, unlit, unused
	slotBones  = 40

	slotUsedFloats = slotBones + MaxBones*16
)

const (
	// SlotStride is the byte distance between two slots.
	SlotStride = (slotUsedFloats*4 + UniformAlign - 1) / UniformAlign * UniformAlign
	// SlotFloats is SlotStride in floats.
	SlotFloats = SlotStride / 4
	// SlotBindingSize is the byte range a shader sees through one dynamic offset.
	SlotBindingSize = slotUsedFloats * 4
	// BufferSize is the byte size of the object uniform buffer.
	BufferSize = SlotStride * MaxRenderables
)

// SlotOffset is the dynamic offset of slot i.
func SlotOffset(i int) uint32 {
	return uint32(i * SlotStride)
}

// Packer stages per-object data for one frame. Slot i belongs to draw item i
// of the collected list; render order never changes it.
type Packer struct {
	data  []float32
	bytes []byte
	used  int
}

func NewPacker() *Packer {
	return &Packer{
		data:  make([]float32, MaxRenderables*SlotFloats),
		bytes: make([]byte, BufferSize),
	}
}

// Pack zero-fills and writes one slot per draw item, up to MaxRenderables.
// It returns the number of slots written.
func (p *Packer) Pack(draws []core.DrawItem) int {
	n := len(draws)
	if n > MaxRenderables {
		n = MaxRenderables
	}
	for i := 0; i < n; i++ {
		p.packSlot(i, &draws[i])
	}
	p.used = n
	return n
}

func (p *Packer) packSlot(i int, d *core.DrawItem) {
	s := p.Slot(i)
	clear(s)

	copy(s[slotWorld:slotWorld+16], d.World[:])
	normal := core.NormalMatrix(d.World)
	copy(s[slotNormal:slotNormal+16], normal[:])

	color := mgl32.Vec4{1, 1, 1, 1}
	var unlit float32
	if d.Material != nil {
		color = d.Material.Color
		if d.Material.Unlit {
			unlit = 1
		}
	}
	copy(s[slotColor:slotColor+4], color[:])

	var bones []mgl32.Mat4
	if d.Kind == core.KindSkinned && d.Skeleton != nil {
		bones = d.Skeleton.Bones
		if len(bones) > MaxBones {
			bones = bones[:MaxBones]
		}
	}
	s[slotParams+0] = float32(d.Layer())
	s[slotParams+1] = float32(len(bones))
	s[slotParams+2] = unlit

	for b, m := range bones {
		base := slotBones + b*16
		copy(s[base:base+16], m[:])
	}
}

// Slot returns the floats of slot i.
func (p *Packer) Slot(i int) []float32 {
	return p.data[i*SlotFloats : (i+1)*SlotFloats]
}

func (p *Packer) Used() int {
	return p.used
}

// Bytes returns the used prefix of the staging array, little endian, ready
// for a single buffer write.
func (p *Packer) Bytes() []byte {
	n := p.used * SlotFloats
	out := p.bytes[:n*4]
	for i, f := range p.data[:n] {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// World reads back the world matrix of slot i.
func (p *Packer) World(i int) mgl32.Mat4 {
	var m mgl32.Mat4
	copy(m[:], p.Slot(i)[slotWorld:slotWorld+16])
	return m
}

// Normal reads back the normal matrix of slot i.
func (p *Packer) Normal(i int) mgl32.Mat4 {
	var m mgl32.Mat4
	copy(m[:], p.Slot(i)[slotNormal:slotNormal+16])
	return m
}

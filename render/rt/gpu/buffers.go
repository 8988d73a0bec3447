package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/scenery/render/rt/core"
)

// instanceHeadroom leaves room for instance growth without a rebuild.
const instanceHeadroom = 64 * instanceStride

// GeometryBuffers are the GPU buffers of one geometry. Missing normal,
// color and skin attributes are filled with defaults so every pipeline can
// bind the buffers it declares.
type GeometryBuffers struct {
	Position *wgpu.Buffer
	Normal   *wgpu.Buffer
	Color    *wgpu.Buffer
	Joints   *wgpu.Buffer
	Weights  *wgpu.Buffer
	Instance *wgpu.Buffer
	Index    *wgpu.Buffer

	VertexCount   uint32
	IndexCount    uint32
	InstanceCount uint32
}

func (b *GeometryBuffers) slot(s vertexSlot) *wgpu.Buffer {
	switch s {
	case slotPosition:
		return b.Position
	case slotNormal:
		return b.Normal
	case slotColor:
		return b.Color
	case slotJoints:
		return b.Joints
	case slotWeights:
		return b.Weights
	case slotInstance:
		return b.Instance
	}
	return nil
}

// BufferBuilder creates GeometryBuffers for the resource cache.
type BufferBuilder struct {
	Device *wgpu.Device
}

func (bb *BufferBuilder) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int) error {
	neededSize := uint64(len(data) + headroom)
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}
		newBuf, err := bb.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  neededSize,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s buffer: %w", name, err)
		}
		*buf = newBuf
	}
	if len(data) > 0 {
		return bb.Device.GetQueue().WriteBuffer(*buf, 0, data)
	}
	return nil
}

func (bb *BufferBuilder) Build(g *core.Geometry, needIndex bool) (*GeometryBuffers, error) {
	n := g.VertexCount()
	res := &GeometryBuffers{VertexCount: uint32(n)}

	attrs := []struct {
		name     string
		buf      **wgpu.Buffer
		data     []float32
		width    int
		fallback []float32
	}{
		{core.AttrPosition, &res.Position, g.Attributes[core.AttrPosition], 3, nil},
		{core.AttrNormal, &res.Normal, g.Attributes[core.AttrNormal], 3, []float32{0, 0, 1}},
		{core.AttrColor, &res.Color, g.Attributes[core.AttrColor], 4, []float32{1, 1, 1, 1}},
		{core.AttrSkinIndex, &res.Joints, g.Attributes[core.AttrSkinIndex], 4, []float32{0, 0, 0, 0}},
		{core.AttrSkinWeight, &res.Weights, g.Attributes[core.AttrSkinWeight], 4, []float32{1, 0, 0, 0}},
	}
	for _, a := range attrs {
		data := a.data
		if len(data) < n*a.width {
			data = fill(n, a.fallback)
		}
		label := g.Label + " " + a.name
		if err := bb.ensureBuffer(label, a.buf, wgpu.ToBytes(data[:n*a.width]), wgpu.BufferUsageVertex, 0); err != nil {
			bb.Release(res)
			return nil, err
		}
	}

	if needIndex {
		res.IndexCount = uint32(len(g.Indices))
		if err := bb.ensureBuffer(g.Label+" index", &res.Index, wgpu.ToBytes(g.Indices), wgpu.BufferUsageIndex, 0); err != nil {
			bb.Release(res)
			return nil, err
		}
	}

	// A single identity instance keeps the instanced layouts valid for
	// geometry that has none.
	inst := g.InstanceData()
	if len(inst) == 0 {
		inst = []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 1, 1, 1, 1}
	}
	res.InstanceCount = uint32(len(inst) / core.InstanceStride)
	if err := bb.ensureBuffer(g.Label+" instance", &res.Instance, wgpu.ToBytes(inst), wgpu.BufferUsageVertex, instanceHeadroom); err != nil {
		bb.Release(res)
		return nil, err
	}
	return res, nil
}

// UpdateInstances rewrites the instance buffer in place when it fits.
func (bb *BufferBuilder) UpdateInstances(res *GeometryBuffers, g *core.Geometry) bool {
	data := wgpu.ToBytes(g.InstanceData())
	if res.Instance == nil || len(data) == 0 || uint64(len(data)) > res.Instance.GetSize() {
		return false
	}
	if err := bb.Device.GetQueue().WriteBuffer(res.Instance, 0, data); err != nil {
		return false
	}
	res.InstanceCount = uint32(g.InstanceCount())
	return true
}

func (bb *BufferBuilder) Release(res *GeometryBuffers) {
	for _, b := range []**wgpu.Buffer{&res.Position, &res.Normal, &res.Color, &res.Joints, &res.Weights, &res.Instance, &res.Index} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}

// fill repeats value n times.
func fill(n int, value []float32) []float32 {
	out := make([]float32, 0, n*len(value))
	for i := 0; i < n; i++ {
		out = append(out, value...)
	}
	return out
}

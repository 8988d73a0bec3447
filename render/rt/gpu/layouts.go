package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/scenery/render/rt/core"
)

const (
	// SampleCount is the MSAA sample count of every render target.
	SampleCount = 4
	// DepthStencilFormat carries the text stencil next to depth.
	DepthStencilFormat = wgpu.TextureFormatDepth24PlusStencil8
	// BlurFormat is the storage format of the blur targets.
	BlurFormat = wgpu.TextureFormatRGBA8Unorm
)

// Vertex buffer strides in bytes.
const (
	positionStride = 3 * 4
	normalStride   = 3 * 4
	colorStride    = 4 * 4
	skinStride     = 4 * 4
	instanceStride = core.InstanceStride * 4
)

// Shader entry points and primitive setup of one draw kind.
type kindStage struct {
	vertex   string
	fragment string
	topology wgpu.PrimitiveTopology
	cull     wgpu.CullMode
}

func stageFor(k core.DrawKind) kindStage {
	switch k {
	case core.KindSkinned:
		return kindStage{"vs_skinned", "fs_lit", wgpu.PrimitiveTopologyTriangleList, wgpu.CullModeBack}
	case core.KindInstanced:
		return kindStage{"vs_instanced", "fs_lit", wgpu.PrimitiveTopologyTriangleList, wgpu.CullModeBack}
	case core.KindLine:
		return kindStage{"vs_line", "fs_unlit", wgpu.PrimitiveTopologyLineList, wgpu.CullModeNone}
	case core.KindInstancedLine:
		return kindStage{"vs_line_instanced", "fs_unlit", wgpu.PrimitiveTopologyLineList, wgpu.CullModeNone}
	case core.KindTextStencil:
		return kindStage{"vs_text", "fs_stencil", wgpu.PrimitiveTopologyTriangleList, wgpu.CullModeNone}
	case core.KindTextCover:
		return kindStage{"vs_text", "fs_unlit", wgpu.PrimitiveTopologyTriangleList, wgpu.CullModeNone}
	}
	return kindStage{"vs_static", "fs_lit", wgpu.PrimitiveTopologyTriangleList, wgpu.CullModeBack}
}

func attr(format wgpu.VertexFormat, offset uint64, loc uint32) wgpu.VertexAttribute {
	return wgpu.VertexAttribute{Format: format, Offset: offset, ShaderLocation: loc}
}

func perVertex(stride uint64, attrs ...wgpu.VertexAttribute) wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{ArrayStride: stride, StepMode: wgpu.VertexStepModeVertex, Attributes: attrs}
}

// instanceLayout is a column-major mat4 at locations 5..8 and a tint at 9.
func instanceLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: instanceStride,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			attr(wgpu.VertexFormatFloat32x4, 0, 5),
			attr(wgpu.VertexFormatFloat32x4, 16, 6),
			attr(wgpu.VertexFormatFloat32x4, 32, 7),
			attr(wgpu.VertexFormatFloat32x4, 48, 8),
			attr(wgpu.VertexFormatFloat32x4, 64, 9),
		},
	}
}

// vertexSlot names the geometry buffer bound to a vertex buffer slot.
type vertexSlot uint8

const (
	slotPosition vertexSlot = iota
	slotNormal
	slotColor
	slotJoints
	slotWeights
	slotInstance
)

// vertexLayouts returns the buffer layouts of a kind and, in the same order,
// which geometry buffer feeds each slot.
func vertexLayouts(k core.DrawKind) ([]wgpu.VertexBufferLayout, []vertexSlot) {
	pos := perVertex(positionStride, attr(wgpu.VertexFormatFloat32x3, 0, 0))
	nrm := perVertex(normalStride, attr(wgpu.VertexFormatFloat32x3, 0, 1))
	col := perVertex(colorStride, attr(wgpu.VertexFormatFloat32x4, 0, 2))

	switch k {
	case core.KindSkinned:
		return []wgpu.VertexBufferLayout{
				pos, nrm, col,
				perVertex(skinStride, attr(wgpu.VertexFormatFloat32x4, 0, 3)),
				perVertex(skinStride, attr(wgpu.VertexFormatFloat32x4, 0, 4)),
			},
			[]vertexSlot{slotPosition, slotNormal, slotColor, slotJoints, slotWeights}
	case core.KindInstanced:
		return []wgpu.VertexBufferLayout{pos, nrm, col, instanceLayout()},
			[]vertexSlot{slotPosition, slotNormal, slotColor, slotInstance}
	case core.KindLine:
		return []wgpu.VertexBufferLayout{pos, col},
			[]vertexSlot{slotPosition, slotColor}
	case core.KindInstancedLine:
		return []wgpu.VertexBufferLayout{pos, col, instanceLayout()},
			[]vertexSlot{slotPosition, slotColor, slotInstance}
	case core.KindTextStencil, core.KindTextCover:
		return []wgpu.VertexBufferLayout{pos}, []vertexSlot{slotPosition}
	}
	return []wgpu.VertexBufferLayout{pos, nrm, col},
		[]vertexSlot{slotPosition, slotNormal, slotColor}
}

func keepFace(compare wgpu.CompareFunction, pass wgpu.StencilOperation) wgpu.StencilFaceState {
	return wgpu.StencilFaceState{
		Compare:     compare,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      pass,
	}
}

// coverFace paints where the winding is non-zero and resets the sample to
// zero whether or not it passes the depth test, so occluded samples carry
// no winding into later text.
func coverFace() wgpu.StencilFaceState {
	return wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionNotEqual,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationZero,
		PassOp:      wgpu.StencilOperationZero,
	}
}

// depthStencilState configures depth and the stencil-then-cover fill.
// The stencil pass accumulates winding with wrapping increment on front
// faces and decrement on back faces; the cover pass colors samples with a
// non-zero count and resets them to zero.
func depthStencilState(k core.DrawKind) *wgpu.DepthStencilState {
	ds := &wgpu.DepthStencilState{
		Format:            DepthStencilFormat,
		DepthWriteEnabled: true,
		DepthCompare:      wgpu.CompareFunctionLessEqual,
		StencilFront:      keepFace(wgpu.CompareFunctionAlways, wgpu.StencilOperationKeep),
		StencilBack:       keepFace(wgpu.CompareFunctionAlways, wgpu.StencilOperationKeep),
		StencilReadMask:   0xFF,
		StencilWriteMask:  0,
	}
	switch k {
	case core.KindTextStencil:
		ds.DepthWriteEnabled = false
		ds.DepthCompare = wgpu.CompareFunctionAlways
		ds.StencilFront = keepFace(wgpu.CompareFunctionAlways, wgpu.StencilOperationIncrementWrap)
		ds.StencilBack = keepFace(wgpu.CompareFunctionAlways, wgpu.StencilOperationDecrementWrap)
		ds.StencilWriteMask = 0xFF
	case core.KindTextCover:
		ds.DepthWriteEnabled = false
		ds.StencilFront = coverFace()
		ds.StencilBack = coverFace()
		ds.StencilWriteMask = 0xFF
	}
	return ds
}

func colorTarget(k core.DrawKind, format wgpu.TextureFormat) wgpu.ColorTargetState {
	if k == core.KindTextStencil {
		return wgpu.ColorTargetState{Format: format, WriteMask: wgpu.ColorWriteMaskNone}
	}
	return wgpu.ColorTargetState{
		Format:    format,
		WriteMask: wgpu.ColorWriteMaskAll,
		Blend: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
			Alpha: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
		},
	}
}

package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gekko3d/scenery/render/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestPackFrameUniform(t *testing.T) {
	vp := mgl32.Translate3D(1, 2, 3)
	b := PackFrameUniform(vp, mgl32.Vec3{4, 5, 6}, 800, 400)
	require.Len(t, b, FrameUniformSize)

	assert.Equal(t, float32(1), f32At(b, 12*4))
	assert.Equal(t, float32(5), f32At(b, 64+4))
	assert.Equal(t, float32(800), f32At(b, 80))
	assert.Equal(t, float32(400), f32At(b, 84))
	assert.InDelta(t, 1.0/800, f32At(b, 88), 1e-9)
	assert.InDelta(t, 1.0/400, f32At(b, 92), 1e-9)
}

func TestPackLights(t *testing.T) {
	sun := &core.Light{Kind: core.LightDirectional, Color: mgl32.Vec3{1, 0.5, 0}, Intensity: 2}
	lamp := &core.Light{Kind: core.LightPoint, Color: mgl32.Vec3{1, 1, 1}, Intensity: 1, Range: 10}
	b := PackLights([]core.LightItem{
		{Light: sun, World: mgl32.Ident4()},
		{Light: lamp, World: mgl32.Translate3D(0, 3, 0)},
	})
	require.Len(t, b, LightsUniformSize)

	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(b[0:]))
	first := 16
	assert.Equal(t, float32(-1), f32At(b, first+16+8), "directional light looks down -Z")
	assert.Equal(t, float32(0.5), f32At(b, first+32+4))
	assert.Equal(t, float32(core.LightDirectional), f32At(b, first+48))
	assert.Equal(t, float32(2), f32At(b, first+48+4))

	second := first + LightStride
	assert.Equal(t, float32(3), f32At(b, second+4))
	assert.Equal(t, float32(10), f32At(b, second+48+8))
}

func TestPackLights_Capped(t *testing.T) {
	l := &core.Light{Kind: core.LightAmbient, Intensity: 1}
	items := make([]core.LightItem, core.MaxLights+4)
	for i := range items {
		items[i] = core.LightItem{Light: l, World: mgl32.Ident4()}
	}
	b := PackLights(items)
	assert.Len(t, b, LightsUniformSize)
	assert.Equal(t, uint32(core.MaxLights), binary.LittleEndian.Uint32(b[0:]))
}

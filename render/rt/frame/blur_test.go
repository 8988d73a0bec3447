package frame

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBlurWeightsNormalized(t *testing.T) {
	sum := BlurWeights[0]
	for i := 1; i <= BlurRadius; i++ {
		sum += 2 * BlurWeights[i]
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestBlurSeparable_ConstantColor(t *testing.T) {
	color := mgl32.Vec4{0.2, 0.4, 0.6, 1}
	for _, size := range [][2]int{{1, 1}, {3, 2}, {17, 9}, {130, 5}} {
		w, h := size[0], size[1]
		img := make([]mgl32.Vec4, w*h)
		for i := range img {
			img[i] = color
		}
		out := BlurSeparable(img, w, h)
		for i, c := range out {
			if !c.ApproxEqualThreshold(color, 1e-5) {
				t.Fatalf("%dx%d: texel %d = %v, want %v", w, h, i, c, color)
			}
		}
	}
}

func TestBlurSeparable_SpreadsImpulse(t *testing.T) {
	w, h := 11, 11
	img := make([]mgl32.Vec4, w*h)
	img[5*w+5] = mgl32.Vec4{1, 1, 1, 1}

	out := BlurSeparable(img, w, h)
	assert.InDelta(t, BlurWeights[0]*BlurWeights[0], out[5*w+5][0], 1e-6)
	assert.InDelta(t, BlurWeights[4]*BlurWeights[0], out[5*w+9][0], 1e-6)
	assert.Zero(t, out[5*w+10][0])
}

func TestDispatchSize(t *testing.T) {
	x, y, z := DispatchSize(AxisHorizontal, 1280, 720)
	assert.Equal(t, [3]uint32{10, 720, 1}, [3]uint32{x, y, z})

	x, y, z = DispatchSize(AxisVertical, 1280, 721)
	assert.Equal(t, [3]uint32{1280, 6, 1}, [3]uint32{x, y, z})

	x, _, _ = DispatchSize(AxisHorizontal, 129, 1)
	assert.Equal(t, uint32(2), x)
}

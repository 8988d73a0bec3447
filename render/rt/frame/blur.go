package frame

import "github.com/go-gl/mathgl/mgl32"

const (
	// BlurRadius is the kernel half width and the workgroup halo in texels.
	BlurRadius = 4
	// BlurWorkgroupSize is the number of texels per workgroup along the blur axis.
	BlurWorkgroupSize = 128
)

// BlurWeights are the Gaussian taps for offsets 0..BlurRadius.
var BlurWeights = [BlurRadius + 1]float32{0.227027, 0.194595, 0.121622, 0.054054, 0.016216}

// DispatchSize returns the workgroup counts of a blur pass over a w x h image.
func DispatchSize(axis Axis, w, h uint32) (x, y, z uint32) {
	groups := func(n uint32) uint32 {
		return (n + BlurWorkgroupSize - 1) / BlurWorkgroupSize
	}
	if axis == AxisHorizontal {
		return groups(w), h, 1
	}
	return w, groups(h), 1
}

// BlurSeparable is the CPU reference of the two blur passes over an RGBA
// image stored row by row. Reads past the border clamp to the edge texel.
func BlurSeparable(img []mgl32.Vec4, w, h int) []mgl32.Vec4 {
	tmp := blurAxis(img, w, h, 1, 0)
	return blurAxis(tmp, w, h, 0, 1)
}

func blurAxis(src []mgl32.Vec4, w, h, dx, dy int) []mgl32.Vec4 {
	dst := make([]mgl32.Vec4, len(src))
	at := func(x, y int) mgl32.Vec4 {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
		return src[y*w+x]
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := at(x, y).Mul(BlurWeights[0])
			for i := 1; i <= BlurRadius; i++ {
				acc = acc.Add(at(x+i*dx, y+i*dy).Mul(BlurWeights[i]))
				acc = acc.Add(at(x-i*dx, y-i*dy).Mul(BlurWeights[i]))
			}
			dst[y*w+x] = acc
		}
	}
	return dst
}

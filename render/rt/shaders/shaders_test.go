package shaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene_RendersConstants(t *testing.T) {
	src, err := Scene(SceneParams{MaxLights: 16, MaxBones: 128})
	require.NoError(t, err)

	assert.Contains(t, src, "const MAX_LIGHTS: u32 = 16u;")
	assert.Contains(t, src, "const MAX_BONES: u32 = 128u;")
	for _, entry := range []string{"vs_static", "vs_skinned", "vs_instanced", "vs_line", "vs_line_instanced", "vs_text", "fs_lit", "fs_unlit", "fs_stencil"} {
		assert.Contains(t, src, "fn "+entry+"(")
	}
	assert.NotContains(t, src, "{{")
}

func TestScene_RejectsZeroCapacity(t *testing.T) {
	_, err := Scene(SceneParams{})
	assert.Error(t, err)
}

func TestBlur_RendersKernel(t *testing.T) {
	src, err := Blur(BlurParams{
		Radius:        4,
		WorkgroupSize: 128,
		Weights:       []float32{0.227027, 0.194595, 0.121622, 0.054054, 0.016216},
	})
	require.NoError(t, err)

	assert.Contains(t, src, "const RADIUS: i32 = 4;")
	assert.Contains(t, src, "const TILE: i32 = 136;")
	assert.Contains(t, src, "array<f32, 5>(0.227027, 0.194595, 0.121622, 0.054054, 0.016216)")
	assert.Contains(t, src, "@workgroup_size(128, 1, 1)")
	assert.Contains(t, src, "@workgroup_size(1, 128, 1)")
	assert.Equal(t, 2, strings.Count(src, "@compute"))
}

func TestBlur_WholeNumberWeightsStayFloat(t *testing.T) {
	src, err := Blur(BlurParams{Radius: 0, WorkgroupSize: 64, Weights: []float32{1}})
	require.NoError(t, err)
	assert.Contains(t, src, "array<f32, 1>(1.0)")
}

func TestBlur_KernelSizeMismatch(t *testing.T) {
	_, err := Blur(BlurParams{Radius: 4, WorkgroupSize: 128, Weights: []float32{1, 0}})
	assert.Error(t, err)
}

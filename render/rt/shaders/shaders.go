// Package shaders embeds the WGSL sources. Capacity constants and the blur
// kernel are rendered into the sources so they are defined once, in Go.
package shaders

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

//go:embed scene.wgsl
var sceneWGSL string

//go:embed blur.wgsl
var blurWGSL string

var (
	sceneTmpl = template.Must(template.New("scene").Parse(sceneWGSL))
	blurTmpl  = template.Must(template.New("blur").Parse(blurWGSL))
)

type SceneParams struct {
	MaxLights int
	MaxBones  int
}

type BlurParams struct {
	Radius        int
	WorkgroupSize int
	Weights       []float32
}

// Scene renders the scene shader with one vertex entry point per draw kind.
func Scene(p SceneParams) (string, error) {
	if p.MaxLights <= 0 || p.MaxBones <= 0 {
		return "", fmt.Errorf("invalid scene shader params %+v", p)
	}
	return render(sceneTmpl, p)
}

// Blur renders the separable blur compute shader (entry points blur_h and blur_v).
func Blur(p BlurParams) (string, error) {
	if len(p.Weights) != p.Radius+1 {
		return "", fmt.Errorf("blur kernel has %d weights, radius %d needs %d", len(p.Weights), p.Radius, p.Radius+1)
	}
	if p.WorkgroupSize <= 0 {
		return "", fmt.Errorf("invalid blur workgroup size %d", p.WorkgroupSize)
	}
	weights := make([]string, len(p.Weights))
	for i, w := range p.Weights {
		weights[i] = strconv.FormatFloat(float64(w), 'f', -1, 32)
		if !strings.ContainsAny(weights[i], ".e") {
			weights[i] += ".0"
		}
	}
	return render(blurTmpl, struct {
		BlurParams
		Taps     int
		TileSize int
		Kernel   string
	}{
		BlurParams: p,
		Taps:       len(p.Weights),
		TileSize:   p.WorkgroupSize + 2*p.Radius,
		Kernel:     strings.Join(weights, ", "),
	})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s shader: %w", t.Name(), err)
	}
	return buf.String(), nil
}

package frame

import (
	"errors"
	"fmt"

	"github.com/gekko3d/scenery/render/rt/core"
)

var (
	// ErrFrameSkipped means the frame was not encoded because a GPU resource
	// is not ready yet. The next frame retries.
	ErrFrameSkipped = errors.New("frame skipped")
	// ErrPipelineMissing means a draw kind has no pipeline.
	ErrPipelineMissing = errors.New("pipeline missing")
)

type Pass uint8

const (
	PassOpaque Pass = iota
	PassBlurH
	PassBlurV
	PassComposite
	PassSubmit
)

func (p Pass) String() string {
	switch p {
	case PassOpaque:
		return "opaque"
	case PassBlurH:
		return "blur-h"
	case PassBlurV:
		return "blur-v"
	case PassComposite:
		return "composite"
	case PassSubmit:
		return "submit"
	}
	return "unknown"
}

type Axis uint8

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// Encoder records one frame. Passes are called in order on a single
// command encoder; nothing reaches the GPU before Submit.
type Encoder interface {
	// Ready reports whether every pipeline and target exists.
	Ready() bool
	// Begin uploads per-frame data and opens the command encoder.
	Begin(p *Plan) error
	OpaquePass(p *Plan) error
	BlurPass(axis Axis) error
	CompositePass(p *Plan) error
	Submit() error
	// Discard drops a partially recorded frame.
	Discard()
}

// Run sequences OPAQUE, BLUR (only with glass items), COMPOSITE and SUBMIT.
// It returns the passes that were recorded. A frame that fails before
// SUBMIT is discarded whole.
func Run(enc Encoder, p *Plan) (passes []Pass, err error) {
	if !enc.Ready() {
		return nil, ErrFrameSkipped
	}
	if err := enc.Begin(p); err != nil {
		enc.Discard()
		return nil, err
	}
	defer func() {
		if err != nil {
			enc.Discard()
		}
	}()

	if err := enc.OpaquePass(p); err != nil {
		return passes, fmt.Errorf("%s pass: %w", PassOpaque, err)
	}
	passes = append(passes, PassOpaque)

	if p.NeedsBlur() {
		if err := enc.BlurPass(AxisHorizontal); err != nil {
			return passes, fmt.Errorf("%s pass: %w", PassBlurH, err)
		}
		passes = append(passes, PassBlurH)
		if err := enc.BlurPass(AxisVertical); err != nil {
			return passes, fmt.Errorf("%s pass: %w", PassBlurV, err)
		}
		passes = append(passes, PassBlurV)
	}

	if err := enc.CompositePass(p); err != nil {
		return passes, fmt.Errorf("%s pass: %w", PassComposite, err)
	}
	passes = append(passes, PassComposite)

	if err := enc.Submit(); err != nil {
		return passes, fmt.Errorf("%s: %w", PassSubmit, err)
	}
	passes = append(passes, PassSubmit)
	return passes, nil
}

// Drawer issues draw calls inside an open render pass.
type Drawer interface {
	BindPipeline(kind core.DrawKind) error
	Draw(item *core.DrawItem, dynamicOffset uint32) error
}

// Replay draws the items of order, binding a pipeline only when the kind
// changes. Each item reads the slot of its index in draws. It returns the
// number of pipeline binds.
func Replay(d Drawer, draws []core.DrawItem, order []int) (int, error) {
	binds := 0
	bound := core.NumDrawKinds
	for _, i := range order {
		item := &draws[i]
		if item.Kind != bound {
			if err := d.BindPipeline(item.Kind); err != nil {
				return binds, err
			}
			bound = item.Kind
			binds++
		}
		if err := d.Draw(item, SlotOffset(i)); err != nil {
			return binds, err
		}
	}
	return binds, nil
}

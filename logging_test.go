package scenery

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_RoutesByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, "scenery", false)

	l.Debugf("hidden %d", 1)
	l.Infof("surface %dx%d", 4, 3)
	l.Warnf("careful")
	l.Errorf("broken")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[scenery] INFO: surface 4x3")
	assert.Contains(t, errOut.String(), "[scenery] WARN: careful")
	assert.Contains(t, errOut.String(), "[scenery] ERROR: broken")
	assert.NotContains(t, out.String(), "careful")
}

func TestDefaultLogger_WithSharesDebug(t *testing.T) {
	var out bytes.Buffer
	root := NewLoggerTo(&out, &out, "scenery", false)
	child := root.With("app")

	root.SetDebug(true)
	assert.True(t, child.DebugEnabled())
	child.Debugf("frame")
	assert.Contains(t, out.String(), "[scenery/app] DEBUG: frame")
}

func TestSkipReporter(t *testing.T) {
	var out, errOut bytes.Buffer
	s := NewSkipReporter(NewLoggerTo(&out, &errOut, "", true))

	notReady := errors.New("pipelines not ready")
	s.Skipped(notReady)
	s.Skipped(notReady)
	s.Skipped(notReady)
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 1, strings.Count(errOut.String(), "WARN"), "one warning per run of the same reason")
	assert.Equal(t, 2, strings.Count(out.String(), "skipped again"))

	s.Rendered()
	assert.Zero(t, s.Count())
	assert.Contains(t, out.String(), "resumed after 3 skipped")

	s.Skipped(notReady)
	assert.Equal(t, 2, strings.Count(errOut.String(), "WARN"), "a new run warns again")
}

func TestSkipReporter_NilLogger(t *testing.T) {
	s := NewSkipReporter(nil)
	s.Skipped(errors.New("x"))
	s.Rendered()
	assert.Zero(t, s.Count())
}

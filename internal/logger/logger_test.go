package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew_Level(t *testing.T) {
	lg := New("json", "debug")
	assert.True(t, lg.Desugar().Core().Enabled(zapcore.DebugLevel))

	lg = New("text", "bogus")
	assert.False(t, lg.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, lg.Desugar().Core().Enabled(zapcore.InfoLevel))
}

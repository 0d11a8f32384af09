package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/chatops/internal/config"
)

func TestSampledCore_ErrorsNeverSampled(t *testing.T) {
	base, observed := observer.New(zapcore.DebugLevel)
	core := newSampledCore(base, SamplingConfig{
		Enabled:    true,
		Tick:       config.Duration(time.Minute),
		Initial:    2,
		Thereafter: 0,
	})
	logger := zap.New(core)

	for i := 0; i < 10; i++ {
		logger.Info("repeated info")
		logger.Error("repeated error")
	}

	assert.Equal(t, 2, observed.FilterMessage("repeated info").Len())
	assert.Equal(t, 10, observed.FilterMessage("repeated error").Len())
}

func TestSampledCore_Disabled(t *testing.T) {
	base, _ := observer.New(zapcore.DebugLevel)
	assert.Same(t, base, newSampledCore(base, SamplingConfig{Enabled: false}))
}

func TestLevelFilterCore(t *testing.T) {
	base, _ := observer.New(TraceLevel)
	c := &levelFilterCore{Core: base, min: zapcore.InfoLevel, max: zapcore.WarnLevel}

	assert.False(t, c.Enabled(zapcore.DebugLevel))
	assert.True(t, c.Enabled(zapcore.InfoLevel))
	assert.True(t, c.Enabled(zapcore.WarnLevel))
	assert.False(t, c.Enabled(zapcore.ErrorLevel))

	child, ok := c.With([]zapcore.Field{zap.String("k", "v")}).(*levelFilterCore)
	assert.True(t, ok)
	assert.Equal(t, zapcore.InfoLevel, child.min)
}

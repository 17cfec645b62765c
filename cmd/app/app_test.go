package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TFMV/forcegraph/config"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.Logging{Level: "warn"}, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	logger, err = NewLogger(config.Logging{Level: "error"}, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	_, err = NewLogger(config.Logging{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	fallback := FromContext(context.Background())
	require.NotNil(t, fallback.Config)
	require.NotNil(t, fallback.Logger)

	a := &App{Config: config.Default(), Logger: zap.NewNop()}
	assert.Same(t, a, FromContext(WithApp(context.Background(), a)))
}

package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/shelf/internal/adapters/logger"
	"go.trai.ch/shelf/internal/adapters/telemetry"
	"go.trai.ch/shelf/internal/adapters/telemetry/progrock"
	"go.trai.ch/shelf/internal/core/domain"
)

func TestNoOp(t *testing.T) {
	ctx := context.Background()
	got, v := telemetry.NewNoOp().Record(ctx, "anything")

	assert.Equal(t, ctx, got)
	assert.NotPanics(t, func() {
		v.Cached()
		v.Complete(errors.New("ignored"))
	})
	assert.NoError(t, telemetry.NewNoOp().Close())
}

func TestForLevel(t *testing.T) {
	assert.IsType(t, &progrock.Recorder{}, telemetry.ForLevel(domain.LogLevelDebug, logger.Discard()))
	assert.IsType(t, &telemetry.NoOp{}, telemetry.ForLevel(domain.LogLevelInfo, logger.Discard()))
}

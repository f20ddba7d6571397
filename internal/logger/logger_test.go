package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerIsUsableBeforeInitialize(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("before initialize")
		DebugCtx(context.Background(), "before initialize")
	})
}

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(Config{Debug: true, Tags: map[string]string{"service": "test"}}))
	assert.NotNil(t, Default())
	assert.Nil(t, sentryClient)
}

func TestFromContext_InvocationFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := log
	log = zap.New(core)
	t.Cleanup(func() { log = prev })

	ctx := WithInvocation(context.Background(), InvocationInfo{ID: "01JABCDEF", Operation: "issue_quiz_card"})
	InfoCtx(ctx, "card issued")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "01JABCDEF", fields["invocation_id"])
	assert.Equal(t, "issue_quiz_card", fields["operation"])

	info, ok := InvocationFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "01JABCDEF", info.ID)

	_, ok = InvocationFromContext(context.Background())
	assert.False(t, ok)
}

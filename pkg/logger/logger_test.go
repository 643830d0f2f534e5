package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

func TestWithCtx_FallsBackToBase(t *testing.T) {
	assert.Same(t, logger.L, logger.WithCtx(context.Background()))
}

func TestWithCtx_ReturnsInjected(t *testing.T) {
	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")

	ctx := logger.InjectLogger(context.Background(), reqLog)
	logger.WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestTee_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := logger.Tee(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(h).With("svc", "shop")

	log.Info("only text")
	log.Error("both")

	assert.Contains(t, a.String(), "only text")
	assert.Contains(t, a.String(), "both")
	assert.NotContains(t, b.String(), "only text")
	assert.Contains(t, b.String(), `"msg":"both"`)
	assert.Contains(t, b.String(), `"svc":"shop"`)
}

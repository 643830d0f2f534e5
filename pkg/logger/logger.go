// Package logger provides the structured, levelled application logger built
// on log/slog.
//
// WithCtx returns the request-scoped logger injected by middleware.Logger so
// every line written while serving a request carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Error("create product", "error", err)
//	// → time=... level=ERROR msg="create product" request_id=a1b2c3d4 error="..."
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/bazaar/config"
)

var L *slog.Logger

var sink *MongoSink

func init() {
	L = slog.New(stdoutHandler())
	slog.SetDefault(L)
}

func stdoutHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// EnableMongoSink tees every record into the "logs" collection of the
// LOG_MONGO_URI deployment. It is a no-op when LOG_MONGO_URI is empty.
func EnableMongoSink(ctx context.Context) error {
	uri := config.LogMongoURI()
	if uri == "" {
		return nil
	}

	h, err := DialMongoSink(ctx, uri, config.LogMongoDatabase(), "logs")
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	sink = h
	L = slog.New(Tee(stdoutHandler(), h))
	slog.SetDefault(L)
	return nil
}

// Close flushes the Mongo sink, if one is enabled.
func Close() {
	if sink != nil {
		sink.Close()
		sink = nil
	}
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base
// logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }

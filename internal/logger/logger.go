// Package logger builds the structured logger shared by the Lambda functions
// and the local CLI.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Initialize sets up the process logger writing to stderr.
// format is "json" for Lambda and "text" for interactive use.
func Initialize(format string, level slog.Level) *slog.Logger {
	return New(os.Stderr, format, level)
}

// New creates a logger writing to w.
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	logger.Debug("logger initialized", "format", format, "level", level)

	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DeriveRequestLogger returns a logger enriched with the AWS Lambda request ID
// when ctx carries one.
func DeriveRequestLogger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}

	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return base.With("requestID", lc.AwsRequestID)
	}

	return base
}

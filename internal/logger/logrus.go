package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	ctxKeyLog ctxKey = iota
)

var std = New(logrus.InfoLevel)

// New returns a text logger on stderr at level.
func New(level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Level = level
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	return l
}

// Entry returns the entry stored in ctx, or one on the default logger.
func Entry(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(ctxKeyLog).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(std)
}

func WithLogEntry(ctx context.Context, e *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKeyLog, e)
}

// WithFields stores a child of ctx's entry carrying fields.
func WithFields(ctx context.Context, fields logrus.Fields) (context.Context, *logrus.Entry) {
	e := Entry(ctx).WithFields(fields)
	return WithLogEntry(ctx, e), e
}

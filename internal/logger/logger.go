// Package logger provides a context-carrying structured logger wrapping logrus.
package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

var base = logrus.New()

func init() {
	base.SetFormatter(&logrus.JSONFormatter{})
}

// SetLevel adjusts the package-wide log level.
func SetLevel(level logrus.Level) {
	base.SetLevel(level)
}

// CloneContext returns a context carrying a fresh logrus.Entry, picking up
// a request/trace id already present on ctx if any.
func CloneContext(ctx context.Context) context.Context {
	entry := base.WithContext(ctx)
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok && rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	return context.WithValue(ctx, ctxKey{}, entry)
}

// WithRequestID attaches a request id that CloneContext will surface as a field.
type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// WithField returns a derived context carrying an additional structured field.
func WithField(ctx context.Context, key string, value interface{}) context.Context {
	entry := GetLogger(ctx).WithField(key, value)
	return context.WithValue(ctx, ctxKey{}, entry)
}

// GetLogger returns the logrus.Entry carried by ctx, or a fresh one bound to it.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return entry
	}
	return base.WithContext(ctx)
}

// entryWithFields turns trailing "key", value, "key", value pairs into
// logrus fields, matching the call shape logger.Info(ctx, "msg", "k", v).
func entryWithFields(ctx context.Context, kv []interface{}) *logrus.Entry {
	entry := GetLogger(ctx)
	if len(kv) == 0 {
		return entry
	}
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	return entry.WithFields(fields)
}

func Info(ctx context.Context, msg string, kv ...interface{})  { entryWithFields(ctx, kv).Info(msg) }
func Warn(ctx context.Context, msg string, kv ...interface{})  { entryWithFields(ctx, kv).Warn(msg) }
func Error(ctx context.Context, msg string, kv ...interface{}) { entryWithFields(ctx, kv).Error(msg) }
func Debug(ctx context.Context, msg string, kv ...interface{}) { entryWithFields(ctx, kv).Debug(msg) }

func Infof(ctx context.Context, format string, args ...interface{})  { GetLogger(ctx).Infof(format, args...) }
func Warnf(ctx context.Context, format string, args ...interface{})  { GetLogger(ctx).Warnf(format, args...) }
func Errorf(ctx context.Context, format string, args ...interface{}) { GetLogger(ctx).Errorf(format, args...) }

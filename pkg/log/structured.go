package log

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/netfabric/capacity-planner/pkg/requestid"
)

// StructuredLogger wraps a named zap logger with an operation-tracing
// builder. Service and handler layers use it to emit consistent
// started/step/success events carrying the request id from the context.
type StructuredLogger struct {
	name string
	ctx  context.Context
}

// NewDebugLogger returns a structured logger emitting step events at debug
// level under the given logger name.
func NewDebugLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name}
}

// WithContext attaches a request context; the request id, when present, is
// added to every event.
func (l *StructuredLogger) WithContext(ctx context.Context) *StructuredLogger {
	return &StructuredLogger{name: l.name, ctx: ctx}
}

// Operation starts building a tracer for one logical operation.
func (l *StructuredLogger) Operation(operation string) *OperationBuilder {
	b := &OperationBuilder{
		logger:    zap.S().Named(l.name),
		operation: operation,
	}
	if l.ctx != nil {
		if id := requestid.FromContext(l.ctx); id != "" {
			b.fields = append(b.fields, "request_id", id)
		}
	}
	return b
}

// OperationBuilder accumulates the fields shared by every event of an
// operation.
type OperationBuilder struct {
	logger    *zap.SugaredLogger
	operation string
	fields    []interface{}
}

func (b *OperationBuilder) WithString(key, value string) *OperationBuilder {
	b.fields = append(b.fields, key, value)
	return b
}

func (b *OperationBuilder) WithStringPtr(key string, value *string) *OperationBuilder {
	if value != nil {
		b.fields = append(b.fields, key, *value)
	}
	return b
}

func (b *OperationBuilder) WithInt(key string, value int) *OperationBuilder {
	b.fields = append(b.fields, key, value)
	return b
}

func (b *OperationBuilder) WithBool(key string, value bool) *OperationBuilder {
	b.fields = append(b.fields, key, value)
	return b
}

func (b *OperationBuilder) WithUUID(key string, value uuid.UUID) *OperationBuilder {
	b.fields = append(b.fields, key, value.String())
	return b
}

func (b *OperationBuilder) WithUUIDPtr(key string, value *uuid.UUID) *OperationBuilder {
	if value != nil {
		b.fields = append(b.fields, key, value.String())
	}
	return b
}

// Build emits the operation-started event and returns the tracer.
func (b *OperationBuilder) Build() *Tracer {
	t := &Tracer{
		logger:    b.logger,
		operation: b.operation,
		base:      b.fields,
	}
	t.logger.Debugw("operation started", t.withBase("operation", b.operation)...)
	return t
}

// Tracer emits the events of one operation.
type Tracer struct {
	logger    *zap.SugaredLogger
	operation string
	base      []interface{}
}

func (t *Tracer) withBase(extra ...interface{}) []interface{} {
	out := make([]interface{}, 0, len(t.base)+len(extra))
	out = append(out, extra...)
	out = append(out, t.base...)
	return out
}

// Step records an intermediate step of the operation at debug level.
func (t *Tracer) Step(name string) *Event {
	return &Event{
		tracer: t,
		level:  levelDebug,
		msg:    "operation step",
		fields: []interface{}{"operation", t.operation, "step", name},
	}
}

// Success records the operation's completion at info level.
func (t *Tracer) Success() *Event {
	return &Event{
		tracer: t,
		level:  levelInfo,
		msg:    "operation succeeded",
		fields: []interface{}{"operation", t.operation},
	}
}

// Error records the operation's failure.
func (t *Tracer) Error(err error) *Event {
	return &Event{
		tracer: t,
		level:  levelError,
		msg:    "operation failed",
		fields: []interface{}{"operation", t.operation, "error", err},
	}
}

type eventLevel int

const (
	levelDebug eventLevel = iota
	levelInfo
	levelError
)

// Event is one log entry under construction; Log emits it.
type Event struct {
	tracer *Tracer
	level  eventLevel
	msg    string
	fields []interface{}
}

func (e *Event) WithString(key, value string) *Event {
	e.fields = append(e.fields, key, value)
	return e
}

func (e *Event) WithStringPtr(key string, value *string) *Event {
	if value != nil {
		e.fields = append(e.fields, key, *value)
	}
	return e
}

func (e *Event) WithInt(key string, value int) *Event {
	e.fields = append(e.fields, key, value)
	return e
}

func (e *Event) WithBool(key string, value bool) *Event {
	e.fields = append(e.fields, key, value)
	return e
}

func (e *Event) WithUUID(key string, value uuid.UUID) *Event {
	e.fields = append(e.fields, key, value.String())
	return e
}

// Log emits the event with the operation's base fields appended.
func (e *Event) Log() {
	fields := append(e.fields, e.tracer.base...)
	switch e.level {
	case levelDebug:
		e.tracer.logger.Debugw(e.msg, fields...)
	case levelInfo:
		e.tracer.logger.Infow(e.msg, fields...)
	case levelError:
		e.tracer.logger.Errorw(e.msg, fields...)
	}
}

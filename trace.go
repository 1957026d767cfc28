package incr

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
)

// Tracer is a type that can be registered on a context to receive
// trace messages from stabilization.
type Tracer interface {
	Print(...any)
	Error(...any)
}

type tracerKey struct{}

// WithTracing adds a default tracer to a given context, which writes
// to standard output and standard error.
func WithTracing(ctx context.Context) context.Context {
	return WithTracingOutputs(ctx, os.Stdout, os.Stderr)
}

// WithTracingOutputs adds a tracer to a given context with
// given outputs for prints and errors.
func WithTracingOutputs(ctx context.Context, output, errOutput io.Writer) context.Context {
	tracer := &tracer{
		log:    log.New(output, "incr.trace|", log.LUTC|log.Lmicroseconds),
		errLog: log.New(errOutput, "incr.trace.err|", log.LUTC|log.Lmicroseconds),
	}
	return WithTracer(ctx, tracer)
}

// WithTracer adds a tracer to a given context.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// GetTracer returns the tracer on a given context, or nil
// if one isn't present.
func GetTracer(ctx context.Context) Tracer {
	if value := ctx.Value(tracerKey{}); value != nil {
		if typed, ok := value.(Tracer); ok {
			return typed
		}
	}
	return nil
}

// TracePrintln prints a message on a context's tracer, if one is present.
func TracePrintln(ctx context.Context, args ...any) {
	if tracer := GetTracer(ctx); tracer != nil {
		tracer.Print(args...)
	}
}

// TracePrintf prints a format and arguments on a context's tracer,
// if one is present.
func TracePrintf(ctx context.Context, format string, args ...any) {
	if tracer := GetTracer(ctx); tracer != nil {
		tracer.Print(fmt.Sprintf(format, args...))
	}
}

// TraceErrorln prints an error message on a context's tracer,
// if one is present.
func TraceErrorln(ctx context.Context, args ...any) {
	if tracer := GetTracer(ctx); tracer != nil {
		tracer.Error(args...)
	}
}

// TraceErrorf prints an error format and arguments on a context's
// tracer, if one is present.
func TraceErrorf(ctx context.Context, format string, args ...any) {
	if tracer := GetTracer(ctx); tracer != nil {
		tracer.Error(fmt.Sprintf(format, args...))
	}
}

type tracer struct {
	log    *log.Logger
	errLog *log.Logger
}

func (t *tracer) Print(args ...any) {
	t.log.Println(args...)
}

func (t *tracer) Error(args ...any) {
	t.errLog.Println(args...)
}

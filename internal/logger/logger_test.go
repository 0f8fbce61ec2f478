package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		level     string
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "prod defaults to info", env: "prod", wantLevel: zapcore.InfoLevel},
		{name: "local defaults to debug", env: "local", wantLevel: zapcore.DebugLevel},
		{name: "test env", env: "test", wantLevel: zapcore.DebugLevel},
		{name: "level override", env: "prod", level: "warn", wantLevel: zapcore.WarnLevel},
		{name: "unknown env", env: "staging", wantErr: true},
		{name: "bad level", env: "local", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tt.wantLevel) {
				t.Errorf("level %s not enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && l.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("level below %s enabled", tt.wantLevel)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reqLogger := zap.New(core).With(zap.String("request_id", "r-1"))

	ctx := ContextWithLogger(context.Background(), reqLogger)
	FromContext(ctx).Info("hello")
	if logs.Len() != 1 || logs.All()[0].ContextMap()["request_id"] != "r-1" {
		t.Fatalf("logs = %+v", logs.All())
	}

	// No logger in context: the no-op logger swallows the line.
	FromContext(context.Background()).Info("dropped")
	if logs.Len() != 1 {
		t.Errorf("no-op logger wrote %d lines", logs.Len()-1)
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewNop()
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("expected fallback outside a request")
	}
	req := zap.NewExample()
	if got := FromContextOr(ContextWithLogger(context.Background(), req), fallback); got != req {
		t.Error("expected request logger")
	}
}

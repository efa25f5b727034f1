package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	tests := []struct {
		name   string
		input  []StringField
		expect map[string]string
	}{
		{
			name:   "trims key and value",
			input:  []StringField{{Key: "  provider  ", Value: "  Gemini  "}},
			expect: map[string]string{"provider": "Gemini"},
		},
		{
			name:   "drops blank entries",
			input:  []StringField{{Key: "ignored", Value: "   "}, {Key: "   ", Value: "empty key"}},
			expect: map[string]string{},
		},
		{
			name:   "no input",
			expect: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := StringFields(tt.input...)
			if len(fields) != len(tt.expect) {
				t.Fatalf("expected %d fields, got %d", len(tt.expect), len(fields))
			}
			for _, f := range fields {
				if tt.expect[f.Key] != f.String {
					t.Fatalf("unexpected field %s=%q", f.Key, f.String)
				}
			}
		})
	}
}

func observe() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestWithCommonFields(t *testing.T) {
	log, logs := observe()

	WithCommonFields(log, "gemini", "gemini-2.5-flash").Info("recommend")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" || ctx[FieldModel] != "gemini-2.5-flash" {
		t.Fatalf("unexpected context: %v", ctx)
	}

	if len(CommonFields("", "")) != 0 {
		t.Fatalf("expected no fields for empty provider and model")
	}
}

func TestForSource(t *testing.T) {
	log, logs := observe()

	ForSource(log, "usajobs").Debug("query")
	ForSource(log, " ").Debug("untagged")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ContextMap()[FieldSource] != "usajobs" {
		t.Fatalf("unexpected context: %v", entries[0].ContextMap())
	}
	if _, ok := entries[1].ContextMap()[FieldSource]; ok {
		t.Fatalf("blank source must not be attached")
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	log := WithFields(nil, RequestID("abc"))
	if log == nil {
		t.Fatalf("expected no-op logger")
	}
	log.Info("does not panic")
}

func TestNew(t *testing.T) {
	log, err := New(true, true, zap.String("app", "bridgeskills"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}

	log, err = New(false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be disabled")
	}
}

package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: FieldProvider, Value: "gemini"},
		StringField{Key: "  ", Value: "ignored"},
		StringField{Key: FieldModel, Value: "   "},
		StringField{Key: " padded ", Value: " value "},
	)

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != FieldProvider || fields[0].String != "gemini" {
		t.Fatalf("unexpected first field: %+v", fields[0])
	}
	if fields[1].Key != "padded" || fields[1].String != "value" {
		t.Fatalf("expected trimmed key and value, got %+v", fields[1])
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	log := WithFields(nil, zap.String("k", "v"))
	if log == nil {
		t.Fatalf("expected a usable logger")
	}
	// Must not panic.
	log.Info("message")
}

func TestWithCommonFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	log := WithCommonFields(zap.New(core), "gemini", "gemini-2.5-flash")
	log.Info("generated")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field, got %v", ctx)
	}
	if ctx[FieldModel] != "gemini-2.5-flash" {
		t.Fatalf("expected model field, got %v", ctx)
	}
}

func TestWithCommonFieldsOmitsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	log := WithCommonFields(zap.New(core), "gemini", "")
	log.Info("generated")

	ctx := logs.All()[0].ContextMap()
	if _, ok := ctx[FieldModel]; ok {
		t.Fatalf("expected empty model to be omitted, got %v", ctx)
	}
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field, got %v", ctx)
	}
}

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	gerrors "github.com/YuminosukeSato/genoml/pkg/errors"
)

func TestZerologProviderEmitsComponentField(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelInfo, &buf)

	logger := provider.GetLoggerWithName("modelselection")
	logger.Info("grid search finished",
		VariantKey, "full",
		CVScoreKey, 0.87,
		GridPointKey, 3,
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry[ComponentKey] != "modelselection" {
		t.Errorf("missing component field: %v", entry)
	}
	if entry[VariantKey] != "full" {
		t.Errorf("missing variant field: %v", entry)
	}
	if entry[CVScoreKey] != 0.87 {
		t.Errorf("missing cv score field: %v", entry)
	}
}

func TestZerologProviderLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelWarn, &buf)

	logger := provider.GetLogger()
	logger.Info("should be dropped")
	logger.Warn("should be kept")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "should be kept") {
		t.Error("warn record missing")
	}
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should not be enabled at warn level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestWarningBridgeEmitsStructuredWarning(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelInfo, &buf)
	provider.InstallWarningBridge()
	defer gerrors.SetZerologWarnFunc(nil)

	gerrors.Warn(gerrors.NewConvergenceWarning("LogisticRegression", 250, ""))

	out := buf.String()
	if !strings.Contains(out, "ConvergenceWarning") {
		t.Errorf("warning output missing structured type: %s", out)
	}
	if !strings.Contains(out, "LogisticRegression") {
		t.Errorf("warning output missing algorithm: %s", out)
	}
}

func TestErrFmtHandlerAttachesStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := NewErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Error("run failed", ErrAttr(gerrors.WithStack(gerrors.New("assembly broke"))))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	st, ok := entry[StacktraceAttrKey].(string)
	if !ok || st == "" {
		t.Errorf("stacktrace attribute missing from record: %v", entry)
	}
}

func TestErrFmtHandlerPassesThroughPlainRecords(t *testing.T) {
	var buf bytes.Buffer
	handler := NewErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Info("dataset assembled", SamplesKey, 100)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, present := entry[StacktraceAttrKey]; present {
		t.Errorf("stacktrace attribute on a record without an error: %v", entry)
	}
	if entry["msg"] != "dataset assembled" {
		t.Errorf("record not forwarded to the wrapped handler: %v", entry)
	}
}

func TestSetupLoggerWithWriterGatesByLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	defer slog.SetDefault(prev)

	SetupLoggerWithWriter("warn", &buf)

	slog.Info("should be dropped")
	slog.Warn("should be kept")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "should be kept") {
		t.Error("warn record missing")
	}
}

func TestToSlogLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		if got := ToSlogLevel(tt.name); got != tt.want {
			t.Errorf("ToSlogLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTestLoggerRecordsEntries(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	logger.Info("fold scored", FoldKey, 1, AUCKey, 0.91)
	contextLogger := logger.With(VariantKey, "covariates")
	contextLogger.Warn("solver did not converge")

	if !logger.ContainsMessage("fold scored") {
		t.Error("missing 'fold scored' entry")
	}
	entries, err := logger.Entries()
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1][VariantKey] != "covariates" {
		t.Errorf("With field not propagated: %v", entries[1])
	}

	logger.Clear()
	if logger.ContainsMessage("fold scored") {
		t.Error("Clear did not discard entries")
	}
}

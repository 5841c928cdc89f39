package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		debug      bool
		jsonOutput bool
	}{
		{name: "console", debug: false, jsonOutput: false},
		{name: "console debug", debug: true, jsonOutput: false},
		{name: "json", debug: false, jsonOutput: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			if err := Initialize(tt.debug, tt.jsonOutput); err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if Logger == nil {
				t.Fatal("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}
			if got := Logger.Desugar().Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
			Set(nil)
		})
	}
}

func TestSetRoutesToObserver(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core).Sugar())
	defer Set(nil)

	Logger.Infow("hello", "k", "v")
	if logs.FilterMessage("hello").Len() != 1 {
		t.Fatalf("expected one observed entry, got %d", logs.Len())
	}
}

package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	for _, dev := range []bool{false, true} {
		logger, err := New("warn", dev)
		if err != nil {
			t.Fatalf("New(warn, %v): %v", dev, err)
		}
		if logger.Core().Enabled(zap.InfoLevel) {
			t.Error("info enabled at warn level")
		}
		if !logger.Core().Enabled(zap.ErrorLevel) {
			t.Error("error disabled at warn level")
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New("loud", false); err == nil {
		t.Fatal("expected error")
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{name: "default hides debug", debug: false, wantDebug: false},
		{name: "debug shows debug", debug: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.debug, &buf)

			logger.Debug("request sent", zap.String("path", "/lists"))
			logger.Warn("slow response")
			_ = logger.Sync()

			out := buf.String()
			if got := strings.Contains(out, "request sent"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v; output %q", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "slow response") {
				t.Errorf("expected warning in output, got %q", out)
			}
		})
	}
}

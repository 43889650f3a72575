package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerDebugToggle(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut)

	l.Debug("hidden %d", 1)
	if out.Len() != 0 {
		t.Fatalf("debug written while disabled: %q", out.String())
	}

	l.SetDebug(true)
	l.Debug("shown %d", 2)
	if !strings.Contains(out.String(), "DEBUG") || !strings.Contains(out.String(), "shown 2") {
		t.Errorf("debug output = %q", out.String())
	}
}

func TestLoggerErrorsGoToErrOut(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut)

	l.Info("[store] Loaded %d", 3)
	l.Error("[olx] failed: %v", "timeout")

	if !strings.Contains(out.String(), "[store] Loaded 3") {
		t.Errorf("info output = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[olx] failed: timeout") || strings.Contains(out.String(), "failed") {
		t.Errorf("error output misrouted: out=%q err=%q", out.String(), errOut.String())
	}
}

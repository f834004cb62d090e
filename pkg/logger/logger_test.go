package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf})

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info line emitted at warn level: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestNewStampsServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf})

	log.Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got := line["service"]; got != "commerce-soap" {
		t.Errorf("service field = %v, want commerce-soap", got)
	}
	if _, ok := line["time"]; !ok {
		t.Error("log line missing timestamp")
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", false, &buf)

	log.Debug().Msg("hidden")
	l := WithEvaluationID("ev-1")
	l.Info().Msg("evaluated")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["evaluation_id"] != "ev-1" || entry["message"] != "evaluated" {
		t.Errorf("entry = %v", entry)
	}
	if log.Logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %s", log.Logger.GetLevel())
	}
}

func TestInitDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", true, &buf)

	l := WithExecutionID("exec-1")
	l.Debug().Msg("visible")
	if !bytes.Contains(buf.Bytes(), []byte(`"execution_id":"exec-1"`)) {
		t.Errorf("debug entry missing: %q", buf.String())
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", false, &buf)

	l := WithRequestID("req-1")
	l.Warn().Msg("slow")
	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"req-1"`)) {
		t.Errorf("request id missing: %q", buf.String())
	}
}

package mylog

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/libraryshop/lib/mycontext"
)

func TestStructuredLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	sut := structuredLogger{
		componentName: "checkout",
		logger:        zerolog.New(buf).With().Str("component", "checkout").Logger(),
	}
	c := context.WithValue(context.Background(), mycontext.CtxTraceContext{}, "projects/p/traces/abc")

	sut.Log(c, "order-42", SeverityWarn, "charge %s took %d ms", "chrg_1", 1500)

	entry := map[string]any{}
	err := json.Unmarshal(buf.Bytes(), &entry)
	assert.NoError(t, err)
	assert.Equal(t, "checkout", entry["component"])
	assert.Equal(t, "projects/p/traces/abc", entry["logging.googleapis.com/trace"])
	assert.Equal(t, map[string]any{"aggregate": "order-42"}, entry["logging.googleapis.com/labels"])
	assert.Contains(t, buf.String(), "checkout:charge chrg_1 took 1500 ms")
}

func TestToLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, toLevel(SeverityDebug))
	assert.Equal(t, zerolog.InfoLevel, toLevel(SeverityInfo))
	assert.Equal(t, zerolog.WarnLevel, toLevel(SeverityWarn))
	assert.Equal(t, zerolog.ErrorLevel, toLevel(SeverityError))
}

func TestToSeverity(t *testing.T) {
	assert.Equal(t, "WARNING", toSeverity(zerolog.WarnLevel))
	assert.Equal(t, "INFO", toSeverity(zerolog.InfoLevel))
}

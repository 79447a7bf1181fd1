package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudgate/internal/platform/config"
)

func TestNewWithWriter_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LogConfig{Level: "warn", Format: "json"})

	log.Info("dropped")
	log.Warn("kept", "stream", "template")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "template", line["stream"])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LogConfig{Level: "debug", Format: "text"})

	log.Debug("command applied", "rule_id", "r1")
	assert.Contains(t, buf.String(), "rule_id=r1")
}

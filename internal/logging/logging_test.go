package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json")
	log.Info().Int("patients", 3).Msg("analysis complete")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "analysis complete", line["message"])
	assert.EqualValues(t, 3, line["patients"])
	assert.Contains(t, line, "time")
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "text")
	log.Warn().Str("patient", "P001").Msg("no night readings")
	assert.Contains(t, buf.String(), "no night readings")
	assert.Contains(t, buf.String(), "P001")
}

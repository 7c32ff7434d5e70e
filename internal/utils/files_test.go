package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileCreatesParent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "reports", "run.json")
	require.NoError(t, SafeWriteFile(p, []byte("{}")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]any{"patient_id": "P001", "dipping_percent": nil})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"dipping_percent\": null,\n  \"patient_id\": \"P001\"\n}", string(b))

	_, err = PrettyJSON(func() {})
	assert.Error(t, err)
}

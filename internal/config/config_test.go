package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, FormatTable, cfg.Format)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "debug.log", cfg.LogFile)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.NoError(t, cfg.Validate())
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"empty means default", "", false},
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"unknown", "xml", true},
		{"case sensitive", "JSON", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.format)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_NegativeDebounce(t *testing.T) {
	cfg := Defaults()
	cfg.Watch.Debounce = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch.debounce")
}

func TestDefaultConfigTemplate_IsValidYAML(t *testing.T) {
	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &parsed))

	// The template's uncommented values mirror Defaults().
	assert.Equal(t, FormatTable, parsed["format"])
	watch, ok := parsed["watch"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1s", watch["debounce"])
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cahier", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: table")
}

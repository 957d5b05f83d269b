package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{Level: "info"}},
		{name: "json debug", cfg: Config{Level: "DEBUG", Encoding: "json"}},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
		{name: "bad encoding", cfg: Config{Level: "info", Encoding: "xml"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardstack.log")
	l, err := New(Config{Level: "info", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	l.Info("deck loaded")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"deck loaded"`)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "twitter-consumer-api-key", "  ck_abc123  \n")
				writeFile(t, dir, "twitter-consumer-api-secret", "cs_xyz789")
				writeFile(t, dir, "twitter-bearer-token", "AAAA%2FBBBB\n")
				return dir
			},
			want: map[string]string{
				"twitter-consumer-api-key":    "ck_abc123",
				"twitter-consumer-api-secret": "cs_xyz789",
				"twitter-bearer-token":        "AAAA%2FBBBB",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "twitter-access-token", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"twitter-access-token": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "redis-password", "hunter2")
				return dir
			},
			want: map[string]string{
				"redis-password": "hunter2",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "twitter-access-token", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"twitter-access-token": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, nil)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not restrict root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	core, logs := observer.New(zapcore.WarnLevel)
	got, err := Load(dir, zap.New(core))
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
	assert.Equal(t, 1, logs.FilterMessage("could not read secret").Len())
}

func TestConfigValues(t *testing.T) {
	got := ConfigValues(map[string]string{
		"twitter-consumer-api-key":    "ck",
		"twitter-consumer-api-secret": "cs",
		"twitter-access-token":        "at",
		"twitter-access-token-secret": "ats",
		"twitter-bearer-token":        "bt",
		"redis-password":              "pw",
		"unrelated":                   "x",
	})
	assert.Equal(t, map[string]string{
		"twitter.consumer_key":        "ck",
		"twitter.consumer_secret":     "cs",
		"twitter.access_token":        "at",
		"twitter.access_token_secret": "ats",
		"twitter.bearer_token":        "bt",
		"checkpoint.redis_password":   "pw",
	}, got)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Names(map[string]string{"c": "3", "a": "1", "b": "2"}))
	assert.Empty(t, Names(nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

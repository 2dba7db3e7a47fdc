package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestCacheBase_XDGSet(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	assert.Equal(t, filepath.Join("/custom/cache", "codemap"), cacheBase())
	assert.Equal(t, filepath.Join("/custom/cache", "codemap", "index.db"), DBPath())
	assert.Equal(t, filepath.Join("/custom/cache", "codemap", "cas"), CASDir())
	assert.Equal(t, filepath.Join("/custom/cache", "codemap", "docs"), DocsCacheDir())
}

func TestCacheBase_HomeDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("cannot determine home dir")
	}
	assert.Equal(t, filepath.Join(home, ".cache", "codemap"), cacheBase())
}

func TestCacheBase_TmpFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")
	got := cacheBase()
	assert.True(t, strings.Contains(got, "codemap"), "expected codemap in path, got %q", got)
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(map[string]interface{}{
		"log": map[string]interface{}{
			"level":       "debug",
			"development": true,
		},
		"resolver": map[string]interface{}{
			"case_insensitive_fallback": false,
		},
		"fetch": map[string]interface{}{
			"timeout_seconds": "15",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.False(t, cfg.Resolver.CaseInsensitiveFallback)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout())
}

func TestDecode_BadLevel(t *testing.T) {
	_, err := Decode(map[string]interface{}{
		"log": map[string]interface{}{"level": "loud"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CODEMAP_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, cfg.Log.Level)
	assert.True(t, cfg.Resolver.CaseInsensitiveFallback)
	assert.Equal(t, 60*time.Second, cfg.Fetch.Timeout())
}

func TestLoad_ConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[resolver]
case_insensitive_fallback = false

[fetch]
timeout_seconds = 5
`), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Resolver.CaseInsensitiveFallback)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout())
	assert.Equal(t, zapcore.InfoLevel, cfg.Log.Level)
}

// internal/browser/session/options_test.go
package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/scalpel-e2e/internal/config"
)

func flagMap(flags []launchFlag) map[string]interface{} {
	m := make(map[string]interface{}, len(flags))
	for _, f := range flags {
		m[f.name] = f.value
	}
	return m
}

func TestLaunchFlags(t *testing.T) {
	t.Run("Baseline", func(t *testing.T) {
		got := flagMap(launchFlags(config.BrowserConfig{}))
		assert.Equal(t, true, got["no-sandbox"])
		assert.Equal(t, true, got["enable-automation"])
		assert.NotContains(t, got, "ignore-certificate-errors")
		assert.NotContains(t, got, "window-size")
	})

	t.Run("IgnoreTLSErrors", func(t *testing.T) {
		got := flagMap(launchFlags(config.BrowserConfig{IgnoreTLSErrors: true}))
		assert.Equal(t, true, got["ignore-certificate-errors"])
		assert.Equal(t, true, got["allow-insecure-localhost"])
	})

	t.Run("Viewport", func(t *testing.T) {
		got := flagMap(launchFlags(config.BrowserConfig{Viewport: map[string]int{"width": 1920, "height": 1080}}))
		assert.Equal(t, "1920,1080", got["window-size"])

		partial := flagMap(launchFlags(config.BrowserConfig{Viewport: map[string]int{"width": 1920}}))
		assert.NotContains(t, partial, "window-size")
	})

	t.Run("CustomArgs", func(t *testing.T) {
		got := flagMap(launchFlags(config.BrowserConfig{
			Args: []string{"--lang=en-GB", "--mute-audio", "user-agent=e2e"},
		}))
		assert.Equal(t, "en-GB", got["lang"])
		assert.Equal(t, true, got["mute-audio"])
		assert.Equal(t, "e2e", got["user-agent"])
	})
}

func TestDefaultAllocatorOptions(t *testing.T) {
	base := config.BrowserConfig{}
	baseLen := len(DefaultAllocatorOptions(base))
	assert.Equal(t, len(launchFlags(base)), baseLen)

	assert.Len(t, DefaultAllocatorOptions(config.BrowserConfig{Headless: true}), baseLen+1)
	assert.Len(t, DefaultAllocatorOptions(config.BrowserConfig{Headless: true, ExecPath: "/usr/bin/chromium"}), baseLen+2)
}

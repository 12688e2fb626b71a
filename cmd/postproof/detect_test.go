package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDetect_PrintsPlatformAndNormalizedURL(t *testing.T) {
	out, err := execute(t, "detect", "https://TWITTER.com/acme/status/42?s=20#top")

	require.NoError(t, err)
	assert.Equal(t, "x\thttps://twitter.com/acme/status/42\n", out)
}

func TestDetect_UnsupportedHost(t *testing.T) {
	_, err := execute(t, "detect", "https://instagram.com/p/abc")

	assert.ErrorContains(t, err, "unsupported platform")
}

func TestVerify_RequiresFlags(t *testing.T) {
	_, err := execute(t, "verify", "--url", "https://x.com/a/status/1")

	assert.ErrorContains(t, err, "keyword")
}

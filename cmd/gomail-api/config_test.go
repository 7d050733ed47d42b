package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("GOMAIL_API_QUEUES", "first,second")

	config, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.Addr)
	assert.Equal(t, "", config.RedisAddr)
	assert.Equal(t, []string{"first", "second"}, config.API.Queues)
	assert.Equal(t, int64(204800), config.API.MaxBodySizeBytes)
}

func TestLoadConfigRejectsEmptyBodyLimit(t *testing.T) {
	t.Setenv("GOMAIL_API_MAX_BODY_SIZE_BYTES", "0")

	_, err := loadConfig()
	assert.EqualError(t, err, "API_MAX_BODY_SIZE_BYTES must be positive")
}

func TestOpenAccessLog(t *testing.T) {
	w, err := openAccessLog("")
	require.NoError(t, err)
	assert.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "access.log")
	w, err = openAccessLog(path)
	require.NoError(t, err)

	_, err = io.WriteString(w, "line\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	bts, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(bts))
}

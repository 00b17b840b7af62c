package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeDotEnv(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func unsetEnv(key string) error {
	return os.Unsetenv(key)
}

package testingutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// DefaultHwmonFiles describes a device at 65°C with both fans spinning
// and the pwm outputs at their default operating points
func DefaultHwmonFiles() map[string]string {
	return map[string]string{
		"temp2_input": "65000",
		"fan1_input":  "1500",
		"fan2_input":  "900",
		"pwm1":        "90",
		"pwm2":        "14",
	}
}

// CreateHwmonDir creates a fake hwmon device directory containing the given files
func CreateHwmonDir(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}

func WriteFile(t *testing.T, dir string, name string, content string) {
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
	require.NoError(t, err)
}

func ReadFile(t *testing.T, dir string, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func RemoveFile(t *testing.T, dir string, name string) {
	require.NoError(t, os.Remove(filepath.Join(dir, name)))
}

package util

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"
)

// ReadIntFromFile reads a single integer from the given file, ignoring surrounding whitespace
func ReadIntFromFile(path string) (value int, err error) {
	text, err := readTrimmed(path)
	if err != nil {
		return -1, err
	}
	return strconv.Atoi(text)
}

// ReadFloatFromFile reads a single decimal number from the given file, ignoring surrounding whitespace
func ReadFloatFromFile(path string) (value float64, err error) {
	text, err := readTrimmed(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(text, 64)
}

func readTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if len(text) <= 0 {
		return "", fmt.Errorf("file is empty: %s", path)
	}
	return text, nil
}

// WriteIntToFile writes a single integer as ASCII decimal (without newline) to the given path.
// The file is expected to exist already, like every sysfs control file does.
func WriteIntToFile(value int, path string) error {
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	_, err = file.WriteString(strconv.Itoa(value))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}

// WriteFileAtomic replaces the content of the file at path with data,
// without ever leaving a partially written file behind
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// IsReadable checks whether the current process may read the given file
func IsReadable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}

// IsWritable checks whether the current process may write the given file
func IsWritable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

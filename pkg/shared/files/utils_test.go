package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePath(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "input.json")
	assert.NoError(t, os.WriteFile(file, []byte("{}"), 0644))

	assert.NoError(t, ValidatePath(file))
	assert.Error(t, ValidatePath(tmpDir))
	assert.Error(t, ValidatePath(filepath.Join(tmpDir, "missing.json")))
}

func TestWriteFileTruncatesPrevious(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out.txt")

	assert.NoError(t, WriteFile(path, []byte("first version, longer")))
	assert.NoError(t, WriteFile(path, []byte("second")))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestEnsureWithinRoot(t *testing.T) {
	tmpDir := t.TempDir()

	inside, err := EnsureWithinRoot(tmpDir, filepath.Join(tmpDir, "reports", "out.json"))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "reports", "out.json"), inside)

	_, err = EnsureWithinRoot(tmpDir, filepath.Join(tmpDir, "..", "escape.json"))
	assert.Error(t, err)
}

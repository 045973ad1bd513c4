package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeWords(t, "crane\nslate\r\n\n  crane \nab1\nstare\n")
	words, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab1", "crane", "slate", "stare"}, words)
}

func TestLoadStrict(t *testing.T) {
	path := writeWords(t, "crane\nslate\nab1\n")
	_, err := Load(path, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWord)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), path)

	path = writeWords(t, "crane\nslate\n")
	words, err := Load(path, true)
	require.NoError(t, err)
	assert.Len(t, words, 2)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadEmpty(t *testing.T) {
	words, err := Read(strings.NewReader(""), false)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestReadTrimsBeforeDedup(t *testing.T) {
	words, err := Read(strings.NewReader("crane\r\n crane\ncrane\t\nCrane\n"), false)
	require.NoError(t, err)
	// surrounding whitespace is not part of a spelling, case is
	assert.Equal(t, []string{"Crane", "crane"}, words)
}

package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powellquiring/badgames/letters"
	"github.com/powellquiring/badgames/pool"
	"github.com/powellquiring/badgames/search"
)

func E(word string) letters.Mask {
	return letters.Encode(word)
}

func testRenderer() Renderer {
	return Renderer{
		Answers: pool.NewIndex([]string{"sissy", "slate", "least", "steal"}),
		Guesses: pool.NewIndex([]string{"fjord", "waltz", "chunk", "tacos", "coast", "costa"}),
	}
}

func testChain() search.Chain {
	return search.Chain{Answer: E("sissy"), Guesses: []letters.Mask{E("fjord"), E("waltz"), E("chunk")}}
}

func TestRender(t *testing.T) {
	line := testRenderer().Render(testChain())
	assert.Equal(t, "sissy -> fjord, waltz, chunk", line.String())

	line = testRenderer().Render(search.Chain{Answer: E("slate"), Guesses: []letters.Mask{E("coast")}})
	assert.Equal(t, "least/slate/steal -> coast/costa/tacos", line.String())
}

func TestRenderFallback(t *testing.T) {
	line := testRenderer().Render(search.Chain{Answer: E("xyz"), Guesses: []letters.Mask{E("ab")}})
	assert.Equal(t, Line{
		Answer:  "11100000000000000000000000",
		Guesses: []string{"00000000000000000000000011"},
	}, line)
}

func TestParseTarget(t *testing.T) {
	for _, target := range []Target{TargetStream, TargetFiles, TargetSQLite} {
		parsed, err := ParseTarget(target.String())
		assert.NoError(t, err)
		assert.Equal(t, target, parsed)
	}
	_, err := ParseTarget("kafka")
	assert.Error(t, err)
}

func TestStream(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStream(&buf, testRenderer())
	sink, err := stream.Open(E("sissy"))
	require.NoError(t, err)
	require.NoError(t, sink.Emit(testChain()))
	require.NoError(t, sink.Close())
	require.NoError(t, stream.Close())
	assert.Equal(t, "sissy -> fjord, waltz, chunk\n", buf.String())
}

func TestStreamWholeLines(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStream(&buf, testRenderer())
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink, err := stream.Open(E("sissy"))
			if err != nil {
				return
			}
			defer sink.Close()
			for range 100 {
				sink.Emit(testChain())
			}
		}()
	}
	wg.Wait()
	require.NoError(t, stream.Close())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 800)
	for _, line := range lines {
		assert.Equal(t, "sissy -> fjord, waltz, chunk", line)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestStreamWriteError(t *testing.T) {
	stream := NewStream(failingWriter{}, testRenderer())
	sink, err := stream.Open(E("sissy"))
	require.NoError(t, err)
	require.NoError(t, sink.Emit(testChain())) // buffered
	assert.Error(t, sink.Close())
}

func TestDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	d, err := NewDir(dir, testRenderer())
	require.NoError(t, err)
	assert.Equal(t, "least_slate_steal.txt", d.FileName(E("steal")))
	assert.Equal(t, "sissy.txt", d.FileName(E("sissy")))
	assert.Equal(t, "11100000000000000000000000.txt", d.FileName(E("xyz")))

	sink, err := d.Open(E("sissy"))
	require.NoError(t, err)
	require.NoError(t, sink.Emit(testChain()))
	require.NoError(t, sink.Emit(testChain()))
	require.NoError(t, sink.Close())
	require.NoError(t, d.Close())

	content, err := os.ReadFile(filepath.Join(dir, "sissy.txt"))
	require.NoError(t, err)
	assert.Equal(t, "sissy -> fjord, waltz, chunk\nsissy -> fjord, waltz, chunk\n", string(content))
}

func TestDirFileNameStaysInDirectory(t *testing.T) {
	dir := t.TempDir()
	r := Renderer{Answers: pool.NewIndex([]string{"../up", `a\b`}), Guesses: testRenderer().Guesses}
	d, err := NewDir(dir, r)
	require.NoError(t, err)
	assert.Equal(t, "..-up.txt", d.FileName(E("up")))
	assert.Equal(t, "a-b.txt", d.FileName(E("ab")))

	sink, err := d.Open(E("up"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	assert.FileExists(t, filepath.Join(dir, "..-up.txt"))
	assert.Equal(t, dir, filepath.Dir(d.Path(E("up"))))
}

func TestDirEmptyAnswerStillGetsFile(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDir(dir, testRenderer())
	require.NoError(t, err)
	sink, err := d.Open(E("least"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	info, err := os.Stat(filepath.Join(dir, "least_slate_steal.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestDirOpenError(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDir(dir, testRenderer())
	require.NoError(t, err)
	// a directory where the file should go
	require.NoError(t, os.Mkdir(d.Path(E("sissy")), 0o755))
	_, err = d.Open(E("sissy"))
	assert.Error(t, err)
}

func TestNewDirError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err := NewDir(filepath.Join(file, "out"), testRenderer())
	assert.Error(t, err)
}

func TestSQLite(t *testing.T) {
	store, err := NewSQLite(filepath.Join(t.TempDir(), "chains.db"), testRenderer(), 3)
	require.NoError(t, err)
	defer store.Close()

	sink, err := store.Open(E("sissy"))
	require.NoError(t, err)
	for range batchSize + 3 {
		require.NoError(t, sink.Emit(testChain()))
	}
	require.NoError(t, sink.Close())

	lines, err := store.Lines("sissy")
	require.NoError(t, err)
	require.Len(t, lines, batchSize+3)
	assert.Equal(t, testRenderer().Render(testChain()), lines[0])

	lines, err = store.Lines("least/slate/steal")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOpen(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	for _, target := range []Target{TargetStream, TargetFiles, TargetSQLite} {
		out := filepath.Join(dir, fmt.Sprint("out-", target))
		factory, err := Open(target, out, &buf, testRenderer(), 3)
		require.NoError(t, err, target)
		sink, err := factory.Open(E("sissy"))
		require.NoError(t, err)
		require.NoError(t, sink.Emit(testChain()))
		require.NoError(t, sink.Close())
		require.NoError(t, factory.Close())
	}
	assert.Equal(t, "sissy -> fjord, waltz, chunk\n", buf.String())
}

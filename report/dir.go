package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/powellquiring/badgames/letters"
	"github.com/powellquiring/badgames/search"
)

const (
	FileSeparator = "_"
	FileExtension = ".txt"
)

// a spelling must not name a subdirectory or leave the output directory
var pathSeparators = strings.NewReplacer("/", "-", `\`, "-")

// Dir writes the chains of each answer to its own file in a directory
type Dir struct {
	dir      string
	renderer Renderer
}

// NewDir creates the directory if needed
func NewDir(dir string, r Renderer) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Dir{dir: dir, renderer: r}, nil
}

// FileName is every spelling of the answer joined by FileSeparator, path separators become "-"
func (d *Dir) FileName(answer letters.Mask) string {
	words, ok := d.renderer.Answers.Words(answer)
	if !ok {
		return answer.String() + FileExtension
	}
	return pathSeparators.Replace(strings.Join(words, FileSeparator)) + FileExtension
}

func (d *Dir) Path(answer letters.Mask) string {
	return filepath.Join(d.dir, d.FileName(answer))
}

func (d *Dir) Open(answer letters.Mask) (Sink, error) {
	f, err := os.Create(d.Path(answer))
	if err != nil {
		return nil, err
	}
	return &fileSink{f: f, w: bufio.NewWriter(f), renderer: d.renderer}, nil
}

func (d *Dir) Close() error {
	return nil
}

type fileSink struct {
	f        *os.File
	w        *bufio.Writer
	renderer Renderer
}

func (fs *fileSink) Emit(chain search.Chain) error {
	if _, err := fs.w.WriteString(fs.renderer.Render(chain).String()); err != nil {
		return err
	}
	return fs.w.WriteByte('\n')
}

func (fs *fileSink) Close() error {
	return multierr.Append(fs.w.Flush(), fs.f.Close())
}

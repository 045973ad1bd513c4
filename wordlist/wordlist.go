// Package wordlist reads the allowed guess and answer lists, one word per line.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set"

	"github.com/powellquiring/badgames/letters"
)

var ErrInvalidWord = errors.New("invalid word")

// Load reads the file at path.  Lines are trimmed, blank lines are skipped and duplicates dropped.
// When strict is set a word with anything outside a-z is an error, otherwise it is kept as is.
func Load(path string, strict bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ret, err := Read(f, strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ret, nil
}

// Read is Load for any reader, the words are returned sorted
func Read(r io.Reader, strict bool) ([]string, error) {
	set := mapset.NewThreadUnsafeSet()
	sc := bufio.NewScanner(r)
	lineNumber := 0
	for sc.Scan() {
		lineNumber++
		word := strings.TrimSpace(sc.Text())
		if word == "" {
			continue
		}
		if strict && !letters.Valid(word) {
			return nil, fmt.Errorf("line %d %q: %w", lineNumber, word, ErrInvalidWord)
		}
		set.Add(word)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	ret := make([]string, 0, set.Cardinality())
	for _, word := range set.ToSlice() {
		ret = append(ret, word.(string))
	}
	sort.Strings(ret)
	return ret, nil
}

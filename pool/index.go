package pool

import (
	"sort"
	"strings"

	"github.com/powellquiring/badgames/letters"
)

// Index maps a mask to every word that encodes to it.  Only used to display results.
type Index map[letters.Mask][]string

// NewIndex groups the distinct words by mask, each group sorted.
func NewIndex(words []string) Index {
	ret := make(Index)
	for _, word := range dedupe(words) {
		mask := letters.Encode(word)
		if mask == 0 {
			continue
		}
		ret[mask] = append(ret[mask], word)
	}
	for _, group := range ret {
		sort.Strings(group)
	}
	return ret
}

func (ix Index) Words(mask letters.Mask) ([]string, bool) {
	words, ok := ix[mask]
	return words, ok
}

// Display is the words joined with / or the binary mask if there are no words
func (ix Index) Display(mask letters.Mask) string {
	if words, ok := ix[mask]; ok {
		return strings.Join(words, "/")
	}
	return mask.String()
}

// Masks in ascending order
func (ix Index) Masks() []letters.Mask {
	return sortedKeys(ix)
}

// Collisions returns the masks shared by more than one word, ascending
func (ix Index) Collisions() []letters.Mask {
	ret := []letters.Mask{}
	for _, mask := range ix.Masks() {
		if len(ix[mask]) > 1 {
			ret = append(ret, mask)
		}
	}
	return ret
}

// WordCount is the number of distinct words in the index
func (ix Index) WordCount() int {
	ret := 0
	for _, words := range ix {
		ret += len(words)
	}
	return ret
}

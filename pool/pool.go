package pool

import (
	"slices"
	"sort"

	"github.com/bits-and-blooms/bitset"
	mapset "github.com/deckarep/golang-set"

	"github.com/powellquiring/badgames/letters"
)

// Pool is the sorted set of distinct guess masks.  The position of a mask in the pool is its rank.
// A Pool is never changed after Build so it can be shared by any number of searches.
type Pool struct {
	masks    []letters.Mask
	index    Index
	all      *bitset.BitSet
	postings [letters.Alphabet]*bitset.BitSet // postings['c'-'a'] ranks of masks containing a c
}

// Build the pool from the allowed guesses.  Duplicate strings are dropped before encoding,
// every distinct spelling is kept in the index.  Words without any a-z letter are not guesses.
func Build(words []string) *Pool {
	ret := &Pool{index: NewIndex(words)}
	ret.masks = ret.index.Masks()

	length := uint(len(ret.masks))
	ret.all = bitset.New(length)
	for i := range ret.postings {
		ret.postings[i] = bitset.New(length)
	}
	for rank, mask := range ret.masks {
		ret.all.Set(uint(rank))
		for letter := range mask.Letters() {
			ret.postings[letter].Set(uint(rank))
		}
	}
	return ret
}

func (p *Pool) Len() int {
	return len(p.masks)
}

func (p *Pool) Mask(rank int) letters.Mask {
	return p.masks[rank]
}

// Masks in rank order, callers must not modify the slice
func (p *Pool) Masks() []letters.Mask {
	return p.masks
}

func (p *Pool) Rank(mask letters.Mask) (int, bool) {
	return slices.BinarySearch(p.masks, mask)
}

func (p *Pool) Index() Index {
	return p.index
}

// Playable returns the masks that share no letter with state, in rank order.
func (p *Pool) Playable(state letters.Mask) []letters.Mask {
	free := p.all.Clone()
	for letter := range state.Letters() {
		free.InPlaceDifference(p.postings[letter])
	}
	ret := make([]letters.Mask, 0, free.Count())
	for rank, ok := free.NextSet(0); ok; rank, ok = free.NextSet(rank + 1) {
		ret = append(ret, p.masks[rank])
	}
	return ret
}

// LetterCounts is the number of pool masks that contain each letter
func (p *Pool) LetterCounts() [letters.Alphabet]int {
	var ret [letters.Alphabet]int
	for letter, posting := range p.postings {
		ret[letter] = int(posting.Count())
	}
	return ret
}

// dedupe keeps the first occurrence of each exact string
func dedupe(words []string) []string {
	seen := mapset.NewThreadUnsafeSet()
	ret := make([]string, 0, len(words))
	for _, word := range words {
		if seen.Add(word) {
			ret = append(ret, word)
		}
	}
	return ret
}

func sortedKeys(m map[letters.Mask][]string) []letters.Mask {
	ret := make([]letters.Mask, 0, len(m))
	for mask := range m {
		ret = append(ret, mask)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

package letters

import (
	"fmt"
	"iter"
	"math/bits"
)

// Mask has bit i set when the letter 'a'+i is in the word
type Mask uint32

const Alphabet = 26

// All has a bit for every letter of the alphabet
const All Mask = 1<<Alphabet - 1

// Encode the distinct letters of word.  Anything outside a-z is skipped, not rejected.
func Encode(word string) Mask {
	ret := Mask(0)
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c >= 'a' && c <= 'z' {
			ret |= 1 << (c - 'a')
		}
	}
	return ret
}

// Valid is true for a non empty word made only of a-z
func Valid(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}

// Playable is true if m does not use any letter already in state
func (m Mask) Playable(state Mask) bool {
	return m&state == 0
}

func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m & All))
}

// Free is the number of letters not yet used
func (m Mask) Free() int {
	return Alphabet - m.Count()
}

// Letters yields the letter numbers, 0 is 'a', in ascending order
func (m Mask) Letters() iter.Seq[int] {
	return func(yield func(int) bool) {
		rest := uint32(m & All)
		for rest != 0 {
			letter := bits.TrailingZeros32(rest)
			if !yield(letter) {
				return
			}
			rest &= rest - 1
		}
	}
}

// String is the fixed width binary literal, used when no word is known for the mask
func (m Mask) String() string {
	return fmt.Sprintf("%026b", uint32(m))
}

package game

import (
	"strings"

	"github.com/samber/lo"

	"github.com/scythe504/sketchroom/internal"
)

const maskRune = "_"

// HintRevealsDue returns how many letters to unmask once elapsed seconds of a
// round lasting total seconds have passed. Reveals happen at one third and two
// thirds of the round.
func HintRevealsDue(word string, elapsed, total int) int {
	if len([]rune(word)) <= internal.MinHintWordLength || total <= 0 {
		return 0
	}

	due := 0
	if elapsed == total/3 {
		due++
	}
	if elapsed == total*2/3 {
		due++
	}
	return due
}

// RevealLetters unmasks up to n hidden positions chosen at random and
// returns the positions it revealed.
func RevealLetters(hint *internal.WordHint, n int) []int {
	if hint == nil || n <= 0 {
		return nil
	}

	picked := lo.Samples(hint.Masked(), n)
	for _, idx := range picked {
		hint.Revealed[idx] = true
	}
	return picked
}

// RenderHint joins the slots with spaces, e.g. "_ a _ _".
func RenderHint(hint *internal.WordHint) string {
	if hint == nil {
		return ""
	}

	slots := make([]string, len(hint.Letters))
	for i, r := range hint.Letters {
		if hint.Revealed[i] {
			slots[i] = string(r)
		} else {
			slots[i] = maskRune
		}
	}
	return strings.Join(slots, " ")
}

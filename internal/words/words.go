// Package words holds the categorized word lists offered to drawers.
package words

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/scythe504/sketchroom/internal"
)

// Tiers in the order choices are presented: easy, medium, hard.
var Tiers = []internal.WordDifficulty{internal.Easy, internal.Medium, internal.Hard}

var ErrEmptyBank = errors.New("word bank has no words")

type Bank struct {
	tiers map[internal.WordDifficulty][]internal.Word
	all   []internal.Word
}

// NewBank indexes words by difficulty. Duplicates and blank entries are dropped.
func NewBank(words []internal.Word) (*Bank, error) {
	b := &Bank{tiers: make(map[internal.WordDifficulty][]internal.Word)}
	seen := make(map[string]bool)

	for _, w := range words {
		w.Word = strings.ToLower(strings.TrimSpace(w.Word))
		if w.Word == "" || seen[w.Word] {
			continue
		}
		if !lo.Contains(Tiers, w.Difficult) {
			return nil, fmt.Errorf("word %q: unknown difficulty %q", w.Word, w.Difficult)
		}
		seen[w.Word] = true
		b.tiers[w.Difficult] = append(b.tiers[w.Difficult], w)
		b.all = append(b.all, w)
	}

	if len(b.all) < internal.WordOptionCount {
		return nil, ErrEmptyBank
	}
	return b, nil
}

// Default returns the built-in bank.
func Default() *Bank {
	b, err := NewBank(builtinWords)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Bank) Size() int {
	return len(b.all)
}

func (b *Bank) tierWords(d internal.WordDifficulty) []internal.Word {
	return b.tiers[d]
}

// Choices picks n distinct words, one per tier in easy→hard order, then tops
// up from the whole bank when a tier is empty or n exceeds the tier count.
func (b *Bank) Choices(n int) []string {
	seen := make(map[string]bool)
	choices := make([]string, 0, n)

	for _, tier := range Tiers {
		if len(choices) == n {
			break
		}
		words := b.tierWords(tier)
		if len(words) == 0 {
			continue
		}
		w := lo.Sample(words).Word
		if !seen[w] {
			seen[w] = true
			choices = append(choices, w)
		}
	}

	if n > len(b.all) {
		n = len(b.all)
	}
	for len(choices) < n {
		w := lo.Sample(b.all).Word
		if !seen[w] {
			seen[w] = true
			choices = append(choices, w)
		}
	}

	return choices
}

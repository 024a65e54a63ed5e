package words

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/sketchroom/internal"
)

func TestDefaultBank(t *testing.T) {
	bank := Default()

	for _, tier := range Tiers {
		assert.NotEmpty(t, bank.tierWords(tier), "tier %s", tier)
	}

	t.Run("choices are one per tier in order", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			choices := bank.Choices(internal.WordOptionCount)
			require.Len(t, choices, 3)

			for idx, word := range choices {
				inTier := lo.ContainsBy(bank.tierWords(Tiers[idx]), func(w internal.Word) bool { return w.Word == word })
				assert.True(t, inTier, "%q is not %s", word, Tiers[idx])
			}
		}
	})
}

func TestNewBank(t *testing.T) {
	t.Run("rejects unknown difficulty", func(t *testing.T) {
		_, err := NewBank([]internal.Word{{Word: "cat", Difficult: "trivial"}})
		require.Error(t, err)
	})

	t.Run("too few words", func(t *testing.T) {
		_, err := NewBank([]internal.Word{{Word: "cat", Difficult: internal.Easy}})
		require.ErrorIs(t, err, ErrEmptyBank)
	})

	t.Run("fills from other tiers when one is empty", func(t *testing.T) {
		bank, err := NewBank([]internal.Word{
			{Word: "Cat ", Difficult: internal.Easy},
			{Word: "cat", Difficult: internal.Easy},
			{Word: "dog", Difficult: internal.Easy},
			{Word: "giraffe", Difficult: internal.Medium},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, bank.Size())

		choices := bank.Choices(3)
		assert.ElementsMatch(t, []string{"cat", "dog", "giraffe"}, choices)
	})
}

func TestReadCsv(t *testing.T) {
	input := `word,difficulty,category
Lighthouse,hard,places
cat, easy
broken
ufo,galactic,space
`
	words, err := ReadCsv(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, words, 2)

	assert.Equal(t, "Lighthouse", words[0].Word)
	assert.Equal(t, internal.Hard, words[0].Difficult)
	assert.Equal(t, "places", words[0].Category)
	assert.Equal(t, internal.Easy, words[1].Difficult)

	_, err = ReadCsvFile("does-not-exist.csv")
	require.Error(t, err)
}

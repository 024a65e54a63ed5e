package words

import "github.com/scythe504/sketchroom/internal"

func tier(category string, difficulty internal.WordDifficulty, list ...string) []internal.Word {
	words := make([]internal.Word, 0, len(list))
	for _, w := range list {
		words = append(words, internal.Word{Word: w, Category: category, Difficult: difficulty})
	}
	return words
}

var builtinWords = concat(
	tier("animals", internal.Easy, "cat", "dog", "fish", "bird", "cow", "pig", "duck", "frog", "bee", "ant"),
	tier("animals", internal.Medium, "giraffe", "penguin", "dolphin", "turtle", "rabbit", "octopus", "squirrel", "camel", "zebra", "spider"),
	tier("animals", internal.Hard, "chameleon", "platypus", "armadillo", "flamingo", "porcupine", "jellyfish", "hedgehog", "walrus"),
	tier("food", internal.Easy, "apple", "cake", "egg", "pizza", "bread", "milk", "pie", "corn"),
	tier("food", internal.Medium, "sandwich", "pancake", "popcorn", "banana", "cupcake", "noodles", "carrot", "burrito"),
	tier("food", internal.Hard, "lasagna", "croissant", "avocado", "broccoli", "pretzel", "sushi"),
	tier("objects", internal.Easy, "ball", "book", "car", "chair", "cup", "door", "hat", "key", "sun", "tree"),
	tier("objects", internal.Medium, "umbrella", "guitar", "ladder", "scissors", "backpack", "bicycle", "candle", "camera"),
	tier("objects", internal.Hard, "telescope", "chandelier", "parachute", "typewriter", "microscope", "compass"),
	tier("places", internal.Easy, "house", "park", "beach", "farm"),
	tier("places", internal.Medium, "castle", "island", "library", "airport", "volcano"),
	tier("places", internal.Hard, "lighthouse", "observatory", "aquarium", "waterfall"),
	tier("actions", internal.Easy, "run", "jump", "swim", "sleep"),
	tier("actions", internal.Medium, "dancing", "juggling", "fishing", "painting"),
	tier("actions", internal.Hard, "skydiving", "snorkeling", "sleepwalking"),
)

func concat(tiers ...[]internal.Word) []internal.Word {
	var out []internal.Word
	for _, t := range tiers {
		out = append(out, t...)
	}
	return out
}

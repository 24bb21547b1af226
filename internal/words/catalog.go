// Package words holds the read-only word catalog: category name to an
// ordered list of candidate words, and the pair draw used at round start.
package words

import "math/rand"

// Category is a named, ordered list of candidate words
type Category struct {
	Name  string
	Words []string
}

// Catalog is an immutable set of categories
type Catalog struct {
	categories []Category
}

// NewCatalog creates a catalog over the given categories. Categories
// with fewer than two words can never yield a distinct pair and are
// skipped at draw time; at least one category must hold two or more
// words, or every draw would fail. Catalogs are built once at startup,
// so an unusable one panics here rather than surfacing mid-round.
func NewCatalog(categories []Category) *Catalog {
	drawable := false
	for _, cat := range categories {
		if len(cat.Words) >= 2 {
			drawable = true
			break
		}
	}
	if !drawable {
		panic("words: catalog needs at least one category with two or more words")
	}

	return &Catalog{categories: categories}
}

// Default returns the built-in catalog
func Default() *Catalog {
	return NewCatalog(defaultCategories)
}

// Pair is one random draw: a category and two distinct words from it
type Pair struct {
	Category string
	WordA    string
	WordB    string
}

// Draw picks a random category and two distinct words from it.
// WordA and WordB always differ.
func (c *Catalog) Draw(rng *rand.Rand) Pair {
	eligible := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		if len(cat.Words) >= 2 {
			eligible = append(eligible, cat)
		}
	}

	cat := eligible[rng.Intn(len(eligible))]

	i := rng.Intn(len(cat.Words))
	j := rng.Intn(len(cat.Words) - 1)
	if j >= i {
		j++
	}

	return Pair{
		Category: cat.Name,
		WordA:    cat.Words[i],
		WordB:    cat.Words[j],
	}
}

// Len returns the number of categories in the catalog
func (c *Catalog) Len() int {
	return len(c.categories)
}

var defaultCategories = []Category{
	{
		Name: "Animals",
		Words: []string{
			"tiger", "falcon", "wolf", "panther", "cobra",
			"dolphin", "octopus", "scorpion", "penguin", "beetle",
			"giraffe", "hedgehog", "raccoon", "flamingo", "otter",
		},
	},
	{
		Name: "Food",
		Words: []string{
			"sushi", "burger", "pizza", "ramen", "taco",
			"chocolate", "vanilla", "cinnamon", "wasabi", "honey",
			"pancake", "dumpling", "lasagna", "croissant", "kimchi",
		},
	},
	{
		Name: "Places",
		Words: []string{
			"casino", "subway", "rooftop", "alley", "warehouse",
			"temple", "fortress", "pyramid", "bunker", "tower",
			"bridge", "tunnel", "harbor", "factory", "stadium",
		},
	},
	{
		Name: "Jobs",
		Words: []string{
			"pilot", "surgeon", "barista", "plumber", "magician",
			"firefighter", "architect", "chef", "detective", "teacher",
			"librarian", "astronaut", "mechanic", "lifeguard", "tailor",
		},
	},
	{
		Name: "Objects",
		Words: []string{
			"diamond", "crystal", "mirror", "umbrella", "blade",
			"helmet", "shield", "compass", "lantern", "hourglass",
			"whistle", "hammer", "anchor", "telescope", "typewriter",
		},
	},
	{
		Name: "Sports",
		Words: []string{
			"bowling", "archery", "fencing", "curling", "surfing",
			"judo", "cricket", "badminton", "marathon", "snowboarding",
			"volleyball", "darts", "rowing", "skating", "wrestling",
		},
	},
}

package words

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Draw(t *testing.T) {
	t.Run("always draws two distinct words from one category", func(t *testing.T) {
		catalog := Default()
		rng := rand.New(rand.NewSource(1))

		for i := 0; i < 200; i++ {
			pair := catalog.Draw(rng)

			require.NotEmpty(t, pair.Category)
			require.NotEmpty(t, pair.WordA)
			require.NotEmpty(t, pair.WordB)
			assert.NotEqual(t, pair.WordA, pair.WordB)
		}
	})

	t.Run("skips categories that cannot yield a pair", func(t *testing.T) {
		catalog := NewCatalog([]Category{
			{Name: "too-small", Words: []string{"only"}},
			{Name: "usable", Words: []string{"left", "right"}},
		})
		rng := rand.New(rand.NewSource(1))

		for i := 0; i < 50; i++ {
			pair := catalog.Draw(rng)
			assert.Equal(t, "usable", pair.Category)
		}
	})

	t.Run("refuses a catalog no draw could ever succeed on", func(t *testing.T) {
		assert.Panics(t, func() {
			NewCatalog([]Category{
				{Name: "single", Words: []string{"only"}},
				{Name: "empty", Words: nil},
			})
		})
	})

	t.Run("is reproducible under a fixed seed", func(t *testing.T) {
		catalog := Default()

		first := catalog.Draw(rand.New(rand.NewSource(42)))
		second := catalog.Draw(rand.New(rand.NewSource(42)))

		assert.Equal(t, first, second)
	})
}

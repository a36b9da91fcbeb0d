// Package themes holds the memory prompts the kiosk cycles through and the
// per-session generation of the five-theme carousel.
package themes

import (
	"math"
	"math/rand/v2"
)

// Count is the fixed number of themes in a generated set.
const Count = 5

// FloatingParams drives the idle bobbing animation of a theme sphere.
type FloatingParams struct {
	Speed     float64 `json:"speed" yaml:"speed"`
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	Phase     float64 `json:"phase" yaml:"phase"`
}

// Theme is one selectable memory prompt. ID always equals its index in the
// generated set.
type Theme struct {
	ID       int            `json:"id"`
	Question string         `json:"question"`
	Color    string         `json:"color"`
	Floating FloatingParams `json:"floating"`
}

var slotFloating = [Count]FloatingParams{
	{Speed: 1, Amplitude: 0.1, Phase: 0},
	{Speed: 0.8, Amplitude: 0.15, Phase: math.Pi / 3},
	{Speed: 1.2, Amplitude: 0.12, Phase: math.Pi / 1.5},
	{Speed: 0.9, Amplitude: 0.14, Phase: math.Pi / 2},
	{Speed: 1.1, Amplitude: 0.13, Phase: math.Pi / 2.5},
}

// Generate draws a fresh theme set: the fixed opener, one prompt from each
// pool, and the fixed closer. Empty pools fall back to the default catalog.
func Generate(rng *rand.Rand, catalog Catalog) []Theme {
	defaults := DefaultCatalog()
	catalog = catalog.withFallback(defaults)

	prompts := [Count]Prompt{
		catalog.Opener,
		pick(rng, catalog.Fun),
		pick(rng, catalog.Frustrating),
		pick(rng, catalog.Contemplative),
		catalog.Closer,
	}

	themes := make([]Theme, 0, Count)
	for i, prompt := range prompts {
		themes = append(themes, Theme{
			ID:       i,
			Question: prompt.Question,
			Color:    prompt.Color,
			Floating: slotFloating[i],
		})
	}
	return themes
}

func pick(rng *rand.Rand, pool []Prompt) Prompt {
	if rng == nil {
		return pool[rand.IntN(len(pool))]
	}
	return pool[rng.IntN(len(pool))]
}

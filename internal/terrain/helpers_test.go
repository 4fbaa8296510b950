package terrain

import (
	"math/rand"
	"testing"
)

// gridFunc creates a padded grid for a widthSamples x heightSamples tile with
// every sample (in grid coordinates) taken from f.
func gridFunc(t testing.TB, widthSamples, heightSamples, padding int, f func(col, row int) float32) *HeightGrid {
	t.Helper()

	cols := widthSamples + 2*padding
	rows := heightSamples + 2*padding
	data := make([][]float32, rows)
	for row := range rows {
		data[row] = make([]float32, cols)
		for col := range cols {
			data[row][col] = f(col, row)
		}
	}

	g, err := NewHeightGrid(data)
	if err != nil {
		t.Fatalf("NewHeightGrid failed: %v", err)
	}
	return g
}

// flatGrid creates a padded grid of constant elevation.
func flatGrid(t testing.TB, widthSamples, heightSamples, padding int, z float32) *HeightGrid {
	t.Helper()
	return gridFunc(t, widthSamples, heightSamples, padding, func(int, int) float32 { return z })
}

// terracedSamples returns cols x rows samples made of random flat plateaus, so
// both merged and unmerged regions appear.
func terracedSamples(cols, rows int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	const plateau = 7

	levels := make(map[[2]int]float32)
	data := make([][]float32, rows)
	for row := range rows {
		data[row] = make([]float32, cols)
		for col := range cols {
			key := [2]int{col / plateau, row / plateau}
			z, ok := levels[key]
			if !ok {
				z = float32(rng.Intn(4)) * 2.5
				levels[key] = z
			}
			if rng.Intn(40) == 0 {
				z += 0.25
			}
			data[row][col] = z
		}
	}
	return data
}

func buildOrFail(t testing.TB, g *HeightGrid, tileWidth, tileHeight float32, widthSamples, heightSamples int, opts Options) *Mesh {
	t.Helper()
	m, err := BuildMesh(g, tileWidth, tileHeight, widthSamples, heightSamples, opts)
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}
	return m
}

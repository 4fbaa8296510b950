package main

import (
	"math"
	"math/rand/v2"
)

// generator fills a cols x rows grid, row-major.
type generator func(cols, rows int, seed uint64) []float32

var generators = map[string]generator{
	"flat":    genFlat,
	"terrace": genTerrace,
	"checker": genChecker,
	"ridge":   genRidge,
}

func genFlat(cols, rows int, _ uint64) []float32 {
	return make([]float32, cols*rows)
}

// genTerrace produces stepped plateaus with a few isolated bumps, which
// exercises both merging and the single-cell path.
func genTerrace(cols, rows int, seed uint64) []float32 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	const step = 12

	out := make([]float32, cols*rows)
	for row := range rows {
		for col := range cols {
			level := (col/step + row/step) % 5
			out[row*cols+col] = float32(level) * 2
		}
	}
	for range cols * rows / 64 {
		out[r.IntN(len(out))] += r.Float32()*3 + 0.5
	}
	return out
}

func genChecker(cols, rows int, _ uint64) []float32 {
	const square = 8
	out := make([]float32, cols*rows)
	for row := range rows {
		for col := range cols {
			if (col/square+row/square)%2 == 1 {
				out[row*cols+col] = 4
			}
		}
	}
	return out
}

// genRidge is a smooth diagonal ridge with a little noise: nearly every
// sample differs, so almost nothing merges.
func genRidge(cols, rows int, seed uint64) []float32 {
	r := rand.New(rand.NewPCG(seed, seed+1))
	width := float64(cols+rows) / 8

	out := make([]float32, cols*rows)
	for row := range rows {
		for col := range cols {
			d := float64(col-row) / width
			out[row*cols+col] = float32(20*math.Exp(-d*d) + r.Float64()*0.25)
		}
	}
	return out
}

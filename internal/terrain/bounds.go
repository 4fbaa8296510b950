package terrain

import "github.com/go-gl/mathgl/mgl32"

// ComputeBoundsZ returns the elevation range of the logical tile's samples.
// Edge vertices average two logical samples, so this range bounds every vertex.
// Halo samples are deliberately left out of the scan, even though the full
// padded grid is available: they belong to neighboring tiles and would only
// widen the box.
func ComputeBoundsZ(grid *HeightGrid, widthSamples, heightSamples, padding int) (zMin, zMax float32) {
	zMin = grid.At(padding, padding)
	zMax = zMin
	for row := padding; row < padding+heightSamples; row++ {
		for col := padding; col < padding+widthSamples; col++ {
			z := grid.At(col, row)
			if z < zMin {
				zMin = z
			}
			if z > zMax {
				zMax = z
			}
		}
	}
	return zMin, zMax
}

// ComputeBoundingBox returns the box a tile mesh occupies, centered on the
// origin in X and Y.
func ComputeBoundingBox(grid *HeightGrid, tileWidth, tileHeight float32, widthSamples, heightSamples, padding int) Bounds {
	zMin, zMax := ComputeBoundsZ(grid, widthSamples, heightSamples, padding)
	return Bounds{
		Min: mgl32.Vec3{-tileWidth / 2, -tileHeight / 2, zMin},
		Max: mgl32.Vec3{tileWidth / 2, tileHeight / 2, zMax},
	}
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

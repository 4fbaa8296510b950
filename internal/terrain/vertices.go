package terrain

import "github.com/go-gl/mathgl/mgl32"

// positionResolver places every referenced vertex. Samples are cell-centered, so
// interior vertices sit half a segment before their sample while the first and
// last row/column are pinned to the tile edge.
type positionResolver struct {
	grid     *HeightGrid
	vertices *VertexIndexMap
	padding  int

	widthSamples, heightSamples int
	tileWidth, tileHeight       float32
}

// segmentSize returns the world size of one sample step along an axis.
func segmentSize(tileSize float32, samples int) float32 {
	return tileSize / float32(samples-2)
}

func (r *positionResolver) resolve() []mgl32.Vec3 {
	positions := make([]mgl32.Vec3, r.vertices.Len())

	lastX := r.widthSamples - 1
	lastY := r.heightSamples - 1
	segW := segmentSize(r.tileWidth, r.widthSamples)
	segH := segmentSize(r.tileHeight, r.heightSamples)
	halfW := r.tileWidth / 2
	halfH := r.tileHeight / 2

	for iy := 0; iy <= lastY; iy++ {
		y := edgeOffset(iy, lastY)*segH - halfH
		for ix := 0; ix <= lastX; ix++ {
			i, ok := r.vertices.Lookup(ix+r.padding, iy+r.padding)
			if !ok {
				continue
			}
			x := edgeOffset(ix, lastX)*segW - halfW
			positions[i] = mgl32.Vec3{x, -y, r.elevation(ix, iy)}
		}
	}

	return positions
}

// edgeOffset maps a sample index to its vertex offset in segments.
func edgeOffset(i, last int) float32 {
	switch i {
	case 0:
		return 0
	case last:
		return float32(last - 1)
	default:
		return float32(i) - 0.5
	}
}

// elevation returns the vertex height at logical sample (ix, iy). Edge vertices
// average two samples to realign the half-cell shifted vertex grid; each edge
// and corner picks its own pair.
func (r *positionResolver) elevation(ix, iy int) float32 {
	z := r.grid.At
	col := ix + r.padding
	row := iy + r.padding
	lastX := r.widthSamples - 1
	lastY := r.heightSamples - 1

	switch iy {
	case 0:
		switch ix {
		case 0:
			return (z(col+1, row) + z(col, row+1)) / 2
		case lastX:
			return (z(col, row) + z(col-1, row+1)) / 2
		default:
			return (z(col, row) + z(col, row+1)) / 2
		}
	case lastY:
		switch ix {
		case 0:
			return (z(col, row) + z(col+1, row-1)) / 2
		case lastX:
			return (z(col-1, row) + z(col, row-1)) / 2
		default:
			return (z(col, row) + z(col, row-1)) / 2
		}
	default:
		switch ix {
		case 0:
			return (z(col, row) + z(col+1, row)) / 2
		case lastX:
			return (z(col, row) + z(col-1, row)) / 2
		default:
			return z(col, row)
		}
	}
}

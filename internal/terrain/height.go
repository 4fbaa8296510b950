package terrain

import "github.com/go-gl/mathgl/mgl32"

// HeightAt returns the ground height at tile-local world position (x, y),
// bilinearly interpolated between vertex heights. Positions outside the tile
// are clamped to its edge.
func (p *Placeholder) HeightAt(x, y float32) float32 {
	r := positionResolver{
		grid:          p.Grid,
		padding:       p.Padding,
		widthSamples:  p.WidthSamples,
		heightSamples: p.HeightSamples,
		tileWidth:     p.TileWidth,
		tileHeight:    p.TileHeight,
	}

	lastX := p.WidthSamples - 1
	lastY := p.HeightSamples - 1
	u := (x + p.TileWidth/2) / segmentSize(p.TileWidth, p.WidthSamples)
	v := (p.TileHeight/2 - y) / segmentSize(p.TileHeight, p.HeightSamples)

	fx := sampleCoord(u, lastX)
	fy := sampleCoord(v, lastY)

	ix := min(int(fx), lastX-1)
	iy := min(int(fy), lastY-1)
	tx := fx - float32(ix)
	ty := fy - float32(iy)

	top := r.elevation(ix, iy)*(1-tx) + r.elevation(ix+1, iy)*tx
	bottom := r.elevation(ix, iy+1)*(1-tx) + r.elevation(ix+1, iy+1)*tx
	return top*(1-ty) + bottom*ty
}

// sampleCoord inverts edgeOffset: it maps an offset in segments to a
// fractional sample index in [0, last].
func sampleCoord(u float32, last int) float32 {
	u = mgl32.Clamp(u, 0, float32(last-1))
	switch {
	case u <= 0.5:
		return 2 * u
	case u >= float32(last)-1.5:
		return float32(last-1) + 2*(u-(float32(last)-1.5))
	default:
		return u + 0.5
	}
}

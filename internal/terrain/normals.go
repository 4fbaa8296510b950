package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// faceNormal returns the unnormalized normal of triangle (a, b, c), i.e.
// (c-b) x (a-b). Its length is twice the triangle's area.
func faceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return c.Sub(b).Cross(a.Sub(b))
}

// accumulateFaceNormals adds every triangle's face normal to its three corners.
func accumulateFaceNormals(normals, positions []mgl32.Vec3, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		n := faceNormal(positions[a], positions[b], positions[c])
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
}

// ComputeVertexNormals returns area-weighted vertex normals accumulated from the
// triangles alone, without any border correction.
func ComputeVertexNormals(positions []mgl32.Vec3, indices []uint32, normalize bool) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	accumulateFaceNormals(normals, positions, indices)
	if normalize {
		normalizeAll(normals)
	}
	return normals
}

// normalizeAll rescales every normal to unit length. Zero vectors stay zero.
func normalizeAll(normals []mgl32.Vec3) {
	for i, n := range normals {
		if n.Len() == 0 {
			continue
		}
		normals[i] = n.Normalize()
	}
}

// vertexFan is the one-ring of raw samples around a grid coordinate.
// Up is the previous row, which is +Y in mesh space.
type vertexFan struct {
	left, center, right float32
	up, upRight         float32
	downLeft, down      float32
}

// faceNormalFan sums the face normals of the six unit triangles around the
// fan's center, with sw and sh the segment width and height.
func faceNormalFan(f vertexFan, sw, sh float32) mgl32.Vec3 {
	l := mgl32.Vec3{-sw, 0, f.left}
	c := mgl32.Vec3{0, 0, f.center}
	r := mgl32.Vec3{sw, 0, f.right}
	u := mgl32.Vec3{0, sh, f.up}
	ur := mgl32.Vec3{sw, sh, f.upRight}
	dl := mgl32.Vec3{-sw, -sh, f.downLeft}
	d := mgl32.Vec3{0, -sh, f.down}

	n := faceNormal(l, c, u)
	n = n.Add(faceNormal(u, c, ur))
	n = n.Add(faceNormal(c, r, ur))
	n = n.Add(faceNormal(l, dl, c))
	n = n.Add(faceNormal(dl, d, c))
	n = n.Add(faceNormal(c, d, r))
	return n
}

// borderEstimator overwrites the normals of the two outermost vertex rings with
// values computed from raw halo samples, reproducing what an unmerged mesh would
// give there. Every sum is taken in grid order so two tiles sharing an edge
// produce bit-identical normals for it.
type borderEstimator struct {
	grid     *HeightGrid
	vertices *VertexIndexMap
	normals  []mgl32.Vec3
	sw, sh   float32

	// Inner ring in grid coordinates; the outer ring is one step further out.
	startX, startY int
	stopX, stopY   int
}

func newBorderEstimator(grid *HeightGrid, vertices *VertexIndexMap, normals []mgl32.Vec3,
	padding, widthSamples, heightSamples int, tileWidth, tileHeight float32) *borderEstimator {
	return &borderEstimator{
		grid:     grid,
		vertices: vertices,
		normals:  normals,
		sw:       segmentSize(tileWidth, widthSamples),
		sh:       segmentSize(tileHeight, heightSamples),
		startX:   padding + 1,
		startY:   padding + 1,
		stopX:    padding + widthSamples - 2,
		stopY:    padding + heightSamples - 2,
	}
}

func (e *borderEstimator) apply() error {
	outerX0, outerY0 := e.startX-1, e.startY-1
	outerX1, outerY1 := e.stopX+1, e.stopY+1

	corners := []struct{ bx, by, vx, vy int }{
		{outerX0, outerY0, outerX0, outerY0},
		{e.stopX, outerY0, outerX1, outerY0},
		{e.stopX, e.stopY, outerX1, outerY1},
		{outerX0, e.stopY, outerX0, outerY1},
	}
	for _, c := range corners {
		n, err := e.corner(c.bx, c.by)
		if err != nil {
			return err
		}
		if err := e.set(c.vx, c.vy, n); err != nil {
			return err
		}
	}

	for iy := e.startY; iy <= e.stopY; iy++ {
		if err := e.side(e.startX, iy, outerX0, iy); err != nil {
			return err
		}
		if err := e.side(e.stopX, iy, outerX1, iy); err != nil {
			return err
		}
	}
	for ix := e.startX; ix <= e.stopX; ix++ {
		if err := e.side(ix, e.startY, ix, outerY0); err != nil {
			return err
		}
		if err := e.side(ix, e.stopY, ix, outerY1); err != nil {
			return err
		}
	}

	return nil
}

// side sets the inner vertex to its own fan and the outer vertex to the sum of
// both fans, which straddle the tile edge.
func (e *borderEstimator) side(innerX, innerY, outerX, outerY int) error {
	inner, err := e.fan(innerX, innerY)
	if err != nil {
		return err
	}
	outer, err := e.fan(outerX, outerY)
	if err != nil {
		return err
	}

	var edge mgl32.Vec3
	if outerX < innerX || outerY < innerY {
		edge = outer.Add(inner)
	} else {
		edge = inner.Add(outer)
	}

	if err := e.set(innerX, innerY, inner); err != nil {
		return err
	}
	return e.set(outerX, outerY, edge)
}

// corner sums the four fans of the 2x2 block whose top-left sample is (x, y).
func (e *borderEstimator) corner(x, y int) (mgl32.Vec3, error) {
	var fans [4]mgl32.Vec3
	for i, off := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		n, err := e.fan(x+off[0], y+off[1])
		if err != nil {
			return mgl32.Vec3{}, err
		}
		fans[i] = n
	}
	return fans[0].Add(fans[1]).Add(fans[2].Add(fans[3])), nil
}

func (e *borderEstimator) fan(col, row int) (mgl32.Vec3, error) {
	if col < 1 || row < 1 || col+1 >= e.grid.Cols() || row+1 >= e.grid.Rows() {
		return mgl32.Vec3{}, fmt.Errorf("%w: fan at (%d,%d)", ErrOutOfHalo, col, row)
	}

	z := e.grid.At
	f := vertexFan{
		left:     z(col-1, row),
		center:   z(col, row),
		right:    z(col+1, row),
		up:       z(col, row-1),
		upRight:  z(col+1, row-1),
		downLeft: z(col-1, row+1),
		down:     z(col, row+1),
	}
	return faceNormalFan(f, e.sw, e.sh), nil
}

func (e *borderEstimator) set(col, row int, n mgl32.Vec3) error {
	i, ok := e.vertices.Lookup(col, row)
	if !ok {
		return fmt.Errorf("%w: (%d,%d)", ErrUnassignedVertex, col, row)
	}
	e.normals[i] = n
	return nil
}

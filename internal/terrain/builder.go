package terrain

import (
	"fmt"
	"math"
)

// VertexIndexMap assigns dense vertex indices to grid coordinates in the order
// they are first referenced. An index is never reassigned.
type VertexIndexMap struct {
	cols  int
	slots []uint32 // index+1; 0 means unassigned
	next  uint32
}

func newVertexIndexMap(cols, rows int) *VertexIndexMap {
	return &VertexIndexMap{
		cols:  cols,
		slots: make([]uint32, cols*rows),
	}
}

// Lookup returns the vertex index for a grid coordinate (halo included).
func (m *VertexIndexMap) Lookup(col, row int) (uint32, bool) {
	if col < 0 || row < 0 || col >= m.cols {
		return 0, false
	}
	i := row*m.cols + col
	if i >= len(m.slots) || m.slots[i] == 0 {
		return 0, false
	}
	return m.slots[i] - 1, true
}

// Len returns the number of assigned vertices.
func (m *VertexIndexMap) Len() int {
	return int(m.next)
}

// assign returns the index at (col, row), allocating the next one on first use.
func (m *VertexIndexMap) assign(col, row int) (uint32, error) {
	i := row*m.cols + col
	if v := m.slots[i]; v != 0 {
		return v - 1, nil
	}
	if m.next == math.MaxUint32 {
		return 0, ErrIndexOverflow
	}
	m.slots[i] = m.next + 1
	m.next++
	return m.next - 1, nil
}

// skipMap records, per row, the columns already claimed by a taller block that
// started on an earlier row. Entries are consumed when the row scan reaches them.
type skipMap struct {
	rows []map[int]int
}

func newSkipMap(rows int) *skipMap {
	return &skipMap{rows: make([]map[int]int, rows)}
}

func (s *skipMap) claim(row, col, end int) {
	if s.rows[row] == nil {
		s.rows[row] = make(map[int]int)
	}
	if end > s.rows[row][col] {
		s.rows[row][col] = end
	}
}

func (s *skipMap) claimed(row, col int) bool {
	_, ok := s.rows[row][col]
	return ok
}

func (s *skipMap) take(row, col int) (int, bool) {
	end, ok := s.rows[row][col]
	if ok {
		delete(s.rows[row], col)
	}
	return end, ok
}

// meshBuilder scans a height grid and emits merged quads.
// All coordinates are grid coordinates; the logical tile starts at (x, y).
type meshBuilder struct {
	grid   *HeightGrid
	period int

	x, y          int
	width, height int

	vertices *VertexIndexMap
	skip     *skipMap
	indices  []uint32
	blocks   []Block
}

func newMeshBuilder(grid *HeightGrid, widthSamples, heightSamples int, opts Options) *meshBuilder {
	return &meshBuilder{
		grid:     grid,
		period:   opts.ChunkPeriod,
		x:        opts.Padding,
		y:        opts.Padding,
		width:    widthSamples,
		height:   heightSamples,
		vertices: newVertexIndexMap(grid.Cols(), grid.Rows()),
		skip:     newSkipMap(heightSamples),
		indices:  make([]uint32, 0, (widthSamples-1)*(heightSamples-1)*6),
	}
}

// build triangulates the tile row by row.
func (b *meshBuilder) build() error {
	for iy := b.y; iy < b.y+b.height-1; iy++ {
		for ix := b.x; ix < b.x+b.width-1; {
			if end, ok := b.skip.take(iy-b.y, ix); ok {
				ix = end
				continue
			}

			ix2, iy2 := b.grow(ix, iy)
			for iy3 := iy + 1; iy3 < iy2; iy3++ {
				b.skip.claim(iy3-b.y, ix, ix2)
			}

			if err := b.emit(ix, iy, ix2, iy2); err != nil {
				return err
			}
			ix = ix2
		}
	}
	return nil
}

// grow returns the far corner of the largest block that can start at (ix, iy).
// Growth alternates one column then one row until both directions stop.
func (b *meshBuilder) grow(ix, iy int) (int, int) {
	ix2, iy2 := ix+1, iy+1
	if !b.mergeable(ix, iy) {
		return ix2, iy2
	}

	z := b.grid.At(ix, iy)
	stopX, stopY := false, false
	for !stopX || !stopY {
		if !stopX {
			if b.onChunkBoundary(ix2) ||
				b.skip.claimed(iy-b.y, ix2) ||
				!b.columnEquals(ix2+2, iy-1, iy2+2, z) {
				stopX = true
			} else {
				ix2++
				if ix2+2 >= b.x+b.width {
					stopX = true
				}
			}
		}

		if !stopY {
			if b.onChunkBoundary(iy2) || !b.rowEquals(iy2+2, ix-1, ix2+2, z) {
				stopY = true
			} else {
				iy2++
				if iy2+2 >= b.y+b.height {
					stopY = true
				}
			}
		}
	}

	return ix2, iy2
}

// mergeable reports whether the cell at (ix, iy) keeps the required margin from
// every tile edge and its 4x4 neighborhood is uniformly the cell's elevation.
func (b *meshBuilder) mergeable(ix, iy int) bool {
	if ix <= b.x || ix+3 >= b.x+b.width || iy <= b.y || iy+3 >= b.y+b.height {
		return false
	}

	z := b.grid.At(ix, iy)
	for row := iy - 1; row <= iy+2; row++ {
		if !b.rowEquals(row, ix-1, ix+3, z) {
			return false
		}
	}
	return true
}

// onChunkBoundary reports whether a block edge at grid index i would cross the
// chunk period.
func (b *meshBuilder) onChunkBoundary(i int) bool {
	return (i-b.x)%b.period == 0
}

// columnEquals reports whether grid column col holds z for rows [from, to).
func (b *meshBuilder) columnEquals(col, from, to int, z float32) bool {
	for row := from; row < to; row++ {
		if b.grid.At(col, row) != z {
			return false
		}
	}
	return true
}

// rowEquals reports whether grid row row holds z for columns [from, to).
func (b *meshBuilder) rowEquals(row, from, to int, z float32) bool {
	for col := from; col < to; col++ {
		if b.grid.At(col, row) != z {
			return false
		}
	}
	return true
}

// emit writes the two triangles of a quad. Corners: a=top-left, b=bottom-left,
// c=bottom-right, d=top-right.
func (b *meshBuilder) emit(ix, iy, ix2, iy2 int) error {
	var corners [4]uint32
	coords := [4][2]int{{ix, iy}, {ix, iy2}, {ix2, iy2}, {ix2, iy}}
	for i, c := range coords {
		idx, err := b.vertices.assign(c[0], c[1])
		if err != nil {
			return fmt.Errorf("%w: at (%d,%d)", err, c[0], c[1])
		}
		corners[i] = idx
	}

	a, bl, c, d := corners[0], corners[1], corners[2], corners[3]
	b.indices = append(b.indices, a, bl, d, bl, c, d)
	b.blocks = append(b.blocks, Block{
		X0: ix - b.x, Y0: iy - b.y,
		X1: ix2 - b.x, Y1: iy2 - b.y,
	})
	return nil
}

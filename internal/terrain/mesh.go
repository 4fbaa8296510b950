package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BuildMesh builds a tile mesh from a padded height grid.
//
// The grid must extend at least opts.Padding samples beyond the
// widthSamples x heightSamples logical tile on every side. The mesh spans
// tileWidth x tileHeight world units centered on the origin, with +Z up.
func BuildMesh(grid *HeightGrid, tileWidth, tileHeight float32, widthSamples, heightSamples int, opts Options) (*Mesh, error) {
	if err := checkBuild(grid, tileWidth, tileHeight, widthSamples, heightSamples, opts); err != nil {
		return nil, err
	}
	bounds := ComputeBoundingBox(grid, tileWidth, tileHeight, widthSamples, heightSamples, opts.Padding)
	return buildMesh(grid, tileWidth, tileHeight, widthSamples, heightSamples, opts, bounds)
}

// buildMesh runs the build on validated inputs.
func buildMesh(grid *HeightGrid, tileWidth, tileHeight float32, widthSamples, heightSamples int, opts Options, bounds Bounds) (*Mesh, error) {
	b := newMeshBuilder(grid, widthSamples, heightSamples, opts)
	if err := b.build(); err != nil {
		return nil, err
	}

	resolver := positionResolver{
		grid:          grid,
		vertices:      b.vertices,
		padding:       opts.Padding,
		widthSamples:  widthSamples,
		heightSamples: heightSamples,
		tileWidth:     tileWidth,
		tileHeight:    tileHeight,
	}
	positions := resolver.resolve()

	var normals []mgl32.Vec3
	if opts.ComputeNormalsInline {
		normals = make([]mgl32.Vec3, len(positions))
		accumulateFaceNormals(normals, positions, b.indices)

		border := newBorderEstimator(grid, b.vertices, normals, opts.Padding,
			widthSamples, heightSamples, tileWidth, tileHeight)
		if err := border.apply(); err != nil {
			return nil, err
		}
		if opts.NormalizeNormals {
			normalizeAll(normals)
		}
	} else {
		normals = ComputeVertexNormals(positions, b.indices, opts.NormalizeNormals)
	}

	return &Mesh{
		Indices:       b.indices,
		Positions:     positions,
		Normals:       normals,
		Bounds:        bounds,
		Blocks:        b.blocks,
		WidthSamples:  widthSamples,
		HeightSamples: heightSamples,
		padding:       opts.Padding,
		vertices:      b.vertices,
	}, nil
}

// checkBuild validates every build precondition up front so the build itself
// never reads outside the grid.
func checkBuild(grid *HeightGrid, tileWidth, tileHeight float32, widthSamples, heightSamples int, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if !positiveFinite(tileWidth) || !positiveFinite(tileHeight) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidTileSize, tileWidth, tileHeight)
	}
	if widthSamples < MinSamples || heightSamples < MinSamples {
		return fmt.Errorf("%w: %dx%d samples, need at least %d", ErrInvalidTileSize, widthSamples, heightSamples, MinSamples)
	}
	if grid == nil {
		return fmt.Errorf("%w: nil grid", ErrGridTooSmall)
	}

	wantCols := widthSamples + 2*opts.Padding
	wantRows := heightSamples + 2*opts.Padding
	if grid.Cols() < wantCols || grid.Rows() < wantRows {
		return fmt.Errorf("%w: %dx%d, need %dx%d", ErrGridTooSmall, grid.Cols(), grid.Rows(), wantCols, wantRows)
	}

	return grid.CheckFinite()
}

// Validate reports options the builder cannot run with.
func (o Options) Validate() error {
	if o.Padding < 1 {
		return fmt.Errorf("%w: padding %d, need at least 1", ErrInvalidOptions, o.Padding)
	}
	if o.ChunkPeriod < 1 {
		return fmt.Errorf("%w: chunk period %d", ErrInvalidOptions, o.ChunkPeriod)
	}
	return nil
}

func positiveFinite(v float32) bool {
	return v > 0 && !math.IsInf(float64(v), 0)
}

// VertexAt returns the vertex index of logical sample (col, row), if any
// triangle references it.
func (m *Mesh) VertexAt(col, row int) (uint32, bool) {
	if m.vertices == nil || col < 0 || row < 0 || col >= m.WidthSamples || row >= m.HeightSamples {
		return 0, false
	}
	return m.vertices.Lookup(col+m.padding, row+m.padding)
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// NormalizeNormals rescales every normal to unit length in place.
// Calling it more than once has no further effect.
func (m *Mesh) NormalizeNormals() {
	normalizeAll(m.Normals)
}

// PositionBuffer returns positions flattened to x,y,z triples.
func (m *Mesh) PositionBuffer() []float32 {
	return flatten(m.Positions)
}

// NormalBuffer returns normals flattened to x,y,z triples.
func (m *Mesh) NormalBuffer() []float32 {
	return flatten(m.Normals)
}

func flatten(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// Stats summarizes the mesh.
func (m *Mesh) Stats() Stats {
	s := Stats{
		Vertices:  len(m.Positions),
		Triangles: m.TriangleCount(),
		Blocks:    len(m.Blocks),
		Cells:     (m.WidthSamples - 1) * (m.HeightSamples - 1),
	}
	for _, b := range m.Blocks {
		if b.Merged() {
			s.MergedBlocks++
		}
	}
	if s.Cells > 0 {
		s.Reduction = 1 - float64(s.Triangles)/float64(2*s.Cells)
	}
	return s
}

// Package terrain builds simplified triangle meshes from padded height grids.
//
// Runs of identical elevation are merged into single quads, vertex elevations are
// shifted onto the half-cell vertex grid, and normals on the outer ring of the tile
// are recomputed from raw halo samples so adjacent tiles shade without seams.
package terrain

import "github.com/go-gl/mathgl/mgl32"

// Default build parameters.
const (
	DefaultPadding     = 2
	DefaultChunkPeriod = 50

	// MinSamples is the smallest tile edge (in samples) that can be triangulated.
	MinSamples = 3
)

// Options controls a mesh build.
type Options struct {
	Padding              int  // Halo width around the logical tile, in samples
	ChunkPeriod          int  // Merged blocks never cross a multiple of this (offset by Padding)
	ComputeNormalsInline bool // Border-aware normals; false falls back to ComputeVertexNormals
	NormalizeNormals     bool // Rescale normals to unit length before returning
}

// DefaultOptions returns the reference build settings.
func DefaultOptions() Options {
	return Options{
		Padding:              DefaultPadding,
		ChunkPeriod:          DefaultChunkPeriod,
		ComputeNormalsInline: true,
		NormalizeNormals:     true,
	}
}

// Block is one emitted quad, in logical sample coordinates.
// It covers cells [X0,X1) x [Y0,Y1); its corner vertices are (X0,Y0) and (X1,Y1).
type Block struct {
	X0, Y0 int
	X1, Y1 int
}

// Cells returns the number of grid cells the block covers.
func (b Block) Cells() int {
	return (b.X1 - b.X0) * (b.Y1 - b.Y0)
}

// Merged reports whether the block spans more than one cell.
func (b Block) Merged() bool {
	return b.Cells() > 1
}

// Contains reports whether the cell at (col, row) lies inside the block.
func (b Block) Contains(col, row int) bool {
	return col >= b.X0 && col < b.X1 && row >= b.Y0 && row < b.Y1
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Mesh holds a built tile mesh ready for upload by a rendering adapter.
// Positions and Normals are parallel arrays indexed by vertex index.
type Mesh struct {
	Indices   []uint32
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Bounds    Bounds
	Blocks    []Block

	WidthSamples  int
	HeightSamples int

	padding  int
	vertices *VertexIndexMap
}

// Stats summarizes a mesh build.
type Stats struct {
	Vertices     int
	Triangles    int
	Blocks       int
	MergedBlocks int
	Cells        int     // Cells in the logical tile
	Reduction    float64 // Triangles saved relative to one quad per cell, in [0,1)
}

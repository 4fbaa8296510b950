package terrain

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Placeholder describes a tile whose real mesh has not been built yet. It carries
// everything BuildMesh needs plus the bounding box, computed once up front.
type Placeholder struct {
	TileWidth     float32
	TileHeight    float32
	WidthSamples  int
	HeightSamples int
	Padding       int
	Grid          *HeightGrid
	Bounds        Bounds
}

// NewPlaceholder validates the tile parameters and computes its bounds.
func NewPlaceholder(grid *HeightGrid, tileWidth, tileHeight float32, widthSamples, heightSamples int, opts Options) (*Placeholder, error) {
	if err := checkBuild(grid, tileWidth, tileHeight, widthSamples, heightSamples, opts); err != nil {
		return nil, err
	}
	return &Placeholder{
		TileWidth:     tileWidth,
		TileHeight:    tileHeight,
		WidthSamples:  widthSamples,
		HeightSamples: heightSamples,
		Padding:       opts.Padding,
		Grid:          grid,
		Bounds:        ComputeBoundingBox(grid, tileWidth, tileHeight, widthSamples, heightSamples, opts.Padding),
	}, nil
}

// Mesh returns the stand-in geometry: a single flat quad at z=0 covering the
// tile, carrying the real tile's bounds.
func (p *Placeholder) Mesh() *Mesh {
	hw, hh := p.TileWidth/2, p.TileHeight/2
	up := mgl32.Vec3{0, 0, 1}
	return &Mesh{
		Indices: []uint32{0, 2, 1, 2, 3, 1},
		Positions: []mgl32.Vec3{
			{-hw, hh, 0},
			{hw, hh, 0},
			{-hw, -hh, 0},
			{hw, -hh, 0},
		},
		Normals: []mgl32.Vec3{up, up, up, up},
		Bounds:  p.Bounds,
		Blocks:  []Block{{X0: 0, Y0: 0, X1: p.WidthSamples - 1, Y1: p.HeightSamples - 1}},

		WidthSamples:  p.WidthSamples,
		HeightSamples: p.HeightSamples,
	}
}

// Build runs the full mesh build, reusing the precomputed bounds. The halo
// width must match the one the placeholder was created with.
func (p *Placeholder) Build(opts Options) (*Mesh, error) {
	if opts.Padding != p.Padding {
		return nil, fmt.Errorf("%w: padding %d, placeholder has %d", ErrInvalidOptions, opts.Padding, p.Padding)
	}
	if err := checkBuild(p.Grid, p.TileWidth, p.TileHeight, p.WidthSamples, p.HeightSamples, opts); err != nil {
		return nil, err
	}
	return buildMesh(p.Grid, p.TileWidth, p.TileHeight, p.WidthSamples, p.HeightSamples, opts, p.Bounds)
}

// Tile holds a renderable mesh that starts as a placeholder and is replaced by
// the real mesh at most once. A failed build leaves the placeholder in place.
type Tile struct {
	mu          sync.RWMutex
	buildMu     sync.Mutex // serializes Resolve so the build runs once
	placeholder *Placeholder
	stand       *Mesh
	mesh        *Mesh
	builds      int
}

// NewTile creates a tile showing the placeholder's quad.
func NewTile(p *Placeholder) *Tile {
	return &Tile{
		placeholder: p,
		stand:       p.Mesh(),
	}
}

// Placeholder returns the tile's build descriptor.
func (t *Tile) Placeholder() *Placeholder {
	return t.placeholder
}

// Mesh returns the current renderable mesh.
func (t *Tile) Mesh() *Mesh {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.mesh != nil {
		return t.mesh
	}
	return t.stand
}

// IsPlaceholder reports whether the real mesh has not been swapped in yet.
func (t *Tile) IsPlaceholder() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mesh == nil
}

// Resolve builds the real mesh and swaps it in. Concurrent callers wait for
// the first build; once resolved, further calls return nil without rebuilding.
func (t *Tile) Resolve(opts Options) error {
	t.buildMu.Lock()
	defer t.buildMu.Unlock()

	if !t.IsPlaceholder() {
		return nil
	}

	mesh, err := t.placeholder.Build(opts)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.mesh = mesh
	t.builds++
	t.mu.Unlock()
	return nil
}

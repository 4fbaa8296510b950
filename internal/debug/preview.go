// Package debug renders inspection images of built meshes.
package debug

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/zmapmesh/internal/terrain"
)

// DefaultLight is a light from the upper left, above the tile.
var DefaultLight = mgl32.Vec3{-1, 1, 2}

// Ambient is the shade of a surface facing away from the light.
const Ambient = 0.2

// ShadedRelief renders one grey pixel per logical sample, lit from light with
// a Lambert term. Samples inside merged blocks have no vertex; they lie on a
// flat face and shade as +Z.
func ShadedRelief(m *terrain.Mesh, light mgl32.Vec3) *image.Gray {
	if light.Len() == 0 {
		light = DefaultLight
	}
	light = light.Normalize()
	up := mgl32.Vec3{0, 0, 1}

	img := image.NewGray(image.Rect(0, 0, m.WidthSamples, m.HeightSamples))
	for row := 0; row < m.HeightSamples; row++ {
		for col := 0; col < m.WidthSamples; col++ {
			n := up
			if i, ok := m.VertexAt(col, row); ok && m.Normals[i].Len() > 0 {
				n = m.Normals[i].Normalize()
			}
			img.SetGray(col, row, color.Gray{Y: shade(n, light)})
		}
	}
	return img
}

func shade(n, light mgl32.Vec3) uint8 {
	lambert := n.Dot(light)
	if lambert < 0 {
		lambert = 0
	}
	v := Ambient + (1-Ambient)*lambert
	return uint8(mgl32.Clamp(v, 0, 1)*254 + 0.5)
}

// Overlay colors.
var (
	UnmergedColor = color.RGBA{R: 96, G: 96, B: 96, A: 255}
	BlockPalette  = []color.RGBA{
		{R: 230, G: 97, B: 1, A: 255},
		{R: 94, G: 60, B: 153, A: 255},
		{R: 26, G: 152, B: 80, A: 255},
		{R: 33, G: 102, B: 172, A: 255},
	}
)

// BlockOverlay renders one pixel per grid cell. Cells covered by a merged
// block share that block's color; palette colors alternate between blocks.
func BlockOverlay(m *terrain.Mesh) *image.RGBA {
	w, h := m.WidthSamples-1, m.HeightSamples-1
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, UnmergedColor)
		}
	}

	merged := 0
	for _, b := range m.Blocks {
		if !b.Merged() {
			continue
		}
		c := BlockPalette[merged%len(BlockPalette)]
		merged++
		for y := b.Y0; y < b.Y1; y++ {
			for x := b.X0; x < b.X1; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

// Package formats provides readers and writers for height grid and mesh files.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// ZMAP format errors.
var (
	ErrInvalidZMapMagic       = errors.New("invalid ZMAP magic: expected 'ZMAP'")
	ErrUnsupportedZMapVersion = errors.New("unsupported ZMAP version")
	ErrTruncatedZMapData      = errors.New("truncated ZMAP data")
	ErrInvalidZMapHeader      = errors.New("invalid ZMAP header")
)

// ZMAP limits.
const (
	ZMapMinSamples = 3
	ZMapMaxSamples = 4096
	ZMapMaxPadding = 64

	zmapMagic      = "ZMAP"
	zmapHeaderSize = 4 + 2 + 5*4
)

// ZMapVersion represents the ZMAP file version.
type ZMapVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v ZMapVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ZMapCurrentVersion is the version written by Encode.
var ZMapCurrentVersion = ZMapVersion{Major: 1, Minor: 0}

// ZMap is a tile height grid with its halo and world-space size.
//
// Layout (little endian):
//
//	"ZMAP" minor major
//	uint32 widthSamples, heightSamples, padding
//	float32 tileWidth, tileHeight
//	float32 samples[(heightSamples+2*padding) * (widthSamples+2*padding)]
//
// Samples are row-major; row 0 is the top halo row.
type ZMap struct {
	Version       ZMapVersion
	WidthSamples  uint32
	HeightSamples uint32
	Padding       uint32
	TileWidth     float32
	TileHeight    float32
	Samples       []float32
}

// NewZMap creates a current-version ZMap. samples must cover the tile and
// its halo.
func NewZMap(widthSamples, heightSamples, padding int, tileWidth, tileHeight float32, samples []float32) (*ZMap, error) {
	z := &ZMap{
		Version:       ZMapCurrentVersion,
		WidthSamples:  uint32(widthSamples),
		HeightSamples: uint32(heightSamples),
		Padding:       uint32(padding),
		TileWidth:     tileWidth,
		TileHeight:    tileHeight,
		Samples:       samples,
	}
	if widthSamples < 0 || heightSamples < 0 || padding < 0 {
		return nil, fmt.Errorf("%w: negative dimension", ErrInvalidZMapHeader)
	}
	if err := z.validate(); err != nil {
		return nil, err
	}
	if len(samples) != z.SampleCount() {
		return nil, fmt.Errorf("%w: %d samples, need %d", ErrInvalidZMapHeader, len(samples), z.SampleCount())
	}
	return z, nil
}

// GridSize returns the sample grid dimensions including the halo.
func (z *ZMap) GridSize() (cols, rows int) {
	p := int(z.Padding)
	return int(z.WidthSamples) + 2*p, int(z.HeightSamples) + 2*p
}

// SampleCount returns the number of samples in the grid.
func (z *ZMap) SampleCount() int {
	cols, rows := z.GridSize()
	return cols * rows
}

// Rows returns the samples as one slice per grid row. The rows alias Samples.
func (z *ZMap) Rows() [][]float32 {
	cols, rows := z.GridSize()
	out := make([][]float32, rows)
	for r := range out {
		out[r] = z.Samples[r*cols : (r+1)*cols : (r+1)*cols]
	}
	return out
}

// HeightRange returns the minimum and maximum sample inside the tile,
// ignoring the halo.
func (z *ZMap) HeightRange() (min, max float32) {
	cols, _ := z.GridSize()
	p := int(z.Padding)

	min = float32(math.Inf(1))
	max = float32(math.Inf(-1))
	for row := p; row < p+int(z.HeightSamples); row++ {
		for col := p; col < p+int(z.WidthSamples); col++ {
			v := z.Samples[row*cols+col]
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

func (z *ZMap) validate() error {
	if z.WidthSamples < ZMapMinSamples || z.HeightSamples < ZMapMinSamples ||
		z.WidthSamples > ZMapMaxSamples || z.HeightSamples > ZMapMaxSamples {
		return fmt.Errorf("%w: %dx%d samples", ErrInvalidZMapHeader, z.WidthSamples, z.HeightSamples)
	}
	if z.Padding < 1 || z.Padding > ZMapMaxPadding {
		return fmt.Errorf("%w: padding %d", ErrInvalidZMapHeader, z.Padding)
	}
	if !(z.TileWidth > 0) || !(z.TileHeight > 0) ||
		math.IsInf(float64(z.TileWidth), 0) || math.IsInf(float64(z.TileHeight), 0) {
		return fmt.Errorf("%w: tile size %vx%v", ErrInvalidZMapHeader, z.TileWidth, z.TileHeight)
	}
	return nil
}

// ParseZMap parses a ZMAP file from raw bytes.
func ParseZMap(data []byte) (*ZMap, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedZMapData
	}

	if string(data[0:4]) != zmapMagic {
		return nil, ErrInvalidZMapMagic
	}

	// Version is stored as [minor, major]
	version := ZMapVersion{
		Major: data[5],
		Minor: data[4],
	}
	if version.Major != ZMapCurrentVersion.Major {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedZMapVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var header struct {
		WidthSamples  uint32
		HeightSamples uint32
		Padding       uint32
		TileWidth     float32
		TileHeight    float32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedZMapData)
	}

	z := &ZMap{
		Version:       version,
		WidthSamples:  header.WidthSamples,
		HeightSamples: header.HeightSamples,
		Padding:       header.Padding,
		TileWidth:     header.TileWidth,
		TileHeight:    header.TileHeight,
	}
	if err := z.validate(); err != nil {
		return nil, err
	}

	count := z.SampleCount()
	if r.Len() < count*4 {
		return nil, fmt.Errorf("%w: %d bytes of samples, need %d", ErrTruncatedZMapData, r.Len(), count*4)
	}
	z.Samples = make([]float32, count)
	if err := binary.Read(r, binary.LittleEndian, z.Samples); err != nil {
		return nil, fmt.Errorf("%w: reading samples", ErrTruncatedZMapData)
	}

	return z, nil
}

// ParseZMapFile parses a ZMAP file from disk.
func ParseZMapFile(path string) (*ZMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ZMAP file: %w", err)
	}
	return ParseZMap(data)
}

// Encode serializes the grid in the current format version.
func (z *ZMap) Encode() ([]byte, error) {
	if err := z.validate(); err != nil {
		return nil, err
	}
	if len(z.Samples) != z.SampleCount() {
		return nil, fmt.Errorf("%w: %d samples, need %d", ErrInvalidZMapHeader, len(z.Samples), z.SampleCount())
	}

	buf := bytes.NewBuffer(make([]byte, 0, zmapHeaderSize+4*len(z.Samples)))
	buf.WriteString(zmapMagic)
	buf.WriteByte(ZMapCurrentVersion.Minor)
	buf.WriteByte(ZMapCurrentVersion.Major)

	fields := []any{z.WidthSamples, z.HeightSamples, z.Padding, z.TileWidth, z.TileHeight, z.Samples}
	for _, f := range fields {
		if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the grid and writes it to path.
func (z *ZMap) WriteFile(path string) error {
	data, err := z.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

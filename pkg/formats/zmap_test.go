package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"
)

// createTestZMap builds a valid ZMAP whose samples equal their index.
func createTestZMap(width, height, padding uint32) []byte {
	buf := new(bytes.Buffer)

	buf.WriteString("ZMAP")
	buf.WriteByte(0) // minor
	buf.WriteByte(1) // major

	binary.Write(buf, binary.LittleEndian, width)
	binary.Write(buf, binary.LittleEndian, height)
	binary.Write(buf, binary.LittleEndian, padding)
	binary.Write(buf, binary.LittleEndian, float32(64))
	binary.Write(buf, binary.LittleEndian, float32(32))

	count := int((width + 2*padding) * (height + 2*padding))
	for i := 0; i < count; i++ {
		binary.Write(buf, binary.LittleEndian, float32(i))
	}
	return buf.Bytes()
}

func TestParseZMap_ValidFile(t *testing.T) {
	z, err := ParseZMap(createTestZMap(4, 3, 2))
	if err != nil {
		t.Fatalf("ParseZMap failed: %v", err)
	}

	if z.Version != ZMapCurrentVersion {
		t.Errorf("expected version 1.0, got %s", z.Version)
	}
	if z.WidthSamples != 4 || z.HeightSamples != 3 || z.Padding != 2 {
		t.Errorf("got %dx%d padding %d", z.WidthSamples, z.HeightSamples, z.Padding)
	}
	if z.TileWidth != 64 || z.TileHeight != 32 {
		t.Errorf("got tile size %vx%v", z.TileWidth, z.TileHeight)
	}

	cols, rows := z.GridSize()
	if cols != 8 || rows != 7 {
		t.Errorf("GridSize() = %dx%d, want 8x7", cols, rows)
	}
	if len(z.Samples) != 56 {
		t.Fatalf("expected 56 samples, got %d", len(z.Samples))
	}

	grid := z.Rows()
	if len(grid) != 7 || len(grid[0]) != 8 {
		t.Fatalf("Rows() shape %dx%d", len(grid), len(grid[0]))
	}
	if grid[3][5] != 29 {
		t.Errorf("Rows()[3][5] = %v, want 29", grid[3][5])
	}
}

func TestParseZMap_HeightRange(t *testing.T) {
	z, err := ParseZMap(createTestZMap(4, 3, 2))
	if err != nil {
		t.Fatalf("ParseZMap failed: %v", err)
	}

	// Tile spans rows 2..4, cols 2..5 of an 8-wide grid.
	min, max := z.HeightRange()
	if min != 18 || max != 37 {
		t.Errorf("HeightRange() = (%v,%v), want (18,37)", min, max)
	}
}

func TestParseZMap_InvalidMagic(t *testing.T) {
	data := createTestZMap(4, 4, 1)
	copy(data, "XXXX")

	if _, err := ParseZMap(data); !errors.Is(err, ErrInvalidZMapMagic) {
		t.Errorf("expected ErrInvalidZMapMagic, got %v", err)
	}
}

func TestParseZMap_UnsupportedVersion(t *testing.T) {
	data := createTestZMap(4, 4, 1)
	data[5] = 2

	if _, err := ParseZMap(data); !errors.Is(err, ErrUnsupportedZMapVersion) {
		t.Errorf("expected ErrUnsupportedZMapVersion, got %v", err)
	}
}

func TestParseZMap_Truncated(t *testing.T) {
	data := createTestZMap(4, 4, 1)

	tests := []struct {
		name string
		size int
	}{
		{"empty", 0},
		{"magic only", 4},
		{"partial header", 12},
		{"missing samples", len(data) - 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseZMap(data[:tt.size]); !errors.Is(err, ErrTruncatedZMapData) {
				t.Errorf("expected ErrTruncatedZMapData, got %v", err)
			}
		})
	}
}

func TestParseZMap_InvalidHeader(t *testing.T) {
	tests := []struct {
		name                   string
		width, height, padding uint32
	}{
		{"too narrow", 2, 4, 1},
		{"too tall", 4, ZMapMaxSamples + 1, 1},
		{"no halo", 4, 4, 0},
		{"huge halo", 4, 4, ZMapMaxPadding + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			buf.WriteString("ZMAP")
			buf.Write([]byte{0, 1})
			binary.Write(buf, binary.LittleEndian, []uint32{tt.width, tt.height, tt.padding})
			binary.Write(buf, binary.LittleEndian, []float32{10, 10})

			if _, err := ParseZMap(buf.Bytes()); !errors.Is(err, ErrInvalidZMapHeader) {
				t.Errorf("expected ErrInvalidZMapHeader, got %v", err)
			}
		})
	}
}

func TestZMap_EncodeParse(t *testing.T) {
	samples := make([]float32, 7*6)
	for i := range samples {
		samples[i] = float32(i%5) * 0.25
	}
	z, err := NewZMap(5, 4, 1, 40, 30, samples)
	if err != nil {
		t.Fatalf("NewZMap failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tile.zmap")
	if err := z.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ParseZMapFile(path)
	if err != nil {
		t.Fatalf("ParseZMapFile failed: %v", err)
	}
	if got.WidthSamples != 5 || got.HeightSamples != 4 || got.Padding != 1 {
		t.Errorf("header = %+v", got)
	}
	for i := range samples {
		if got.Samples[i] != samples[i] {
			t.Fatalf("sample %d = %v, want %v", i, got.Samples[i], samples[i])
		}
	}
}

func TestNewZMap_SampleCountMismatch(t *testing.T) {
	if _, err := NewZMap(4, 4, 1, 10, 10, make([]float32, 10)); !errors.Is(err, ErrInvalidZMapHeader) {
		t.Errorf("expected ErrInvalidZMapHeader, got %v", err)
	}
	if _, err := NewZMap(4, 4, 1, 0, 10, make([]float32, 36)); !errors.Is(err, ErrInvalidZMapHeader) {
		t.Errorf("expected ErrInvalidZMapHeader for zero width, got %v", err)
	}
}

func TestParseZMapFile_Missing(t *testing.T) {
	if _, err := ParseZMapFile("/nonexistent/tile.zmap"); err == nil {
		t.Error("expected error for missing file")
	}
}

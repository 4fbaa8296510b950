package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidMesh is returned when mesh buffers cannot describe a triangle list.
var ErrInvalidMesh = errors.New("invalid mesh")

// WriteOBJ writes a triangle mesh as Wavefront OBJ text. normals may be empty;
// otherwise it must match positions one to one. Indices are written 1-based.
func WriteOBJ(w io.Writer, positions, normals []mgl32.Vec3, indices []uint32) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a triangle list", ErrInvalidMesh, len(indices))
	}
	if len(normals) != 0 && len(normals) != len(positions) {
		return fmt.Errorf("%w: %d normals for %d positions", ErrInvalidMesh, len(normals), len(positions))
	}
	for i, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("%w: index %d at %d out of range", ErrInvalidMesh, idx, i)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d triangles\n", len(positions), len(indices)/3)

	for _, p := range positions {
		writeVec(bw, "v", p)
	}
	for _, n := range normals {
		writeVec(bw, "vn", n)
	}

	for i := 0; i < len(indices); i += 3 {
		a, b, c := indices[i]+1, indices[i+1]+1, indices[i+2]+1
		if len(normals) > 0 {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}

	return bw.Flush()
}

func writeVec(w *bufio.Writer, tag string, v mgl32.Vec3) {
	w.WriteString(tag)
	for _, c := range v {
		w.WriteByte(' ')
		w.WriteString(strconv.FormatFloat(float64(c), 'g', -1, 32))
	}
	w.WriteByte('\n')
}

package terrain

import "errors"

// Build precondition errors. A build that returns one of these produces no mesh.
var (
	ErrInvalidTileSize  = errors.New("invalid tile size")
	ErrInvalidOptions   = errors.New("invalid build options")
	ErrGridTooSmall     = errors.New("height grid smaller than tile plus halo")
	ErrRaggedGrid       = errors.New("height grid rows have different lengths")
	ErrNonFiniteSample  = errors.New("non-finite elevation sample")
	ErrOutOfHalo        = errors.New("sample outside height grid halo")
	ErrUnassignedVertex = errors.New("border vertex has no index")
	ErrIndexOverflow    = errors.New("vertex index overflow")
)

package db

import (
	"encoding/binary"
	"fmt"
	"math"
)

// VectorToBlob encodes a float32 vector as the little-endian byte string
// stored in hash vector fields and passed to FT.SEARCH KNN params.
func VectorToBlob(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// BlobToVector decodes a stored vector blob back into float32 values.
func BlobToVector(data string) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32([]byte(data[i*4 : i*4+4])))
	}
	return vec, nil
}

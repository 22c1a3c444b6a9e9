package rangeproof

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"github.com/bwesterb/go-ristretto"
	"golang.org/x/xerrors"
)

func uint64ToScalar(i uint64) *ristretto.Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:], i)
	var s ristretto.Scalar
	return s.SetBytes(&buf)
}

func zeroScalar() *ristretto.Scalar {
	var s ristretto.Scalar
	return s.SetZero()
}

func oneScalar() *ristretto.Scalar {
	var s ristretto.Scalar
	return s.SetOne()
}

func cloneScalar(s *ristretto.Scalar) *ristretto.Scalar {
	var zero ristretto.Scalar
	zero.SetZero()
	return zero.Add(&zero, s)
}

func isZeroScalar(s *ristretto.Scalar) bool {
	return s.Equals(zeroScalar())
}

func identityPoint() *ristretto.Point {
	var p ristretto.Point
	return p.SetZero()
}

// ScalarFromBytes decodes a canonical 32-byte little-endian scalar.
func ScalarFromBytes(buf []byte) (*ristretto.Scalar, error) {
	if len(buf) != 32 {
		return nil, xerrors.Errorf("scalar length %d: %w", len(buf), ErrProofMalformed)
	}
	var buf32 [32]byte
	copy(buf32[:], buf)
	var s ristretto.Scalar
	s.SetBytes(&buf32)
	if !bytes.Equal(s.Bytes(), buf) {
		return nil, xerrors.Errorf("non-canonical scalar: %w", ErrProofMalformed)
	}
	return &s, nil
}

// PointFromBytes decodes a canonical 32-byte ristretto encoding.
func PointFromBytes(buf []byte) (*ristretto.Point, error) {
	if len(buf) != 32 {
		return nil, xerrors.Errorf("point length %d: %w", len(buf), ErrProofMalformed)
	}
	var buf32 [32]byte
	copy(buf32[:], buf)
	var p ristretto.Point
	if !p.SetBytes(&buf32) {
		return nil, xerrors.Errorf("invalid point encoding: %w", ErrProofMalformed)
	}
	return &p, nil
}

func multiscalarMul(scalars []*ristretto.Scalar, points []*ristretto.Point) *ristretto.Point {
	var p ristretto.Point
	p.SetZero()
	for i := range scalars {
		var t ristretto.Point
		t.ScalarMult(points[i], scalars[i])
		p.Add(&p, &t)
	}
	return &p
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount64(uint64(n)) == 1
}

func log2(n int) int {
	return bits.TrailingZeros64(uint64(n))
}

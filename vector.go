package rangeproof

import (
	"github.com/bwesterb/go-ristretto"
	"golang.org/x/xerrors"
)

func checkLengths(op string, a, b int) error {
	if a != b {
		return xerrors.Errorf("%s lengths of vectors do not match %d, %d: %w", op, a, b, ErrLengthMismatch)
	}
	return nil
}

// Hadamard returns the element-wise product a∘b.
func Hadamard(a, b []*ristretto.Scalar) ([]*ristretto.Scalar, error) {
	if err := checkLengths("Hadamard", len(a), len(b)); err != nil {
		return nil, err
	}
	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Mul(a[i], b[i])
	}
	return out, nil
}

// InnerProduct returns <a, b>.
func InnerProduct(a, b []*ristretto.Scalar) (*ristretto.Scalar, error) {
	if err := checkLengths("InnerProduct", len(a), len(b)); err != nil {
		return nil, err
	}
	return innerProduct(a, b), nil
}

// innerProduct assumes len(a) == len(b).
func innerProduct(a, b []*ristretto.Scalar) *ristretto.Scalar {
	var sum ristretto.Scalar
	sum.SetZero()
	for i := range a {
		var r ristretto.Scalar
		sum.Add(&sum, r.Mul(a[i], b[i]))
	}
	return &sum
}

func AddVec(a, b []*ristretto.Scalar) ([]*ristretto.Scalar, error) {
	if err := checkLengths("AddVec", len(a), len(b)); err != nil {
		return nil, err
	}
	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Add(a[i], b[i])
	}
	return out, nil
}

func SubVec(a, b []*ristretto.Scalar) ([]*ristretto.Scalar, error) {
	if err := checkLengths("SubVec", len(a), len(b)); err != nil {
		return nil, err
	}
	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Sub(a[i], b[i])
	}
	return out, nil
}

// ScalarMulVec returns k·a.
func ScalarMulVec(k *ristretto.Scalar, a []*ristretto.Scalar) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Mul(k, a[i])
	}
	return out
}

// AddScalar returns a + k·1^n.
func AddScalar(a []*ristretto.Scalar, k *ristretto.Scalar) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Add(a[i], k)
	}
	return out
}

func Ones(n int) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, n)
	for i := range out {
		out[i] = oneScalar()
	}
	return out
}

// Twos returns 1, 2, 4, ..., 2^(n-1).
func Twos(n int) []*ristretto.Scalar {
	var two ristretto.Scalar
	two.Add(oneScalar(), oneScalar())
	return YPows(&two, n)
}

// YPows returns 1, y, y^2, ..., y^(n-1).
func YPows(y *ristretto.Scalar, n int) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, n)
	exp := NewScalarExp(y)
	for i := range out {
		out[i] = exp.Next()
	}
	return out
}

// EncodeBits returns the n low bits of v, least significant first. Bits of v
// above n are dropped; callers must ensure v < 2^n.
func EncodeBits(v uint64, n int) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, n)
	for i := range out {
		if i < 64 && (v>>uint(i))&1 == 1 {
			out[i] = oneScalar()
		} else {
			out[i] = zeroScalar()
		}
	}
	return out
}

// SubOne returns aL - 1^n.
func SubOne(aL []*ristretto.Scalar) []*ristretto.Scalar {
	var minusOne ristretto.Scalar
	minusOne.Neg(oneScalar())
	return AddScalar(aL, &minusOne)
}

// RandomScalars samples n scalars from crypto/rand.
func RandomScalars(n int) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, n)
	for i := range out {
		var r ristretto.Scalar
		out[i] = r.Rand()
	}
	return out
}

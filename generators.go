package rangeproof

import (
	"fmt"
	"strconv"

	"github.com/bwesterb/go-ristretto"
	"github.com/dchest/blake2b"
	"golang.org/x/crypto/sha3"
	"golang.org/x/xerrors"
)

const (
	BULLETPROOF_GENERATORS_DOMAIN_TAG = "BULLETPROOF_GENERATORS_RISTRETTO255"

	DefaultGeneratorsLabel = "rangeproof-go"
	MaxBitsize             = 64
	MaxAggregation         = 64
)

type PedersenGens struct {
	B         *ristretto.Point
	BBlinding *ristretto.Point
}

func DefaultPedersenGens() *PedersenGens {
	var base ristretto.Point
	base.SetBase()

	h := sha3.New512()
	h.Write(base.Bytes())

	return &PedersenGens{
		B:         &base,
		BBlinding: pointFromUniformBytes(h.Sum(nil)),
	}
}

// Commit returns value·B + blinding·BBlinding.
func (pg *PedersenGens) Commit(value, blinding *ristretto.Scalar) *ristretto.Point {
	return multiscalarMul([]*ristretto.Scalar{value, blinding}, []*ristretto.Point{pg.B, pg.BBlinding})
}

// BulletproofGens holds the G and H vectors for one (label, n) pair. It is
// never mutated after construction and may be shared between goroutines.
type BulletproofGens struct {
	Label string
	N     int
	G     []*ristretto.Point
	H     []*ristretto.Point
}

func NewBulletproofGens(label string, n int) (*BulletproofGens, error) {
	if !isPowerOfTwo(n) {
		return nil, xerrors.Errorf("NewBulletproofGens n %d: %w", n, ErrInvalidSize)
	}
	return &BulletproofGens{
		Label: label,
		N:     n,
		G:     DeriveGenerators(label+"/G", n),
		H:     DeriveGenerators(label+"/H", n),
	}, nil
}

// BulletproofGensShare is the part of the generators used by one party of
// an aggregated proof.
type BulletproofGensShare struct {
	G []*ristretto.Point
	H []*ristretto.Point
}

// Share returns the generators of party j when every party proves n bits.
// Parties take consecutive blocks, so the concatenation of all shares is
// G[:n*m], H[:n*m].
func (b *BulletproofGens) Share(j, n int) (*BulletproofGensShare, error) {
	if j < 0 || (j+1)*n > b.N {
		return nil, xerrors.Errorf("Share party %d of %d bits, %d generators: %w", j, n, b.N, ErrInvalidSize)
	}
	return &BulletproofGensShare{
		G: b.G[j*n : (j+1)*n],
		H: b.H[j*n : (j+1)*n],
	}, nil
}

// DeriveGenerators hashes "label||i" to the group for every i < count. The
// result depends only on its inputs.
func DeriveGenerators(label string, count int) []*ristretto.Point {
	if count < 0 {
		panic(fmt.Errorf("DeriveGenerators invalid count %d", count))
	}
	gens := make([]*ristretto.Point, count)
	for i := 0; i < count; i++ {
		gens[i] = hashToPoint(BULLETPROOF_GENERATORS_DOMAIN_TAG, []byte(label+"||"+strconv.Itoa(i)))
	}
	return gens
}

// GetHPrime returns h'_i = y^-i·h_i.
func GetHPrime(h []*ristretto.Point, y *ristretto.Scalar) ([]*ristretto.Point, error) {
	if isZeroScalar(y) {
		return nil, xerrors.Errorf("GetHPrime y is zero: %w", ErrDegenerateChallenge)
	}
	var yInv ristretto.Scalar
	yInv.Inverse(y)
	exp := NewScalarExp(&yInv)

	out := make([]*ristretto.Point, len(h))
	for i := range h {
		var p ristretto.Point
		out[i] = p.ScalarMult(h[i], exp.Next())
	}
	return out, nil
}

func hashToPoint(tag string, msg []byte) *ristretto.Point {
	hash := blake2b.New512()
	hash.Write([]byte(tag))
	hash.Write(msg)
	return pointFromUniformBytes(hash.Sum(nil))
}

func pointFromUniformBytes(key []byte) *ristretto.Point {
	var r1Bytes, r2Bytes [32]byte
	copy(r1Bytes[:], key[:32])
	copy(r2Bytes[:], key[32:])
	var r, r1, r2 ristretto.Point
	return r.Add(r1.SetElligator(&r1Bytes), r2.SetElligator(&r2Bytes))
}

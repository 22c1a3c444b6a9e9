package rangeproof

import (
	"github.com/bwesterb/go-ristretto"
	"golang.org/x/xerrors"
)

// CommitVector returns Σ gens_i·scalars_i.
func CommitVector(gens []*ristretto.Point, scalars []*ristretto.Scalar) (*ristretto.Point, error) {
	if len(gens) != len(scalars) {
		return nil, xerrors.Errorf("CommitVector %d generators, %d scalars: %w", len(gens), len(scalars), ErrLengthMismatch)
	}
	return multiscalarMul(scalars, gens), nil
}

// CommitBlinded returns blindBase·blind + Σ gensV_i·v_i + Σ gensT_i·t_i.
func CommitBlinded(
	blindBase *ristretto.Point,
	blind *ristretto.Scalar,
	gensV []*ristretto.Point,
	v []*ristretto.Scalar,
	gensT []*ristretto.Point,
	t []*ristretto.Scalar,
) (*ristretto.Point, error) {
	if len(gensV) != len(v) || len(gensT) != len(t) {
		return nil, xerrors.Errorf("CommitBlinded %d/%d, %d/%d: %w", len(gensV), len(v), len(gensT), len(t), ErrLengthMismatch)
	}

	scalars := make([]*ristretto.Scalar, 0, 1+len(v)+len(t))
	scalars = append(scalars, blind)
	scalars = append(scalars, v...)
	scalars = append(scalars, t...)

	points := make([]*ristretto.Point, 0, 1+len(gensV)+len(gensT))
	points = append(points, blindBase)
	points = append(points, gensV...)
	points = append(points, gensT...)

	return multiscalarMul(scalars, points), nil
}

package rangeproof

import (
	"github.com/bwesterb/go-ristretto"
	"golang.org/x/xerrors"
)

// BuildLR returns the polynomials of party j of an aggregated proof,
// l(X) = (aL - z·1^n) + sL·X and
// r(X) = y^(jn)·y^n∘(aR + z·1^n + sR·X) + z^(2+j)·2^n.
// A single-value proof is party 0.
func BuildLR(aL, sL, aR, sR []*ristretto.Scalar, y, z *ristretto.Scalar, j int) (*VecPoly1, *VecPoly1, error) {
	n := len(aL)
	if len(sL) != n || len(aR) != n || len(sR) != n {
		return nil, nil, xerrors.Errorf("BuildLR %d, %d, %d, %d: %w", len(aL), len(sL), len(aR), len(sR), ErrLengthMismatch)
	}
	if j < 0 {
		return nil, nil, xerrors.Errorf("BuildLR party %d: %w", j, ErrInvalidSize)
	}

	zz := OffsetZZ(z, j)

	l := ZeroVecPoly1(n)
	r := ZeroVecPoly1(n)
	yi := ScalarExpVartime(y, uint64(j*n))
	exp2 := oneScalar()
	for i := 0; i < n; i++ {
		l.As[i].Sub(aL[i], z)
		l.Bs[i] = cloneScalar(sL[i])

		var tmp1, tmp2 ristretto.Scalar
		tmp1.Add(aR[i], z)
		tmp1.Mul(yi, &tmp1)
		tmp2.Mul(zz, exp2)
		r.As[i].Add(&tmp1, &tmp2)
		r.Bs[i].Mul(yi, sR[i])

		yi.Mul(yi, y)
		exp2.Add(exp2, exp2)
	}
	return l, r, nil
}

// OffsetZZ returns z^(2+j), the weight of party j's commitment.
func OffsetZZ(z *ristretto.Scalar, j int) *ristretto.Scalar {
	return ScalarExpVartime(z, uint64(2+j))
}

// TCoeffs returns t(X) = <l(X), r(X)> as (t0, t1, t2).
func TCoeffs(l, r *VecPoly1) (*Poly2, error) {
	if len(l.As) != len(r.As) || len(l.Bs) != len(r.Bs) || len(l.As) != len(l.Bs) {
		return nil, xerrors.Errorf("TCoeffs: %w", ErrLengthMismatch)
	}
	return l.InnerProduct(r), nil
}

// Delta computes (z - z^2)·<1^nm, y^nm> - Σ_j z^(3+j)·<1^n, 2^n> for m
// parties of n bits, using closed forms for both geometric sums.
func Delta(y, z *ristretto.Scalar, n, m int) *ristretto.Scalar {
	nm := n * m
	var sumY ristretto.Scalar
	if y.Equals(oneScalar()) {
		sumY = *uint64ToScalar(uint64(nm))
	} else {
		var num, den, denInv ristretto.Scalar
		num.Sub(ScalarExpVartime(y, uint64(nm)), oneScalar())
		den.Sub(y, oneScalar())
		denInv.Inverse(&den)
		sumY.Mul(&num, &denInv)
	}

	var two, sum2 ristretto.Scalar
	two.Add(oneScalar(), oneScalar())
	sum2.Sub(ScalarExpVartime(&two, uint64(n)), oneScalar())

	// Σ_j z^(3+j)
	sumZ := zeroScalar()
	zExp := ScalarExpVartime(z, 3)
	for j := 0; j < m; j++ {
		sumZ.Add(sumZ, zExp)
		zExp.Mul(zExp, z)
	}

	var zz, res, tmp ristretto.Scalar
	zz.Mul(z, z)
	res.Sub(z, &zz)
	res.Mul(&res, &sumY)
	tmp.Mul(sumZ, &sum2)
	return res.Sub(&res, &tmp)
}

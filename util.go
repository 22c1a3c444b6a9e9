package rangeproof

import "github.com/bwesterb/go-ristretto"

// ScalarExp iterates over the powers 1, x, x^2, ...
type ScalarExp struct {
	X        *ristretto.Scalar
	NextExpX *ristretto.Scalar
}

func NewScalarExp(x *ristretto.Scalar) *ScalarExp {
	return &ScalarExp{
		X:        x,
		NextExpX: oneScalar(),
	}
}

func (s *ScalarExp) Next() *ristretto.Scalar {
	cur := cloneScalar(s.NextExpX)
	s.NextExpX.Mul(s.NextExpX, s.X)
	return cur
}

// VecPoly1 is a vector polynomial As + Bs·X.
type VecPoly1 struct {
	As []*ristretto.Scalar
	Bs []*ristretto.Scalar
}

func ZeroVecPoly1(n int) *VecPoly1 {
	vec := &VecPoly1{As: make([]*ristretto.Scalar, n), Bs: make([]*ristretto.Scalar, n)}
	for i := 0; i < n; i++ {
		vec.As[i] = zeroScalar()
		vec.Bs[i] = zeroScalar()
	}
	return vec
}

// InnerProduct returns t(X) = <v(X), rhs(X)>. Both polynomials must have the
// same length.
func (v *VecPoly1) InnerProduct(rhs *VecPoly1) *Poly2 {
	t0 := innerProduct(v.As, rhs.As)
	t2 := innerProduct(v.Bs, rhs.Bs)

	var t1 ristretto.Scalar
	t1.Add(innerProduct(v.As, rhs.Bs), innerProduct(v.Bs, rhs.As))

	return &Poly2{
		A: t0,
		B: &t1,
		C: t2,
	}
}

func (v *VecPoly1) Eval(x *ristretto.Scalar) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, len(v.As))
	for i := range v.As {
		var r ristretto.Scalar
		r.Mul(v.Bs[i], x)
		out[i] = r.Add(v.As[i], &r)
	}
	return out
}

// Poly2 is A + B·X + C·X^2.
type Poly2 struct {
	A *ristretto.Scalar
	B *ristretto.Scalar
	C *ristretto.Scalar
}

// self.0 + x * (self.1 + x * self.2)
func (p *Poly2) Eval(x *ristretto.Scalar) *ristretto.Scalar {
	var r ristretto.Scalar
	r.Mul(x, p.C)
	r.Add(p.B, &r)
	r.Mul(x, &r)
	return r.Add(p.A, &r)
}

func ScalarExpVartime(x *ristretto.Scalar, n uint64) *ristretto.Scalar {
	result := oneScalar()
	aux := cloneScalar(x)

	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, aux)
		}
		n = n >> 1
		aux.Mul(aux, aux)
	}
	return result
}

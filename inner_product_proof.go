package rangeproof

import (
	"github.com/bwesterb/go-ristretto"
	"github.com/gtank/merlin"
	"golang.org/x/xerrors"
)

type InnerProductProof struct {
	LVec []*ristretto.Point
	RVec []*ristretto.Point
	A, B *ristretto.Scalar
}

// CreateInnerProductProof proves knowledge of a, b such that
// P = <a, G> + <b, H> + <a, b>·Q. The inputs are not modified.
func CreateInnerProductProof(transcript *merlin.Transcript, Q *ristretto.Point, gVec, hVec []*ristretto.Point, aVec, bVec []*ristretto.Scalar) (*InnerProductProof, error) {
	n := len(gVec)
	if len(hVec) != n || len(aVec) != n || len(bVec) != n {
		return nil, xerrors.Errorf("CreateInnerProductProof invalid input vectors %d, %d, %d, %d: %w", len(gVec), len(hVec), len(aVec), len(bVec), ErrLengthMismatch)
	}
	if !isPowerOfTwo(n) {
		return nil, xerrors.Errorf("CreateInnerProductProof invalid n %d: %w", n, ErrInvalidSize)
	}

	InnerproductDomainSep(uint64(n), transcript)

	// Working buffers, folded in place so that round i only touches [:n>>i].
	G := append([]*ristretto.Point(nil), gVec...)
	H := append([]*ristretto.Point(nil), hVec...)
	a := make([]*ristretto.Scalar, n)
	b := make([]*ristretto.Scalar, n)
	for i := 0; i < n; i++ {
		a[i] = cloneScalar(aVec[i])
		b[i] = cloneScalar(bVec[i])
	}

	rounds := log2(n)
	LVec := make([]*ristretto.Point, 0, rounds)
	RVec := make([]*ristretto.Point, 0, rounds)

	for m := n; m > 1; m /= 2 {
		half := m / 2
		aL, aR := a[:half], a[half:m]
		bL, bR := b[:half], b[half:m]
		gL, gR := G[:half], G[half:m]
		hL, hR := H[:half], H[half:m]

		cL := innerProduct(aL, bR)
		cR := innerProduct(aR, bL)

		L, err := CommitBlinded(Q, cL, gR, aL, hL, bR)
		if err != nil {
			return nil, err
		}
		R, err := CommitBlinded(Q, cR, gL, aR, hR, bL)
		if err != nil {
			return nil, err
		}
		LVec = append(LVec, L)
		RVec = append(RVec, R)

		AppendPoint("L", L, transcript)
		AppendPoint("R", R, transcript)

		u, err := challengeScalarNonZero("u", transcript)
		if err != nil {
			return nil, err
		}
		var uInv ristretto.Scalar
		uInv.Inverse(u)

		for i := 0; i < half; i++ {
			var r1, r2 ristretto.Scalar
			aL[i].Add(r1.Mul(aL[i], u), r2.Mul(&uInv, aR[i]))
			var r3, r4 ristretto.Scalar
			bL[i].Add(r3.Mul(bL[i], &uInv), r4.Mul(u, bR[i]))
			gL[i] = multiscalarMul([]*ristretto.Scalar{&uInv, u}, []*ristretto.Point{gL[i], gR[i]})
			hL[i] = multiscalarMul([]*ristretto.Scalar{u, &uInv}, []*ristretto.Point{hL[i], hR[i]})
		}
	}

	return &InnerProductProof{
		LVec: LVec,
		RVec: RVec,
		A:    a[0],
		B:    b[0],
	}, nil
}

// verificationChallenges replays the transcript and returns the per-round
// challenges.
func (p *InnerProductProof) verificationChallenges(transcript *merlin.Transcript, n int) ([]*ristretto.Scalar, error) {
	if p.A == nil || p.B == nil {
		return nil, xerrors.Errorf("InnerProductProof nil final scalars: %w", ErrProofMalformed)
	}
	rounds := log2(n)
	if len(p.LVec) != rounds || len(p.RVec) != rounds {
		return nil, xerrors.Errorf("InnerProductProof %d/%d rounds for n %d: %w", len(p.LVec), len(p.RVec), n, ErrProofMalformed)
	}

	InnerproductDomainSep(uint64(n), transcript)

	challenges := make([]*ristretto.Scalar, rounds)
	for i := 0; i < rounds; i++ {
		if p.LVec[i] == nil || p.RVec[i] == nil {
			return nil, xerrors.Errorf("InnerProductProof nil round %d: %w", i, ErrProofMalformed)
		}
		AppendPoint("L", p.LVec[i], transcript)
		AppendPoint("R", p.RVec[i], transcript)
		u, err := challengeScalarNonZero("u", transcript)
		if err != nil {
			return nil, err
		}
		challenges[i] = u
	}
	return challenges, nil
}

// computeSVector returns s_i = Π_j u_j^(±1), the exponent being +1 when
// round j put index i in the high half. The first round splits on the most
// significant bit of i.
func computeSVector(challenges []*ristretto.Scalar, n int) []*ristretto.Scalar {
	rounds := len(challenges)
	inverses := make([]*ristretto.Scalar, rounds)
	for j, u := range challenges {
		var inv ristretto.Scalar
		inverses[j] = inv.Inverse(u)
	}

	s := make([]*ristretto.Scalar, n)
	for i := 0; i < n; i++ {
		acc := oneScalar()
		for j := 0; j < rounds; j++ {
			if (i>>uint(rounds-1-j))&1 == 1 {
				acc.Mul(acc, challenges[j])
			} else {
				acc.Mul(acc, inverses[j])
			}
		}
		s[i] = acc
	}
	return s
}

// Verify checks the proof against P = <a, G> + <b, H> + <a, b>·Q. It returns
// nil when the proof is valid and ErrVerificationFailed when the final
// equation does not hold.
func (p *InnerProductProof) Verify(transcript *merlin.Transcript, Q, P *ristretto.Point, gVec, hVec []*ristretto.Point) error {
	n := len(gVec)
	if len(hVec) != n {
		return xerrors.Errorf("InnerProductProof.Verify %d, %d generators: %w", len(gVec), len(hVec), ErrLengthMismatch)
	}
	if !isPowerOfTwo(n) {
		return xerrors.Errorf("InnerProductProof.Verify invalid n %d: %w", n, ErrInvalidSize)
	}

	challenges, err := p.verificationChallenges(transcript, n)
	if err != nil {
		return err
	}

	// P' = Σ u_j^2·L_j + P + Σ u_j^-2·R_j
	var folded ristretto.Point
	folded.Add(identityPoint(), P)
	for j, u := range challenges {
		var uu, uuInv ristretto.Scalar
		uu.Mul(u, u)
		uuInv.Inverse(&uu)
		folded.Add(&folded, multiscalarMul([]*ristretto.Scalar{&uu, &uuInv}, []*ristretto.Point{p.LVec[j], p.RVec[j]}))
	}

	s := computeSVector(challenges, n)
	gScalars := make([]*ristretto.Scalar, n)
	hScalars := make([]*ristretto.Scalar, n)
	for i := range s {
		var gs, hs, sInv ristretto.Scalar
		gScalars[i] = gs.Mul(p.A, s[i])
		sInv.Inverse(s[i])
		hScalars[i] = hs.Mul(p.B, &sInv)
	}
	var ab ristretto.Scalar
	ab.Mul(p.A, p.B)

	expected, err := CommitBlinded(Q, &ab, gVec, gScalars, hVec, hScalars)
	if err != nil {
		return err
	}
	if !expected.Equals(&folded) {
		logger().Debug().Int("n", n).Msg("inner product argument rejected")
		return xerrors.Errorf("inner product argument: %w", ErrVerificationFailed)
	}
	return nil
}

func (p *InnerProductProof) ToBytes() []byte {
	var buf []byte

	for i := range p.LVec {
		buf = append(buf, p.LVec[i].Bytes()...)
		buf = append(buf, p.RVec[i].Bytes()...)
	}
	buf = append(buf, p.A.Bytes()...)
	buf = append(buf, p.B.Bytes()...)

	return buf
}

// InnerProductProofFromBytes parses the ToBytes encoding of a proof over
// vectors of length n.
func InnerProductProofFromBytes(data []byte, n int) (*InnerProductProof, error) {
	if !isPowerOfTwo(n) {
		return nil, xerrors.Errorf("InnerProductProofFromBytes invalid n %d: %w", n, ErrInvalidSize)
	}
	rounds := log2(n)
	if len(data) != (2*rounds+2)*32 {
		return nil, xerrors.Errorf("InnerProductProofFromBytes length %d for n %d: %w", len(data), n, ErrProofMalformed)
	}

	proof := &InnerProductProof{
		LVec: make([]*ristretto.Point, rounds),
		RVec: make([]*ristretto.Point, rounds),
	}
	var err error
	for i := 0; i < rounds; i++ {
		if proof.LVec[i], err = PointFromBytes(data[64*i : 64*i+32]); err != nil {
			return nil, xerrors.Errorf("L[%d]: %w", i, err)
		}
		if proof.RVec[i], err = PointFromBytes(data[64*i+32 : 64*i+64]); err != nil {
			return nil, xerrors.Errorf("R[%d]: %w", i, err)
		}
	}
	offset := 64 * rounds
	if proof.A, err = ScalarFromBytes(data[offset : offset+32]); err != nil {
		return nil, xerrors.Errorf("a: %w", err)
	}
	if proof.B, err = ScalarFromBytes(data[offset+32 : offset+64]); err != nil {
		return nil, xerrors.Errorf("b: %w", err)
	}
	return proof, nil
}

package rangeproof

import (
	"github.com/bwesterb/go-ristretto"
	"github.com/gtank/merlin"
	"golang.org/x/xerrors"
)

func (p *RangeProof) validate(nm int, mode Mode) error {
	if p == nil || p.A == nil || p.S == nil || p.T1 == nil || p.T2 == nil ||
		p.TX == nil || p.TXBlinding == nil || p.EBlinding == nil {
		return xerrors.Errorf("RangeProof nil elements: %w", ErrProofMalformed)
	}
	if p.Mode() != mode {
		return xerrors.Errorf("RangeProof mode %s, want %s: %w", p.Mode(), mode, ErrProofMalformed)
	}
	if mode == ModeLinear {
		if len(p.LVec) != nm || len(p.RVec) != nm {
			return xerrors.Errorf("RangeProof opening %d/%d, want %d: %w", len(p.LVec), len(p.RVec), nm, ErrProofMalformed)
		}
		for i := 0; i < nm; i++ {
			if p.LVec[i] == nil || p.RVec[i] == nil {
				return xerrors.Errorf("RangeProof nil opening %d: %w", i, ErrProofMalformed)
			}
		}
	} else if len(p.IPPProof.LVec) != log2(nm) {
		return xerrors.Errorf("RangeProof %d rounds for n %d: %w", len(p.IPPProof.LVec), nm, ErrProofMalformed)
	}
	return nil
}

func rejected(check string) error {
	logger().Debug().Str("check", check).Msg("range proof rejected")
	return xerrors.Errorf("%s: %w", check, ErrVerificationFailed)
}

// Verify checks proof against the commitment V. It returns nil when the
// proof is valid, ErrVerificationFailed when it is well formed but does not
// verify and ErrProofMalformed when its shape does not match the protocol.
// The transcript must be in the same state the prover started from.
func (p *Protocol) Verify(transcript *merlin.Transcript, proof *RangeProof, V *ristretto.Point) error {
	return p.VerifyMultiple(transcript, proof, []*ristretto.Point{V})
}

// VerifyMultiple checks an aggregated proof against the commitments V, given
// in the order the values were proven.
func (p *Protocol) VerifyMultiple(transcript *merlin.Transcript, proof *RangeProof, V []*ristretto.Point) error {
	m := len(V)
	for j := range V {
		if V[j] == nil {
			return xerrors.Errorf("VerifyMultiple nil commitment %d: %w", j, ErrProofMalformed)
		}
	}
	dealer1, err := NewDealer(p.BPGens, p.PCGens, transcript, p.N, m, p.Mode)
	if err != nil {
		return err
	}
	nm := p.N * m
	if err := proof.validate(nm, p.Mode); err != nil {
		return err
	}

	dealer2, bc, err := dealer1.receiveAggregate(V, proof.A, proof.S)
	if err != nil {
		return err
	}
	dealer3, pc, err := dealer2.receiveAggregate(proof.T1, proof.T2)
	if err != nil {
		return err
	}
	Q, err := dealer3.receiveShareScalars(proof.TX, proof.TXBlinding, proof.EBlinding)
	if err != nil {
		return err
	}

	y, z, x := bc.Y, bc.Z, pc.X
	var zz, xx ristretto.Scalar
	zz.Mul(z, z)
	xx.Mul(x, x)

	// z^(2+j) for every party
	zOffsets := make([]*ristretto.Scalar, m)
	exp := NewScalarExp(z)
	for j := range zOffsets {
		var o ristretto.Scalar
		zOffsets[j] = o.Mul(&zz, exp.Next())
	}

	// t_hat·B + tau_x·B_blinding == Σ z^(2+j)·V_j + delta(y,z)·B + x·T1 + x^2·T2
	lhs := p.PCGens.Commit(proof.TX, proof.TXBlinding)
	scalars := append(append([]*ristretto.Scalar(nil), zOffsets...), Delta(y, z, p.N, m), x, &xx)
	points := append(append([]*ristretto.Point(nil), V...), p.PCGens.B, proof.T1, proof.T2)
	if !lhs.Equals(multiscalarMul(scalars, points)) {
		return rejected("polynomial commitment")
	}

	G := p.BPGens.G[:nm]
	hPrime, err := GetHPrime(p.BPGens.H[:nm], y)
	if err != nil {
		return err
	}

	// P = A + x·S - z·Σ G_i + Σ (z·y^i + z^(2+j)·2^(i mod n))·H'_i
	var negZ ristretto.Scalar
	negZ.Neg(z)
	yPows := YPows(y, nm)
	twos := Twos(p.N)
	hScalars := make([]*ristretto.Scalar, nm)
	for i := range hScalars {
		var a, b ristretto.Scalar
		a.Mul(z, yPows[i])
		b.Mul(zOffsets[i/p.N], twos[i%p.N])
		hScalars[i] = a.Add(&a, &b)
	}
	P, err := CommitBlinded(proof.S, x, G, constantVec(&negZ, nm), hPrime, hScalars)
	if err != nil {
		return err
	}
	P.Add(P, proof.A)

	if p.Mode == ModeLinear {
		return p.verifyLinearOpening(proof, P, G, hPrime)
	}

	// Move mu·B_blinding out of P and bind t_hat to Q for the inner product.
	var negMu ristretto.Scalar
	negMu.Neg(proof.EBlinding)
	ipaP := multiscalarMul(
		[]*ristretto.Scalar{oneScalar(), &negMu, proof.TX},
		[]*ristretto.Point{P, p.PCGens.BBlinding, Q},
	)
	if err := proof.IPPProof.Verify(dealer3.Transcript, Q, ipaP, G, hPrime); err != nil {
		if xerrors.Is(err, ErrVerificationFailed) {
			return rejected("inner product argument")
		}
		return err
	}
	return nil
}

func (p *Protocol) verifyLinearOpening(proof *RangeProof, P *ristretto.Point, G, hPrime []*ristretto.Point) error {
	if !innerProduct(proof.LVec, proof.RVec).Equals(proof.TX) {
		return rejected("t_hat opening")
	}
	expected, err := CommitBlinded(p.PCGens.BBlinding, proof.EBlinding, G, proof.LVec, hPrime, proof.RVec)
	if err != nil {
		return err
	}
	if !expected.Equals(P) {
		return rejected("vector opening")
	}
	return nil
}

func constantVec(k *ristretto.Scalar, n int) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, n)
	for i := range out {
		out[i] = k
	}
	return out
}

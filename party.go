package rangeproof

import (
	"github.com/bwesterb/go-ristretto"
	"golang.org/x/xerrors"
)

// PartyAwaitingPosition holds one secret value and its blinding before it is
// given a slot in the (possibly aggregated) proof.
type PartyAwaitingPosition struct {
	BPGens    *BulletproofGens
	PCGens    *PedersenGens
	N         int
	Value     uint64
	VBlinding *ristretto.Scalar
	V         *ristretto.Point
}

// NewParty commits to value. Bits of value above n are not encoded, so a
// value outside [0, 2^n) yields a proof that does not verify.
func NewParty(bg *BulletproofGens, pg *PedersenGens, value uint64, blinding *ristretto.Scalar, n int) (*PartyAwaitingPosition, error) {
	if !isPowerOfTwo(n) || n > MaxBitsize {
		return nil, xerrors.Errorf("NewParty invalid bitsize %d: %w", n, ErrInvalidSize)
	}
	if bg.N < n {
		return nil, xerrors.Errorf("NewParty generators length %d, n %d: %w", bg.N, n, ErrInvalidSize)
	}
	if blinding == nil {
		return nil, xerrors.Errorf("NewParty nil blinding: %w", ErrInvalidSize)
	}

	V := pg.Commit(uint64ToScalar(value), blinding)

	return &PartyAwaitingPosition{
		BPGens:    bg,
		PCGens:    pg,
		N:         n,
		Value:     value,
		VBlinding: blinding,
		V:         V,
	}, nil
}

type PartyAwaitingBitChallenge struct {
	N         int
	J         int
	AL, AR    []*ristretto.Scalar
	VBlinding *ristretto.Scalar
	PCGens    *PedersenGens
	ABlinding *ristretto.Scalar
	SBlinding *ristretto.Scalar
	SL        []*ristretto.Scalar
	SR        []*ristretto.Scalar
}

// AssignPosition places the party at slot j, samples the blinding vectors
// and commits A = alpha·B_blinding + <aL, G_j> + <aR, H_j> and
// S = rho·B_blinding + <sL, G_j> + <sR, H_j>.
func (p *PartyAwaitingPosition) AssignPosition(j int) (*PartyAwaitingBitChallenge, *BitCommitment, error) {
	share, err := p.BPGens.Share(j, p.N)
	if err != nil {
		return nil, nil, err
	}

	aL := EncodeBits(p.Value, p.N)
	aR := SubOne(aL)

	var aBlinding ristretto.Scalar
	aBlinding.Rand()
	A, err := CommitBlinded(p.PCGens.BBlinding, &aBlinding, share.G, aL, share.H, aR)
	if err != nil {
		return nil, nil, err
	}

	var sBlinding ristretto.Scalar
	sBlinding.Rand()
	sL := RandomScalars(p.N)
	sR := RandomScalars(p.N)
	S, err := CommitBlinded(p.PCGens.BBlinding, &sBlinding, share.G, sL, share.H, sR)
	if err != nil {
		return nil, nil, err
	}

	bitCommitment := &BitCommitment{
		V: p.V,
		A: A,
		S: S,
	}

	nextState := &PartyAwaitingBitChallenge{
		N:         p.N,
		J:         j,
		AL:        aL,
		AR:        aR,
		VBlinding: p.VBlinding,
		PCGens:    p.PCGens,
		ABlinding: &aBlinding,
		SBlinding: &sBlinding,
		SL:        sL,
		SR:        sR,
	}
	return nextState, bitCommitment, nil
}

type PartyAwaitingPolyChallenge struct {
	OffsetZZ   *ristretto.Scalar
	LPoly      *VecPoly1
	RPoly      *VecPoly1
	TPoly      *Poly2
	VBlinding  *ristretto.Scalar
	ABlinding  *ristretto.Scalar
	SBlinding  *ristretto.Scalar
	T1Blinding *ristretto.Scalar
	T2Blinding *ristretto.Scalar
}

func (p *PartyAwaitingBitChallenge) ApplyBitChallenge(vc *BitChallenge) (*PartyAwaitingPolyChallenge, *PolyCommitment, error) {
	if vc == nil || vc.Y == nil || vc.Z == nil {
		return nil, nil, xerrors.Errorf("ApplyBitChallenge nil challenge: %w", ErrProofMalformed)
	}
	if isZeroScalar(vc.Y) || isZeroScalar(vc.Z) {
		return nil, nil, xerrors.Errorf("ApplyBitChallenge: %w", ErrDegenerateChallenge)
	}

	LPoly, RPoly, err := BuildLR(p.AL, p.SL, p.AR, p.SR, vc.Y, vc.Z, p.J)
	if err != nil {
		return nil, nil, err
	}
	tPoly, err := TCoeffs(LPoly, RPoly)
	if err != nil {
		return nil, nil, err
	}

	var t1blinding, t2blinding ristretto.Scalar
	t1blinding.Rand()
	t2blinding.Rand()

	T1 := p.PCGens.Commit(tPoly.B, &t1blinding)
	T2 := p.PCGens.Commit(tPoly.C, &t2blinding)

	polyCommitment := &PolyCommitment{
		T1: T1,
		T2: T2,
	}

	papc := &PartyAwaitingPolyChallenge{
		OffsetZZ:   OffsetZZ(vc.Z, p.J),
		LPoly:      LPoly,
		RPoly:      RPoly,
		TPoly:      tPoly,
		T1Blinding: &t1blinding,
		T2Blinding: &t2blinding,
		VBlinding:  p.VBlinding,
		ABlinding:  p.ABlinding,
		SBlinding:  p.SBlinding,
	}
	return papc, polyCommitment, nil
}

func (p *PartyAwaitingPolyChallenge) ApplyPolyChallenge(pc *PolyChallenge) (*ProofShare, error) {
	if pc == nil || pc.X == nil {
		return nil, xerrors.Errorf("ApplyPolyChallenge nil challenge: %w", ErrProofMalformed)
	}
	if isZeroScalar(pc.X) {
		return nil, xerrors.Errorf("ApplyPolyChallenge: %w", ErrDegenerateChallenge)
	}

	// tau_x = tau2·x^2 + tau1·x + z^(2+j)·gamma
	var zzBlinding ristretto.Scalar
	zzBlinding.Mul(p.OffsetZZ, p.VBlinding)
	tBlindingPoly := Poly2{
		A: &zzBlinding,
		B: p.T1Blinding,
		C: p.T2Blinding,
	}

	tx := p.TPoly.Eval(pc.X)
	txBlinding := tBlindingPoly.Eval(pc.X)

	// mu = alpha + rho·x
	var eBlinding ristretto.Scalar
	eBlinding.Mul(p.SBlinding, pc.X)
	eBlinding.Add(p.ABlinding, &eBlinding)

	return &ProofShare{
		TX:         tx,
		TXBlinding: txBlinding,
		EBlinding:  &eBlinding,
		LVec:       p.LPoly.Eval(pc.X),
		RVec:       p.RPoly.Eval(pc.X),
	}, nil
}

package rangeproof

import (
	"github.com/bwesterb/go-ristretto"
	"github.com/gtank/merlin"
	"golang.org/x/xerrors"
)

// DealerAwaitingBitCommitments owns the Fiat-Shamir transcript of a proof
// over m values of n bits each. The prover drives it with the parties'
// messages; the verifier drives it with the aggregates read from a proof, so
// both derive the same challenges.
type DealerAwaitingBitCommitments struct {
	BPGens     *BulletproofGens
	PCGens     *PedersenGens
	Transcript *merlin.Transcript
	N, M       int
	Mode       Mode
}

func NewDealer(bg *BulletproofGens, pg *PedersenGens, t *merlin.Transcript, n, m int, mode Mode) (*DealerAwaitingBitCommitments, error) {
	if !isPowerOfTwo(n) || n > MaxBitsize {
		return nil, xerrors.Errorf("NewDealer invalid bitsize n: %d: %w", n, ErrInvalidSize)
	}
	if !isPowerOfTwo(m) || m > MaxAggregation {
		return nil, xerrors.Errorf("NewDealer invalid aggregation m: %d: %w", m, ErrInvalidSize)
	}
	if bg.N < n*m {
		return nil, xerrors.Errorf("NewDealer generators length %d, n %d, m %d: %w", bg.N, n, m, ErrInvalidSize)
	}

	t = RangeproofDomainSep(uint64(n), uint64(m), mode, t)

	return &DealerAwaitingBitCommitments{
		BPGens:     bg,
		PCGens:     pg,
		Transcript: t,
		N:          n,
		M:          m,
		Mode:       mode,
	}, nil
}

type DealerAwaitingPolyCommitments struct {
	N, M         int
	Mode         Mode
	Transcript   *merlin.Transcript
	BPGens       *BulletproofGens
	PCGens       *PedersenGens
	BitChallenge *BitChallenge
	V            []*ristretto.Point
	A            *ristretto.Point
	S            *ristretto.Point
}

// ReceiveBitCommitments sums the parties' A and S and binds every V, then
// A and S, into the transcript.
func (d *DealerAwaitingBitCommitments) ReceiveBitCommitments(commitments []*BitCommitment) (*DealerAwaitingPolyCommitments, *BitChallenge, error) {
	if len(commitments) != d.M {
		return nil, nil, xerrors.Errorf("ReceiveBitCommitments %d commitments, m %d: %w", len(commitments), d.M, ErrLengthMismatch)
	}

	V := make([]*ristretto.Point, d.M)
	A, S := identityPoint(), identityPoint()
	for j, c := range commitments {
		if c == nil || c.V == nil || c.A == nil || c.S == nil {
			return nil, nil, xerrors.Errorf("ReceiveBitCommitments nil commitment %d: %w", j, ErrProofMalformed)
		}
		V[j] = c.V
		A.Add(A, c.A)
		S.Add(S, c.S)
	}
	return d.receiveAggregate(V, A, S)
}

func (d *DealerAwaitingBitCommitments) receiveAggregate(V []*ristretto.Point, A, S *ristretto.Point) (*DealerAwaitingPolyCommitments, *BitChallenge, error) {
	for _, v := range V {
		AppendPoint("V", v, d.Transcript)
	}
	AppendPoint("A", A, d.Transcript)
	AppendPoint("S", S, d.Transcript)

	y, err := challengeScalarNonZero("y", d.Transcript)
	if err != nil {
		return nil, nil, err
	}
	z, err := challengeScalarNonZero("z", d.Transcript)
	if err != nil {
		return nil, nil, err
	}
	challenge := &BitChallenge{Y: y, Z: z}

	return &DealerAwaitingPolyCommitments{
		N:            d.N,
		M:            d.M,
		Mode:         d.Mode,
		Transcript:   d.Transcript,
		BPGens:       d.BPGens,
		PCGens:       d.PCGens,
		BitChallenge: challenge,
		V:            V,
		A:            A,
		S:            S,
	}, challenge, nil
}

type DealerAwaitingProofShares struct {
	N, M          int
	Mode          Mode
	Transcript    *merlin.Transcript
	BPGens        *BulletproofGens
	PCGens        *PedersenGens
	BitChallenge  *BitChallenge
	V             []*ristretto.Point
	A, S          *ristretto.Point
	PolyChallenge *PolyChallenge
	T1, T2        *ristretto.Point
}

func (d *DealerAwaitingPolyCommitments) ReceivePolyCommitments(commitments []*PolyCommitment) (*DealerAwaitingProofShares, *PolyChallenge, error) {
	if len(commitments) != d.M {
		return nil, nil, xerrors.Errorf("ReceivePolyCommitments %d commitments, m %d: %w", len(commitments), d.M, ErrLengthMismatch)
	}

	T1, T2 := identityPoint(), identityPoint()
	for j, c := range commitments {
		if c == nil || c.T1 == nil || c.T2 == nil {
			return nil, nil, xerrors.Errorf("ReceivePolyCommitments nil commitment %d: %w", j, ErrProofMalformed)
		}
		T1.Add(T1, c.T1)
		T2.Add(T2, c.T2)
	}
	return d.receiveAggregate(T1, T2)
}

func (d *DealerAwaitingPolyCommitments) receiveAggregate(T1, T2 *ristretto.Point) (*DealerAwaitingProofShares, *PolyChallenge, error) {
	AppendPoint("T_1", T1, d.Transcript)
	AppendPoint("T_2", T2, d.Transcript)

	x, err := challengeScalarNonZero("x", d.Transcript)
	if err != nil {
		return nil, nil, err
	}
	polyChallenge := &PolyChallenge{X: x}

	return &DealerAwaitingProofShares{
		N:             d.N,
		M:             d.M,
		Mode:          d.Mode,
		Transcript:    d.Transcript,
		BPGens:        d.BPGens,
		PCGens:        d.PCGens,
		BitChallenge:  d.BitChallenge,
		V:             d.V,
		A:             d.A,
		S:             d.S,
		PolyChallenge: polyChallenge,
		T1:            T1,
		T2:            T2,
	}, polyChallenge, nil
}

// receiveShareScalars binds t(x), tau_x and mu and, in logarithmic mode,
// returns the inner product base Q = w·B.
func (d *DealerAwaitingProofShares) receiveShareScalars(tx, txBlinding, eBlinding *ristretto.Scalar) (*ristretto.Point, error) {
	AppendScalar("t_x", tx, d.Transcript)
	AppendScalar("t_x_blinding", txBlinding, d.Transcript)
	AppendScalar("e_blinding", eBlinding, d.Transcript)

	if d.Mode != ModeLogarithmic {
		return nil, nil
	}
	w, err := challengeScalarNonZero("w", d.Transcript)
	if err != nil {
		return nil, err
	}
	var Q ristretto.Point
	return Q.ScalarMult(d.PCGens.B, w), nil
}

func (ps *ProofShare) checkSize(n int) error {
	if ps == nil || ps.TX == nil || ps.TXBlinding == nil || ps.EBlinding == nil {
		return xerrors.Errorf("checkSize nil share: %w", ErrProofMalformed)
	}
	if len(ps.LVec) != n {
		return xerrors.Errorf("checkSize l %d, %d: %w", len(ps.LVec), n, ErrLengthMismatch)
	}
	if len(ps.RVec) != n {
		return xerrors.Errorf("checkSize r %d, %d: %w", len(ps.RVec), n, ErrLengthMismatch)
	}
	return nil
}

// AssembleShares sums the parties' scalars, concatenates their l(x), r(x)
// in party order and turns the result into a RangeProof, compressing the
// opening with an inner product argument in logarithmic mode.
func (d *DealerAwaitingProofShares) AssembleShares(shares []*ProofShare) (*RangeProof, error) {
	if len(shares) != d.M {
		return nil, xerrors.Errorf("AssembleShares %d shares, m %d: %w", len(shares), d.M, ErrLengthMismatch)
	}

	nm := d.N * d.M
	tx, txBlinding, eBlinding := zeroScalar(), zeroScalar(), zeroScalar()
	LVec := make([]*ristretto.Scalar, 0, nm)
	RVec := make([]*ristretto.Scalar, 0, nm)
	for j, share := range shares {
		if err := share.checkSize(d.N); err != nil {
			return nil, xerrors.Errorf("AssembleShares share %d: %w", j, err)
		}
		tx.Add(tx, share.TX)
		txBlinding.Add(txBlinding, share.TXBlinding)
		eBlinding.Add(eBlinding, share.EBlinding)
		LVec = append(LVec, share.LVec...)
		RVec = append(RVec, share.RVec...)
	}

	Q, err := d.receiveShareScalars(tx, txBlinding, eBlinding)
	if err != nil {
		return nil, err
	}

	proof := &RangeProof{
		A:          d.A,
		S:          d.S,
		T1:         d.T1,
		T2:         d.T2,
		TX:         tx,
		TXBlinding: txBlinding,
		EBlinding:  eBlinding,
	}

	if d.Mode == ModeLinear {
		proof.LVec = LVec
		proof.RVec = RVec
		return proof, nil
	}

	hPrime, err := GetHPrime(d.BPGens.H[:nm], d.BitChallenge.Y)
	if err != nil {
		return nil, err
	}
	proof.IPPProof, err = CreateInnerProductProof(d.Transcript, Q, d.BPGens.G[:nm], hPrime, LVec, RVec)
	if err != nil {
		return nil, err
	}
	return proof, nil
}

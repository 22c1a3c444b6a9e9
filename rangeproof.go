package rangeproof

import (
	"fmt"

	"github.com/bwesterb/go-ristretto"
	"github.com/gtank/merlin"
	"golang.org/x/xerrors"
)

// Mode selects how the final l(x), r(x) opening is sent.
type Mode uint8

const (
	// ModeLogarithmic compresses the opening with an inner product argument.
	ModeLogarithmic Mode = iota
	// ModeLinear sends l(x) and r(x) in the clear.
	ModeLinear
)

func (m Mode) String() string {
	switch m {
	case ModeLogarithmic:
		return "log"
	case ModeLinear:
		return "linear"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "log", "logarithmic":
		return ModeLogarithmic, nil
	case "linear":
		return ModeLinear, nil
	}
	return 0, xerrors.Errorf("unknown mode %q", s)
}

func (m Mode) valid() bool {
	return m == ModeLogarithmic || m == ModeLinear
}

// RangeProof shows that a Pedersen commitment V opens to a value in
// [0, 2^n). TX is t_hat, TXBlinding is tau_x and EBlinding is mu. Exactly one
// of LVec/RVec (linear mode) or IPPProof (logarithmic mode) is set.
type RangeProof struct {
	A, S       *ristretto.Point
	T1, T2     *ristretto.Point
	TX         *ristretto.Scalar
	TXBlinding *ristretto.Scalar
	EBlinding  *ristretto.Scalar
	LVec       []*ristretto.Scalar
	RVec       []*ristretto.Scalar
	IPPProof   *InnerProductProof
}

func (p *RangeProof) Mode() Mode {
	if p.IPPProof != nil {
		return ModeLogarithmic
	}
	return ModeLinear
}

// ToBytes encodes A, S, T1, T2, tau_x, mu, t_hat followed by either
// l(x), r(x) or the inner product proof, 32 bytes per element.
func (p *RangeProof) ToBytes() []byte {
	var buf []byte
	buf = append(buf, p.A.Bytes()...)
	buf = append(buf, p.S.Bytes()...)
	buf = append(buf, p.T1.Bytes()...)
	buf = append(buf, p.T2.Bytes()...)
	buf = append(buf, p.TXBlinding.Bytes()...)
	buf = append(buf, p.EBlinding.Bytes()...)
	buf = append(buf, p.TX.Bytes()...)

	if p.IPPProof != nil {
		return append(buf, p.IPPProof.ToBytes()...)
	}
	for _, l := range p.LVec {
		buf = append(buf, l.Bytes()...)
	}
	for _, r := range p.RVec {
		buf = append(buf, r.Bytes()...)
	}
	return buf
}

// Chunks splits the encoding into the 32-byte words consumed by downstream
// re-hashing.
func (p *RangeProof) Chunks() [][32]byte {
	buf := p.ToBytes()
	chunks := make([][32]byte, len(buf)/32)
	for i := range chunks {
		copy(chunks[i][:], buf[32*i:])
	}
	return chunks
}

// EncodedLen is the ToBytes length of a proof over m values of n bits in
// the given mode.
func EncodedLen(n, m int, mode Mode) int {
	nm := n * m
	if mode == ModeLinear {
		return (7 + 2*nm) * 32
	}
	return (7 + 2*log2(nm) + 2) * 32
}

// RangeProofFromBytes parses a proof over m values of n bits. The mode is
// not encoded on the wire and must be known to the caller.
func RangeProofFromBytes(data []byte, n, m int, mode Mode) (*RangeProof, error) {
	if !isPowerOfTwo(n) || n > MaxBitsize {
		return nil, xerrors.Errorf("RangeProofFromBytes invalid bitsize %d: %w", n, ErrInvalidSize)
	}
	if !isPowerOfTwo(m) || m > MaxAggregation {
		return nil, xerrors.Errorf("RangeProofFromBytes invalid aggregation %d: %w", m, ErrInvalidSize)
	}
	if !mode.valid() {
		return nil, xerrors.Errorf("RangeProofFromBytes %s: %w", mode, ErrInvalidSize)
	}
	if len(data) != EncodedLen(n, m, mode) {
		return nil, xerrors.Errorf("RangeProofFromBytes length %d, want %d: %w", len(data), EncodedLen(n, m, mode), ErrProofMalformed)
	}
	nm := n * m

	chunk := func(i int) []byte { return data[32*i : 32*i+32] }

	points := make([]*ristretto.Point, 4)
	for i := range points {
		p, err := PointFromBytes(chunk(i))
		if err != nil {
			return nil, xerrors.Errorf("RangeProofFromBytes point %d: %w", i, err)
		}
		points[i] = p
	}
	scalars := make([]*ristretto.Scalar, 3)
	for i := range scalars {
		s, err := ScalarFromBytes(chunk(4 + i))
		if err != nil {
			return nil, xerrors.Errorf("RangeProofFromBytes scalar %d: %w", i, err)
		}
		scalars[i] = s
	}

	proof := &RangeProof{
		A:          points[0],
		S:          points[1],
		T1:         points[2],
		T2:         points[3],
		TXBlinding: scalars[0],
		EBlinding:  scalars[1],
		TX:         scalars[2],
	}

	if mode == ModeLogarithmic {
		ipp, err := InnerProductProofFromBytes(data[7*32:], nm)
		if err != nil {
			return nil, err
		}
		proof.IPPProof = ipp
		return proof, nil
	}

	proof.LVec = make([]*ristretto.Scalar, nm)
	proof.RVec = make([]*ristretto.Scalar, nm)
	for i := 0; i < nm; i++ {
		l, err := ScalarFromBytes(chunk(7 + i))
		if err != nil {
			return nil, xerrors.Errorf("RangeProofFromBytes l[%d]: %w", i, err)
		}
		r, err := ScalarFromBytes(chunk(7 + nm + i))
		if err != nil {
			return nil, xerrors.Errorf("RangeProofFromBytes r[%d]: %w", i, err)
		}
		proof.LVec[i], proof.RVec[i] = l, r
	}
	return proof, nil
}

// Protocol proves and verifies range proofs for a fixed bit width and mode,
// over one value or an aggregate of several. It holds only read-only state
// and may be shared.
type Protocol struct {
	BPGens *BulletproofGens
	PCGens *PedersenGens
	N      int
	Mode   Mode
}

func NewProtocol(bg *BulletproofGens, pg *PedersenGens, n int, mode Mode) (*Protocol, error) {
	if !isPowerOfTwo(n) || n > MaxBitsize {
		return nil, xerrors.Errorf("NewProtocol invalid bitsize %d: %w", n, ErrInvalidSize)
	}
	if bg == nil || bg.N < n {
		return nil, xerrors.Errorf("NewProtocol generators too short for n %d: %w", n, ErrInvalidSize)
	}
	if !mode.valid() {
		return nil, xerrors.Errorf("NewProtocol %s: %w", mode, ErrInvalidSize)
	}
	if pg == nil {
		pg = DefaultPedersenGens()
	}
	return &Protocol{BPGens: bg, PCGens: pg, N: n, Mode: mode}, nil
}

// Prove creates a proof that value lies in [0, 2^n) and returns it together
// with the commitment V = value·B + blinding·B_blinding.
func (p *Protocol) Prove(transcript *merlin.Transcript, value uint64, blinding *ristretto.Scalar) (*RangeProof, *ristretto.Point, error) {
	proof, V, err := p.ProveMultiple(transcript, []uint64{value}, []*ristretto.Scalar{blinding})
	if err != nil {
		return nil, nil, err
	}
	return proof, V[0], nil
}

// ProveMultiple creates one proof that every value lies in [0, 2^n). The
// number of values must be a power of two and the generators must hold at
// least n·len(values) points. Commitments are returned in value order.
func (p *Protocol) ProveMultiple(transcript *merlin.Transcript, values []uint64, blindings []*ristretto.Scalar) (*RangeProof, []*ristretto.Point, error) {
	if len(values) != len(blindings) {
		return nil, nil, xerrors.Errorf("ProveMultiple %d values, %d blindings: %w", len(values), len(blindings), ErrLengthMismatch)
	}
	for _, v := range values {
		if p.N < 64 && v>>uint(p.N) != 0 {
			return nil, nil, xerrors.Errorf("ProveMultiple value out of range for %d bits: %w", p.N, ErrInvalidSize)
		}
	}
	return p.proveMultiple(transcript, values, blindings)
}

func (p *Protocol) prove(transcript *merlin.Transcript, value uint64, blinding *ristretto.Scalar) (*RangeProof, *ristretto.Point, error) {
	proof, V, err := p.proveMultiple(transcript, []uint64{value}, []*ristretto.Scalar{blinding})
	if err != nil {
		return nil, nil, err
	}
	return proof, V[0], nil
}

func (p *Protocol) proveMultiple(transcript *merlin.Transcript, values []uint64, blindings []*ristretto.Scalar) (*RangeProof, []*ristretto.Point, error) {
	m := len(values)
	dealer1, err := NewDealer(p.BPGens, p.PCGens, transcript, p.N, m, p.Mode)
	if err != nil {
		return nil, nil, err
	}

	parties2 := make([]*PartyAwaitingBitChallenge, m)
	bitCommitments := make([]*BitCommitment, m)
	for j := range values {
		party1, err := NewParty(p.BPGens, p.PCGens, values[j], blindings[j], p.N)
		if err != nil {
			return nil, nil, err
		}
		parties2[j], bitCommitments[j], err = party1.AssignPosition(j)
		if err != nil {
			return nil, nil, err
		}
	}
	dealer2, bitChallenge, err := dealer1.ReceiveBitCommitments(bitCommitments)
	if err != nil {
		return nil, nil, err
	}

	parties3 := make([]*PartyAwaitingPolyChallenge, m)
	polyCommitments := make([]*PolyCommitment, m)
	for j, party := range parties2 {
		parties3[j], polyCommitments[j], err = party.ApplyBitChallenge(bitChallenge)
		if err != nil {
			return nil, nil, err
		}
	}
	dealer3, polyChallenge, err := dealer2.ReceivePolyCommitments(polyCommitments)
	if err != nil {
		return nil, nil, err
	}

	shares := make([]*ProofShare, m)
	for j, party := range parties3 {
		shares[j], err = party.ApplyPolyChallenge(polyChallenge)
		if err != nil {
			return nil, nil, err
		}
	}
	proof, err := dealer3.AssembleShares(shares)
	if err != nil {
		return nil, nil, err
	}
	logger().Debug().Int("n", p.N).Int("m", m).Str("mode", p.Mode.String()).Msg("range proof created")
	return proof, dealer2.V, nil
}

// ProveAtLeast proves secret >= threshold by proving secret - threshold is in
// range. The subtraction floors at zero, so a secret below the threshold is
// encoded exactly like a secret equal to it and still yields a valid proof.
func (p *Protocol) ProveAtLeast(transcript *merlin.Transcript, secret, threshold uint64, blinding *ristretto.Scalar) (*RangeProof, *ristretto.Point, error) {
	return p.Prove(transcript, SaturatingSub(secret, threshold), blinding)
}

func SaturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

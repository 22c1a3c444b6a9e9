package rangeproof

import "github.com/bwesterb/go-ristretto"

// BitCommitment is the prover's first message.
type BitCommitment struct {
	V *ristretto.Point // commitment to the value
	A *ristretto.Point
	S *ristretto.Point
}

type BitChallenge struct {
	Y *ristretto.Scalar
	Z *ristretto.Scalar
}

type PolyCommitment struct {
	T1 *ristretto.Point
	T2 *ristretto.Point
}

type PolyChallenge struct {
	X *ristretto.Scalar
}

// ProofShare carries t(x), its blinding, the blinding of A + x·S and the
// evaluated vectors l(x), r(x).
type ProofShare struct {
	TX         *ristretto.Scalar
	TXBlinding *ristretto.Scalar
	EBlinding  *ristretto.Scalar
	LVec       []*ristretto.Scalar
	RVec       []*ristretto.Scalar
}

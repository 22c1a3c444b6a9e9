package rangeproof

import "golang.org/x/xerrors"

var (
	// ErrInvalidSize is returned when a bit width is not a power of two, or a
	// value or generator set does not fit the requested size.
	ErrInvalidSize = xerrors.New("rangeproof: invalid size")
	// ErrLengthMismatch is returned when two vectors that must be paired
	// element-wise have different lengths.
	ErrLengthMismatch = xerrors.New("rangeproof: length mismatch")
	// ErrDegenerateChallenge is returned when a Fiat-Shamir challenge keeps
	// landing on a forbidden value after re-derivation.
	ErrDegenerateChallenge = xerrors.New("rangeproof: degenerate challenge")
	// ErrProofMalformed is returned for proofs with the wrong shape or
	// non-canonical encodings.
	ErrProofMalformed = xerrors.New("rangeproof: malformed proof")
	// ErrVerificationFailed is returned for well-formed proofs whose
	// equations do not hold.
	ErrVerificationFailed = xerrors.New("rangeproof: verification failed")
)

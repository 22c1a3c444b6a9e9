package rangeproof

import (
	"encoding/binary"

	"github.com/bwesterb/go-ristretto"
	"github.com/gtank/merlin"
	"golang.org/x/xerrors"
)

const (
	BULLETPROOF_DOMAIN_TAG = "rangeproof_bulletproof_transcript"

	maxChallengeAttempts = 16
)

func InitialTranscript(label string) *merlin.Transcript {
	return merlin.NewTranscript(label)
}

func RangeproofDomainSep(n, m uint64, mode Mode, t *merlin.Transcript) *merlin.Transcript {
	appendBytes([]byte("dom-sep"), []byte("rangeproof v1"), t)

	appendInt64("n", n, t)
	appendInt64("m", m, t)
	appendInt64("mode", uint64(mode), t)
	return t
}

func InnerproductDomainSep(n uint64, t *merlin.Transcript) {
	appendBytes([]byte("dom-sep"), []byte("ipp v1"), t)
	appendInt64("n", n, t)
}

func appendInt64(label string, i uint64, t *merlin.Transcript) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, i)
	appendBytes([]byte(label), buf, t)
}

func appendBytes(field, data []byte, t *merlin.Transcript) {
	t.AppendMessage(field, data)
}

func ChallengeScalar(label string, t *merlin.Transcript) *ristretto.Scalar {
	data := t.ExtractBytes([]byte(label), 64)
	var dataBytes [64]byte
	copy(dataBytes[:], data)

	var s ristretto.Scalar
	return s.SetReduced(&dataBytes)
}

// deriveChallenge is the raw draw behind challengeScalarNonZero.
var deriveChallenge = ChallengeScalar

// challengeScalarNonZero derives a challenge and, while it is zero, binds a
// retry counter into the transcript and derives again. The prover and the
// verifier walk the same sequence, so no external randomness is involved.
func challengeScalarNonZero(label string, t *merlin.Transcript) (*ristretto.Scalar, error) {
	for attempt := 0; attempt < maxChallengeAttempts; attempt++ {
		s := deriveChallenge(label, t)
		if !isZeroScalar(s) {
			return s, nil
		}
		appendInt64(label+"-retry", uint64(attempt+1), t)
	}
	return nil, xerrors.Errorf("challenge %s: %w", label, ErrDegenerateChallenge)
}

func AppendScalar(label string, s *ristretto.Scalar, t *merlin.Transcript) {
	appendBytes([]byte(label), s.Bytes(), t)
}

func AppendPoint(label string, p *ristretto.Point, t *merlin.Transcript) {
	appendBytes([]byte(label), p.Bytes(), t)
}

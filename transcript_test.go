package rangeproof

import (
	"encoding/hex"
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/gtank/merlin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestTranscript(t *testing.T) {
	assert := assert.New(t)

	digest := func(n, m uint64, mode Mode) string {
		tt := InitialTranscript(BULLETPROOF_DOMAIN_TAG)
		RangeproofDomainSep(n, m, mode, tt)
		return hex.EncodeToString(tt.ExtractBytes([]byte("digest32"), 32))
	}
	assert.Equal(digest(64, 1, ModeLogarithmic), digest(64, 1, ModeLogarithmic))
	assert.NotEqual(digest(64, 1, ModeLogarithmic), digest(32, 1, ModeLogarithmic))
	assert.NotEqual(digest(64, 1, ModeLogarithmic), digest(64, 2, ModeLogarithmic))
	assert.NotEqual(digest(64, 1, ModeLogarithmic), digest(64, 1, ModeLinear))

	t1 := InitialTranscript("challenge")
	t2 := InitialTranscript("challenge")
	AppendPoint("P", DefaultPedersenGens().B, t1)
	AppendPoint("P", DefaultPedersenGens().B, t2)
	c1, err := challengeScalarNonZero("y", t1)
	assert.Nil(err)
	c2, err := challengeScalarNonZero("y", t2)
	assert.Nil(err)
	assert.True(c1.Equals(c2))
	assert.False(isZeroScalar(c1))

	// successive challenges differ
	c3, err := challengeScalarNonZero("y", t1)
	assert.Nil(err)
	assert.False(c1.Equals(c3))

	t3 := InitialTranscript("challenge")
	AppendScalar("s", c1, t3)
	assert.False(ChallengeScalar("y", t3).Equals(c1))
}

func zeroOnce(label string) func() {
	saved := deriveChallenge
	fired := false
	deriveChallenge = func(l string, tr *merlin.Transcript) *ristretto.Scalar {
		s := ChallengeScalar(l, tr)
		if l == label && !fired {
			fired = true
			return zeroScalar()
		}
		return s
	}
	return func() { deriveChallenge = saved }
}

func TestChallengeRetry(t *testing.T) {
	assert := assert.New(t)

	restore := zeroOnce("y")
	t1 := InitialTranscript("challenge")
	c1, err := challengeScalarNonZero("y", t1)
	restore()
	require.Nil(t, err)
	assert.False(isZeroScalar(c1))

	// the retry counter is bound into the transcript before the second draw
	t2 := InitialTranscript("challenge")
	ChallengeScalar("y", t2)
	appendInt64("y-retry", 1, t2)
	assert.True(c1.Equals(ChallengeScalar("y", t2)))

	t3 := InitialTranscript("challenge")
	assert.False(c1.Equals(ChallengeScalar("y", t3)))

	saved := deriveChallenge
	defer func() { deriveChallenge = saved }()
	calls := 0
	deriveChallenge = func(l string, tr *merlin.Transcript) *ristretto.Scalar {
		calls++
		return zeroScalar()
	}
	_, err = challengeScalarNonZero("y", InitialTranscript("challenge"))
	assert.True(xerrors.Is(err, ErrDegenerateChallenge))
	assert.Equal(maxChallengeAttempts, calls)
}

func TestProveVerifyChallengeRetry(t *testing.T) {
	assert := assert.New(t)

	for _, mode := range []Mode{ModeLogarithmic, ModeLinear} {
		p := newTestProtocol(t, 16, mode)

		restore := zeroOnce("x")
		proof, V, err := p.Prove(InitialTranscript(testTranscriptLabel), 4242, randomBlinding())
		restore()
		require.Nil(t, err)

		restore = zeroOnce("x")
		err = p.Verify(InitialTranscript(testTranscriptLabel), proof, V)
		restore()
		assert.Nil(err, "%s", mode)

		// without the retry the verifier derives a different x
		err = p.Verify(InitialTranscript(testTranscriptLabel), proof, V)
		assert.True(xerrors.Is(err, ErrVerificationFailed), "%s", mode)
	}
}

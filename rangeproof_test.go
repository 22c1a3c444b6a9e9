package rangeproof

import (
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

const testTranscriptLabel = "RangeProofTest"

func newTestProtocol(t *testing.T, n int, mode Mode) *Protocol {
	bg, err := LoadBulletproofGens(DefaultGeneratorsLabel, n)
	require.Nil(t, err)
	p, err := NewProtocol(bg, nil, n, mode)
	require.Nil(t, err)
	return p
}

func newAggregateProtocol(t *testing.T, n, m int, mode Mode) *Protocol {
	bg, err := LoadBulletproofGens(DefaultGeneratorsLabel, n*m)
	require.Nil(t, err)
	p, err := NewProtocol(bg, nil, n, mode)
	require.Nil(t, err)
	return p
}

func randomBlinding() *ristretto.Scalar {
	var s ristretto.Scalar
	return s.Rand()
}

func randomBlindings(m int) []*ristretto.Scalar {
	return RandomScalars(m)
}

func TestRangeProofCompleteness(t *testing.T) {
	assert := assert.New(t)

	for _, mode := range []Mode{ModeLogarithmic, ModeLinear} {
		for _, n := range []int{8, 16, 32, 64} {
			p := newTestProtocol(t, n, mode)
			top := ^uint64(0) >> uint(64-n)
			for _, v := range []uint64{0, 1, top / 3, top} {
				blinding := randomBlinding()
				proof, V, err := p.Prove(InitialTranscript(testTranscriptLabel), v, blinding)
				require.Nil(t, err)
				assert.True(V.Equals(p.PCGens.Commit(uint64ToScalar(v), blinding)))
				assert.Equal(mode, proof.Mode())
				assert.Len(proof.ToBytes(), EncodedLen(n, 1, mode))
				assert.Nil(p.Verify(InitialTranscript(testTranscriptLabel), proof, V), "%s n %d v %d", mode, n, v)
			}
		}
	}
}

func TestRangeProofSizes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal((7+2*6+2)*32, EncodedLen(64, 1, ModeLogarithmic))
	assert.Equal((7+2*64)*32, EncodedLen(64, 1, ModeLinear))
	assert.Equal((7+2)*32, EncodedLen(1, 1, ModeLogarithmic))
	assert.Equal((7+2*8+2)*32, EncodedLen(64, 4, ModeLogarithmic))

	p := newTestProtocol(t, 32, ModeLogarithmic)
	proof, _, err := p.Prove(InitialTranscript(testTranscriptLabel), 42, randomBlinding())
	require.Nil(t, err)
	chunks := proof.Chunks()
	assert.Len(chunks, EncodedLen(32, 1, ModeLogarithmic)/32)
	assert.Equal(proof.A.Bytes(), chunks[0][:])
	assert.Equal(proof.TX.Bytes(), chunks[6][:])
}

func TestRangeProofSoundness(t *testing.T) {
	assert := assert.New(t)

	for _, mode := range []Mode{ModeLogarithmic, ModeLinear} {
		p := newTestProtocol(t, 8, mode)

		// value 256 has no 8-bit decomposition
		proof, V, err := p.prove(InitialTranscript(testTranscriptLabel), 256, randomBlinding())
		require.Nil(t, err)
		err = p.Verify(InitialTranscript(testTranscriptLabel), proof, V)
		assert.True(xerrors.Is(err, ErrVerificationFailed), "%s", mode)

		_, _, err = p.Prove(InitialTranscript(testTranscriptLabel), 256, randomBlinding())
		assert.True(xerrors.Is(err, ErrInvalidSize))

		// a valid proof does not open a different commitment
		blinding := randomBlinding()
		proof, _, err = p.Prove(InitialTranscript(testTranscriptLabel), 100, blinding)
		require.Nil(t, err)
		other := p.PCGens.Commit(uint64ToScalar(101), blinding)
		err = p.Verify(InitialTranscript(testTranscriptLabel), proof, other)
		assert.True(xerrors.Is(err, ErrVerificationFailed))

		// a different transcript label
		V = p.PCGens.Commit(uint64ToScalar(100), blinding)
		assert.Nil(p.Verify(InitialTranscript(testTranscriptLabel), proof, V))
		err = p.Verify(InitialTranscript("other"), proof, V)
		assert.True(xerrors.Is(err, ErrVerificationFailed))

		// corrupted t_hat
		saved := proof.TX
		var s ristretto.Scalar
		proof.TX = s.Add(saved, oneScalar())
		err = p.Verify(InitialTranscript(testTranscriptLabel), proof, V)
		assert.True(xerrors.Is(err, ErrVerificationFailed))
		proof.TX = saved

		// corrupted mu
		saved = proof.EBlinding
		proof.EBlinding = s.Add(saved, oneScalar())
		err = p.Verify(InitialTranscript(testTranscriptLabel), proof, V)
		assert.True(xerrors.Is(err, ErrVerificationFailed))
		proof.EBlinding = saved

		assert.Nil(p.Verify(InitialTranscript(testTranscriptLabel), proof, V))
	}
}

func TestRangeProofModeMismatch(t *testing.T) {
	assert := assert.New(t)

	linear := newTestProtocol(t, 16, ModeLinear)
	logarithmic := newTestProtocol(t, 16, ModeLogarithmic)

	proof, V, err := linear.Prove(InitialTranscript(testTranscriptLabel), 7, randomBlinding())
	require.Nil(t, err)
	err = logarithmic.Verify(InitialTranscript(testTranscriptLabel), proof, V)
	assert.True(xerrors.Is(err, ErrProofMalformed))

	proof, V, err = logarithmic.Prove(InitialTranscript(testTranscriptLabel), 7, randomBlinding())
	require.Nil(t, err)
	err = linear.Verify(InitialTranscript(testTranscriptLabel), proof, V)
	assert.True(xerrors.Is(err, ErrProofMalformed))

	wide := newTestProtocol(t, 32, ModeLogarithmic)
	err = wide.Verify(InitialTranscript(testTranscriptLabel), proof, V)
	assert.True(xerrors.Is(err, ErrVerificationFailed) || xerrors.Is(err, ErrProofMalformed))

	assert.True(xerrors.Is(linear.Verify(InitialTranscript(testTranscriptLabel), proof, nil), ErrProofMalformed))
}

func TestRangeProofEncoding(t *testing.T) {
	assert := assert.New(t)

	for _, mode := range []Mode{ModeLogarithmic, ModeLinear} {
		p := newTestProtocol(t, 16, mode)
		proof, V, err := p.Prove(InitialTranscript(testTranscriptLabel), 54321, randomBlinding())
		require.Nil(t, err)

		data := proof.ToBytes()
		decoded, err := RangeProofFromBytes(data, 16, 1, mode)
		require.Nil(t, err)
		assert.Equal(data, decoded.ToBytes())
		assert.Nil(p.Verify(InitialTranscript(testTranscriptLabel), decoded, V))

		_, err = RangeProofFromBytes(data[:len(data)-32], 16, 1, mode)
		assert.True(xerrors.Is(err, ErrProofMalformed))
		_, err = RangeProofFromBytes(append(data, make([]byte, 32)...), 16, 1, mode)
		assert.True(xerrors.Is(err, ErrProofMalformed))
		_, err = RangeProofFromBytes(data, 12, 1, mode)
		assert.True(xerrors.Is(err, ErrInvalidSize))
		_, err = RangeProofFromBytes(data, 16, 1, Mode(7))
		assert.True(xerrors.Is(err, ErrInvalidSize))

		bad := append([]byte(nil), data...)
		for i := 0; i < 32; i++ {
			bad[i] = 0xff
		}
		_, err = RangeProofFromBytes(bad, 16, 1, mode)
		assert.True(xerrors.Is(err, ErrProofMalformed))
	}
}

func TestProveAtLeast(t *testing.T) {
	assert := assert.New(t)

	p := newTestProtocol(t, 8, ModeLogarithmic)

	proof, V, err := p.ProveAtLeast(InitialTranscript(testTranscriptLabel), 20, 19, randomBlinding())
	require.Nil(t, err)
	assert.Nil(p.Verify(InitialTranscript(testTranscriptLabel), proof, V))

	blinding := randomBlinding()
	proof, V, err = p.ProveAtLeast(InitialTranscript(testTranscriptLabel), 16, 20, blinding)
	require.Nil(t, err)
	assert.Nil(p.Verify(InitialTranscript(testTranscriptLabel), proof, V))
	assert.True(V.Equals(p.PCGens.Commit(zeroScalar(), blinding)))

	_, _, err = p.ProveAtLeast(InitialTranscript(testTranscriptLabel), 1000, 1, randomBlinding())
	assert.True(xerrors.Is(err, ErrInvalidSize))

	assert.Equal(uint64(1), SaturatingSub(20, 19))
	assert.Equal(uint64(0), SaturatingSub(16, 20))
	assert.Equal(uint64(0), SaturatingSub(0, ^uint64(0)))
}

func TestNewProtocol(t *testing.T) {
	assert := assert.New(t)

	bg, err := LoadBulletproofGens(DefaultGeneratorsLabel, 16)
	require.Nil(t, err)

	_, err = NewProtocol(bg, nil, 12, ModeLinear)
	assert.True(xerrors.Is(err, ErrInvalidSize))
	_, err = NewProtocol(bg, nil, 32, ModeLinear)
	assert.True(xerrors.Is(err, ErrInvalidSize))
	_, err = NewProtocol(bg, nil, 128, ModeLinear)
	assert.True(xerrors.Is(err, ErrInvalidSize))
	_, err = NewProtocol(bg, nil, 16, Mode(9))
	assert.True(xerrors.Is(err, ErrInvalidSize))
	_, err = NewProtocol(nil, nil, 16, ModeLinear)
	assert.True(xerrors.Is(err, ErrInvalidSize))

	p, err := NewProtocol(bg, nil, 8, ModeLinear)
	assert.Nil(err)
	assert.True(p.PCGens.B.Equals(DefaultPedersenGens().B))

	for _, s := range []string{"log", "logarithmic", "linear"} {
		m, err := ParseMode(s)
		assert.Nil(err)
		assert.True(m.valid())
	}
	_, err = ParseMode("quadratic")
	assert.NotNil(err)
	assert.Equal("linear", ModeLinear.String())
	assert.Equal("log", ModeLogarithmic.String())
}

func TestRangeProofAggregated(t *testing.T) {
	assert := assert.New(t)

	for _, mode := range []Mode{ModeLogarithmic, ModeLinear} {
		for _, m := range []int{1, 2, 4} {
			const n = 16
			p := newAggregateProtocol(t, n, m, mode)
			values := make([]uint64, m)
			for j := range values {
				values[j] = uint64(1000*j + 7)
			}
			values[m-1] = 1<<n - 1
			blindings := randomBlindings(m)

			proof, Vs, err := p.ProveMultiple(InitialTranscript(testTranscriptLabel), values, blindings)
			require.Nil(t, err)
			require.Len(t, Vs, m)
			for j := range Vs {
				assert.True(Vs[j].Equals(p.PCGens.Commit(uint64ToScalar(values[j]), blindings[j])))
			}
			assert.Len(proof.ToBytes(), EncodedLen(n, m, mode))
			assert.Nil(p.VerifyMultiple(InitialTranscript(testTranscriptLabel), proof, Vs), "%s m %d", mode, m)

			decoded, err := RangeProofFromBytes(proof.ToBytes(), n, m, mode)
			require.Nil(t, err)
			assert.Nil(p.VerifyMultiple(InitialTranscript(testTranscriptLabel), decoded, Vs))

			// a commitment to a different value
			tampered := append([]*ristretto.Point(nil), Vs...)
			tampered[0] = p.PCGens.Commit(uint64ToScalar(values[0]+1), blindings[0])
			err = p.VerifyMultiple(InitialTranscript(testTranscriptLabel), proof, tampered)
			assert.True(xerrors.Is(err, ErrVerificationFailed))

			if m > 1 {
				swapped := append([]*ristretto.Point(nil), Vs...)
				swapped[0], swapped[1] = swapped[1], swapped[0]
				err = p.VerifyMultiple(InitialTranscript(testTranscriptLabel), proof, swapped)
				assert.True(xerrors.Is(err, ErrVerificationFailed))

				err = p.VerifyMultiple(InitialTranscript(testTranscriptLabel), proof, Vs[:m/2])
				assert.True(xerrors.Is(err, ErrProofMalformed))
			}
		}
	}
}

func TestProveMultipleInvalid(t *testing.T) {
	assert := assert.New(t)

	p := newAggregateProtocol(t, 8, 2, ModeLogarithmic)

	_, _, err := p.ProveMultiple(InitialTranscript(testTranscriptLabel), []uint64{1, 2}, randomBlindings(1))
	assert.True(xerrors.Is(err, ErrLengthMismatch))
	_, _, err = p.ProveMultiple(InitialTranscript(testTranscriptLabel), []uint64{1, 256}, randomBlindings(2))
	assert.True(xerrors.Is(err, ErrInvalidSize))
	// four values need 32 generators
	_, _, err = p.ProveMultiple(InitialTranscript(testTranscriptLabel), []uint64{1, 2, 3, 4}, randomBlindings(4))
	assert.True(xerrors.Is(err, ErrInvalidSize))
	_, _, err = p.ProveMultiple(InitialTranscript(testTranscriptLabel), []uint64{1, 2, 3}, randomBlindings(3))
	assert.True(xerrors.Is(err, ErrInvalidSize))

	// an out of range value inside an aggregate fails verification
	proof, Vs, err := p.proveMultiple(InitialTranscript(testTranscriptLabel), []uint64{3, 256}, randomBlindings(2))
	require.Nil(t, err)
	err = p.VerifyMultiple(InitialTranscript(testTranscriptLabel), proof, Vs)
	assert.True(xerrors.Is(err, ErrVerificationFailed))
}

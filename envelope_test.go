package rangeproof

import (
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestEnvelope(t *testing.T) {
	assert := assert.New(t)

	for _, mode := range []Mode{ModeLogarithmic, ModeLinear} {
		p := newTestProtocol(t, 32, mode)
		proof, V, err := p.ProveAtLeast(InitialTranscript("envelope"), 5000, 1000, randomBlinding())
		require.Nil(t, err)

		e := &Envelope{
			GeneratorsLabel: DefaultGeneratorsLabel,
			TranscriptLabel: "envelope",
			N:               32,
			Mode:            mode,
			Commitments:     []*ristretto.Point{V},
			Proof:           proof,
		}
		data := e.Marshal()

		decoded, err := UnmarshalEnvelope(data)
		require.Nil(t, err)
		assert.Equal(e.GeneratorsLabel, decoded.GeneratorsLabel)
		assert.Equal(e.TranscriptLabel, decoded.TranscriptLabel)
		assert.Equal(32, decoded.N)
		assert.Equal(mode, decoded.Mode)
		require.Len(t, decoded.Commitments, 1)
		assert.True(V.Equals(decoded.Commitments[0]))
		assert.Equal(proof.ToBytes(), decoded.Proof.ToBytes())
		assert.Nil(decoded.Verify())

		// unknown fields are skipped
		extra := protowire.AppendTag(append([]byte(nil), data...), 99, protowire.VarintType)
		extra = protowire.AppendVarint(extra, 12345)
		decoded, err = UnmarshalEnvelope(extra)
		require.Nil(t, err)
		assert.Nil(decoded.Verify())

		_, err = UnmarshalEnvelope(data[:len(data)-1])
		assert.True(xerrors.Is(err, ErrProofMalformed))

		decoded.TranscriptLabel = "tampered"
		assert.True(xerrors.Is(decoded.Verify(), ErrVerificationFailed))

		decoded.TranscriptLabel = "envelope"
		decoded.GeneratorsLabel = "other-generators"
		assert.True(xerrors.Is(decoded.Verify(), ErrVerificationFailed))
	}
}

func TestEnvelopeAggregated(t *testing.T) {
	assert := assert.New(t)

	p := newAggregateProtocol(t, 16, 2, ModeLogarithmic)
	proof, Vs, err := p.ProveMultiple(InitialTranscript("envelope"), []uint64{7, 9}, randomBlindings(2))
	require.Nil(t, err)

	e := &Envelope{
		GeneratorsLabel: DefaultGeneratorsLabel,
		TranscriptLabel: "envelope",
		N:               16,
		Mode:            ModeLogarithmic,
		Commitments:     Vs,
		Proof:           proof,
	}
	decoded, err := UnmarshalEnvelope(e.Marshal())
	require.Nil(t, err)
	require.Len(t, decoded.Commitments, 2)
	assert.True(Vs[1].Equals(decoded.Commitments[1]))
	assert.Nil(decoded.Verify())

	decoded.Commitments[0], decoded.Commitments[1] = decoded.Commitments[1], decoded.Commitments[0]
	assert.True(xerrors.Is(decoded.Verify(), ErrVerificationFailed))

	// one commitment does not match a proof sized for two
	e.Commitments = Vs[:1]
	_, err = UnmarshalEnvelope(e.Marshal())
	assert.True(xerrors.Is(err, ErrProofMalformed))
}

func TestEnvelopeMalformed(t *testing.T) {
	assert := assert.New(t)

	_, err := UnmarshalEnvelope(nil)
	assert.True(xerrors.Is(err, ErrProofMalformed))

	var b []byte
	b = protowire.AppendTag(b, envelopeBits, protowire.VarintType)
	b = protowire.AppendVarint(b, 128)
	_, err = UnmarshalEnvelope(b)
	assert.True(xerrors.Is(err, ErrInvalidSize))

	b = b[:0]
	b = protowire.AppendTag(b, envelopeBits, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{1})
	_, err = UnmarshalEnvelope(b)
	assert.True(xerrors.Is(err, ErrProofMalformed))

	b = b[:0]
	b = protowire.AppendTag(b, envelopeMode, protowire.VarintType)
	b = protowire.AppendVarint(b, 1<<20)
	_, err = UnmarshalEnvelope(b)
	assert.True(xerrors.Is(err, ErrProofMalformed))
}

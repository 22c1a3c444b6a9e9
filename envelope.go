package rangeproof

import (
	"github.com/bwesterb/go-ristretto"
	"golang.org/x/xerrors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	envelopeGeneratorsLabel protowire.Number = 1
	envelopeTranscriptLabel protowire.Number = 2
	envelopeBits            protowire.Number = 3
	envelopeMode            protowire.Number = 4
	envelopeCommitment      protowire.Number = 5
	envelopeProof           protowire.Number = 6
)

// Envelope bundles a proof with everything a verifier needs to check it.
// It is encoded as a protobuf message; Commitments is a repeated field holding
// one commitment per proven value.
type Envelope struct {
	GeneratorsLabel string
	TranscriptLabel string
	N               int
	Mode            Mode
	Commitments     []*ristretto.Point
	Proof           *RangeProof
}

func (e *Envelope) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, envelopeGeneratorsLabel, protowire.BytesType)
	b = protowire.AppendString(b, e.GeneratorsLabel)
	b = protowire.AppendTag(b, envelopeTranscriptLabel, protowire.BytesType)
	b = protowire.AppendString(b, e.TranscriptLabel)
	b = protowire.AppendTag(b, envelopeBits, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.N))
	b = protowire.AppendTag(b, envelopeMode, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.Mode))
	for _, c := range e.Commitments {
		b = protowire.AppendTag(b, envelopeCommitment, protowire.BytesType)
		b = protowire.AppendBytes(b, c.Bytes())
	}
	b = protowire.AppendTag(b, envelopeProof, protowire.BytesType)
	b = protowire.AppendBytes(b, e.Proof.ToBytes())
	return b
}

func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	e := &Envelope{}
	var commitments [][]byte
	var proof []byte
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, xerrors.Errorf("envelope tag: %v: %w", protowire.ParseError(n), ErrProofMalformed)
		}
		data = data[n:]

		switch num {
		case envelopeGeneratorsLabel, envelopeTranscriptLabel, envelopeCommitment, envelopeProof:
			if typ != protowire.BytesType {
				return nil, xerrors.Errorf("envelope field %d wire type %d: %w", num, typ, ErrProofMalformed)
			}
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, xerrors.Errorf("envelope field %d: %v: %w", num, protowire.ParseError(m), ErrProofMalformed)
			}
			data = data[m:]
			switch num {
			case envelopeGeneratorsLabel:
				e.GeneratorsLabel = string(v)
			case envelopeTranscriptLabel:
				e.TranscriptLabel = string(v)
			case envelopeCommitment:
				if len(commitments) == MaxAggregation {
					return nil, xerrors.Errorf("envelope commitments over %d: %w", MaxAggregation, ErrInvalidSize)
				}
				commitments = append(commitments, append([]byte(nil), v...))
			case envelopeProof:
				proof = append([]byte(nil), v...)
			}
		case envelopeBits, envelopeMode:
			if typ != protowire.VarintType {
				return nil, xerrors.Errorf("envelope field %d wire type %d: %w", num, typ, ErrProofMalformed)
			}
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, xerrors.Errorf("envelope field %d: %v: %w", num, protowire.ParseError(m), ErrProofMalformed)
			}
			data = data[m:]
			if num == envelopeBits {
				if v > MaxBitsize {
					return nil, xerrors.Errorf("envelope bitsize %d: %w", v, ErrInvalidSize)
				}
				e.N = int(v)
			} else {
				if v > 0xff {
					return nil, xerrors.Errorf("envelope mode %d: %w", v, ErrProofMalformed)
				}
				e.Mode = Mode(v)
			}
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, xerrors.Errorf("envelope field %d: %v: %w", num, protowire.ParseError(m), ErrProofMalformed)
			}
			data = data[m:]
		}
	}

	if len(commitments) == 0 {
		return nil, xerrors.Errorf("envelope without commitments: %w", ErrProofMalformed)
	}
	e.Commitments = make([]*ristretto.Point, len(commitments))
	for j, c := range commitments {
		V, err := PointFromBytes(c)
		if err != nil {
			return nil, xerrors.Errorf("envelope commitment %d: %w", j, err)
		}
		e.Commitments[j] = V
	}
	var err error
	if e.Proof, err = RangeProofFromBytes(proof, e.N, len(e.Commitments), e.Mode); err != nil {
		return nil, xerrors.Errorf("envelope proof: %w", err)
	}
	return e, nil
}

// Verify loads the shared generators named by the envelope and verifies the
// enclosed proof.
func (e *Envelope) Verify() error {
	bg, err := LoadBulletproofGens(e.GeneratorsLabel, e.N*len(e.Commitments))
	if err != nil {
		return err
	}
	protocol, err := NewProtocol(bg, DefaultPedersenGens(), e.N, e.Mode)
	if err != nil {
		return err
	}
	return protocol.VerifyMultiple(InitialTranscript(e.TranscriptLabel), e.Proof, e.Commitments)
}

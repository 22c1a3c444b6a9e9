package rangeproof

import (
	"github.com/bwesterb/go-ristretto"
	"github.com/sourcegraph/conc"
	"golang.org/x/xerrors"
)

// BatchItem is one independent proof to verify, single or aggregated.
// TranscriptLabel must match the label the prover's transcript was created
// with and Commitments must be in proving order.
type BatchItem struct {
	Protocol        *Protocol
	TranscriptLabel string
	Proof           *RangeProof
	Commitments     []*ristretto.Point
}

// VerifyBatch verifies every item concurrently and returns one error per
// item, nil for accepted proofs. Items share no mutable state; each gets a
// fresh transcript. Incomplete items fail with ErrProofMalformed.
func VerifyBatch(items []*BatchItem) []error {
	errs := make([]error, len(items))
	wg := conc.NewWaitGroup()
	for i := range items {
		item := items[i]
		idx := i
		if item == nil || item.Protocol == nil || item.Proof == nil {
			errs[idx] = xerrors.Errorf("VerifyBatch item %d incomplete: %w", idx, ErrProofMalformed)
			continue
		}
		wg.Go(func() {
			t := InitialTranscript(item.TranscriptLabel)
			errs[idx] = item.Protocol.VerifyMultiple(t, item.Proof, item.Commitments)
		})
	}
	wg.Wait()
	return errs
}

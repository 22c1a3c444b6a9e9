package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MixinNetwork/rangeproof-go"
	"github.com/bwesterb/go-ristretto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("rangeproof")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rangeproof",
		Usage: "create and verify Bulletproofs range proofs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "trace, debug, info, warn or error",
				EnvVars: []string{"RANGEPROOF_LOG_LEVEL"},
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			{
				Name:  "prove",
				Usage: "prove that secret - threshold fits in the given number of bits",
				Flags: append(protocolFlags(),
					&cli.Uint64Flag{Name: "secret", Required: true},
					&cli.Uint64Flag{Name: "threshold", Value: 0},
					&cli.StringFlag{Name: "out", Usage: "write the hex envelope to this file instead of stdout"},
				),
				Action: proveCmd,
			},
			{
				Name:  "verify",
				Usage: "verify a hex envelope",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Required: true, Usage: "file holding the hex envelope, - for stdin"},
				},
				Action: verifyCmd,
			},
			{
				Name:   "generators",
				Usage:  "print the derived G and H generators",
				Flags:  protocolFlags(),
				Action: generatorsCmd,
			},
		},
	}
}

func protocolFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "bits", Value: 8, EnvVars: []string{"RANGEPROOF_BITS"}},
		&cli.StringFlag{Name: "mode", Value: "log", EnvVars: []string{"RANGEPROOF_MODE"}},
		&cli.StringFlag{Name: "label", Value: rangeproof.DefaultGeneratorsLabel, EnvVars: []string{"RANGEPROOF_LABEL"}},
		&cli.StringFlag{Name: "transcript", Value: rangeproof.BULLETPROOF_DOMAIN_TAG, EnvVars: []string{"RANGEPROOF_TRANSCRIPT"}},
	}
}

func setupLogging(c *cli.Context) error {
	level, err := zerolog.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	rangeproof.SetLogger(log.Logger)
	return nil
}

func loadProtocol(c *cli.Context) (*rangeproof.Protocol, error) {
	mode, err := rangeproof.ParseMode(c.String("mode"))
	if err != nil {
		return nil, err
	}
	bg, err := rangeproof.LoadBulletproofGens(c.String("label"), c.Int("bits"))
	if err != nil {
		return nil, err
	}
	return rangeproof.NewProtocol(bg, rangeproof.DefaultPedersenGens(), c.Int("bits"), mode)
}

func proveCmd(c *cli.Context) error {
	protocol, err := loadProtocol(c)
	if err != nil {
		return err
	}

	secret, threshold := c.Uint64("secret"), c.Uint64("threshold")
	if secret < threshold {
		log.Warn().Uint64("secret", secret).Uint64("threshold", threshold).Msg("secret below threshold, proving zero")
	}

	var blinding ristretto.Scalar
	blinding.Rand()
	transcriptLabel := c.String("transcript")
	proof, commitment, err := protocol.ProveAtLeast(rangeproof.InitialTranscript(transcriptLabel), secret, threshold, &blinding)
	if err != nil {
		return err
	}

	envelope := &rangeproof.Envelope{
		GeneratorsLabel: c.String("label"),
		TranscriptLabel: transcriptLabel,
		N:               protocol.N,
		Mode:            protocol.Mode,
		Commitments:     []*ristretto.Point{commitment},
		Proof:           proof,
	}
	out := hex.EncodeToString(envelope.Marshal())
	log.Info().Int("bits", protocol.N).Str("mode", protocol.Mode.String()).Int("proof_bytes", len(proof.ToBytes())).Msg("proof created")

	if path := c.String("out"); path != "" {
		return os.WriteFile(path, []byte(out+"\n"), 0644)
	}
	fmt.Println(out)
	return nil
}

func verifyCmd(c *cli.Context) error {
	var data []byte
	var err error
	if path := c.String("in"); path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	raw, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return err
	}
	envelope, err := rangeproof.UnmarshalEnvelope(raw)
	if err != nil {
		return err
	}
	if err := envelope.Verify(); err != nil {
		log.Error().Err(err).Msg("proof rejected")
		return cli.Exit("proof rejected", 1)
	}
	log.Info().Int("bits", envelope.N).Int("values", len(envelope.Commitments)).Str("mode", envelope.Mode.String()).Msg("proof accepted")
	return nil
}

func generatorsCmd(c *cli.Context) error {
	bg, err := rangeproof.LoadBulletproofGens(c.String("label"), c.Int("bits"))
	if err != nil {
		return err
	}
	for i := 0; i < bg.N; i++ {
		fmt.Printf("G[%d] %s\n", i, hex.EncodeToString(bg.G[i].Bytes()))
	}
	for i := 0; i < bg.N; i++ {
		fmt.Printf("H[%d] %s\n", i, hex.EncodeToString(bg.H[i].Bytes()))
	}
	return nil
}

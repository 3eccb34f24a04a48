// Command emotion-infer assesses one biometric snapshot read from stdin and
// writes the JSON result to stdout. A failed run still prints a complete
// record with "emotion_category":"error" and exits with status 1.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/emochain/internal/adapters/codec"
	"github.com/okian/emochain/internal/domain/classifier"
	"github.com/okian/emochain/internal/domain/pipeline"
	"github.com/okian/emochain/internal/domain/scoring"
	"github.com/okian/emochain/pkg/logger"
)

// sampleSnapshot is assessed when stdin is a terminal.
const sampleSnapshot = `{"heart_rate": 75, "hrv": 35, "skin_conductance": 0.4, "movement": 0.2}`

const defaultSeed = 42

var errNoInput = errors.New("no input data received")

type options struct {
	modelPath string
	builtin   bool
	seed      int64
}

func main() {
	var opts options
	flag.StringVar(&opts.modelPath, "model", "", "Classifier model document (YAML or JSON)")
	flag.BoolVar(&opts.builtin, "builtin", false, "Use the bundled profile classifiers")
	flag.Int64Var(&opts.seed, "seed", defaultSeed, "Seed for ensemble authenticity jitter")
	flag.Parse()

	// Diagnostics go to stderr so stdout stays a single JSON document.
	_ = logger.Init(logger.WithOutput(os.Stderr))
	_ = logger.SetLevelString("warn")

	os.Exit(run(context.Background(), os.Stdin, stdinIsTerminal(), os.Stdout, opts))
}

func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// run returns the process exit code.
func run(ctx context.Context, in io.Reader, terminal bool, out io.Writer, opts options) int {
	resp, err := infer(ctx, in, terminal, opts)
	if err != nil {
		resp = codec.ErrorResponse(err)
	}
	enc := json.NewEncoder(out)
	if encErr := enc.Encode(resp); encErr != nil {
		return 1
	}
	if err != nil {
		return 1
	}
	return 0
}

func infer(ctx context.Context, in io.Reader, terminal bool, opts options) (codec.Response, error) {
	var input string
	if terminal {
		input = sampleSnapshot
	} else {
		data, err := io.ReadAll(in)
		if err != nil {
			return codec.Response{}, fmt.Errorf("read stdin: %w", err)
		}
		input = strings.TrimSpace(string(data))
	}
	if input == "" {
		return codec.Response{}, errNoInput
	}

	snap, err := codec.DecodeSnapshot([]byte(input))
	if err != nil {
		return codec.Response{}, err
	}

	p := pipeline.New(scoring.Select(loadClassifiers(ctx, opts), scoring.WithSeed(opts.seed)))
	a, err := p.Evaluate(ctx, nil, snap)
	if err != nil {
		return codec.Response{}, err
	}
	resp := codec.FromAssessment(a)
	// A one-shot run has no validator, session or timeline.
	resp.Derived, resp.Timestamp = nil, nil
	return resp, nil
}

// loadClassifiers prefers the model file and falls back to rule scoring
// when it cannot be read.
func loadClassifiers(ctx context.Context, opts options) []classifier.Classifier {
	switch {
	case opts.modelPath != "":
		cs, err := classifier.LoadModels(ctx, opts.modelPath)
		if err != nil {
			logger.Get().Warn(ctx, "model unavailable, using rule-based scoring",
				logger.String("model_path", opts.modelPath), logger.Error(err))
			return nil
		}
		return cs
	case opts.builtin:
		return classifier.BuiltinModels()
	default:
		return nil
	}
}

package simulate

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/emochain/internal/domain/classifier"
	"github.com/okian/emochain/internal/domain/model"
	"github.com/okian/emochain/pkg/logger"
)

// Indexes into model.FeatureVector for the fields the simulator emits.
const (
	featHeartRate = iota
	featHRV
	featSkinConductance
	featMovement
	featRespiratoryRate
	featTemperature
)

// Generator draws snapshots from the emotional state profiles.
type Generator struct {
	rng      *rand.Rand
	profiles []classifier.Profile
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		profiles: classifier.BuiltinProfiles(),
	}
}

// Generate builds cfg.Snapshots submissions for each of cfg.Validators
// validators. Every validator keeps one emotional state for the run; the
// first SpoofRatio share of them emit spoofed readings instead.
func (g *Generator) Generate(ctx context.Context, cfg *Config) ([]Submission, error) {
	if cfg.Validators < 1 || cfg.Snapshots < 1 {
		return nil, fmt.Errorf("%w: validators and snapshots must be positive", ErrInvalidConfig)
	}
	logger.Get().Info(ctx, "generating validator fleet",
		logger.Int("validators", cfg.Validators),
		logger.Int("snapshotsPerValidator", cfg.Snapshots))

	spoofed := int(math.Round(float64(cfg.Validators) * clamp(cfg.SpoofRatio, 0, 1)))
	out := make([]Submission, 0, cfg.Validators*cfg.Snapshots)
	for v := 0; v < cfg.Validators; v++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}
		validatorID := "validator-" + strconv.Itoa(v)
		profile := g.profiles[g.rng.IntN(len(g.profiles))]
		category := model.CategoryFromID(profile.CategoryID)

		for range cfg.Snapshots {
			sub := Submission{
				SubmissionID: uuid.NewString(),
				ValidatorID:  validatorID,
				Profile:      string(category),
			}
			if v < spoofed {
				sub.Snapshot = g.spoof()
				sub.Spoofed = true
			} else {
				sub.Snapshot = g.sample(profile)
			}
			out = append(out, sub)
		}
	}
	return out, nil
}

// sample draws one reading from profile's per-feature normal distributions.
func (g *Generator) sample(p classifier.Profile) Snapshot {
	draw := func(i int) float64 { return p.Mean[i] + g.rng.NormFloat64()*p.Std[i] }
	return Snapshot{
		// Whole-number heart rates ending in zero trip the round-value check.
		HeartRate:       clamp(math.Round(draw(featHeartRate)*10)/10+0.3, 40, 180),
		HRV:             clamp(draw(featHRV), 5, 120),
		SkinConductance: clamp(draw(featSkinConductance), 0, 1),
		Movement:        clamp(draw(featMovement), 0, 1),
		RespiratoryRate: clamp(draw(featRespiratoryRate), 8, 40),
		Temperature:     clamp(draw(featTemperature), 35, 39),
	}
}

func (g *Generator) spoof() Snapshot {
	return Snapshot{
		HeartRate:       spoofHeartRate,
		HRV:             20 + g.rng.Float64()*10,
		SkinConductance: 0.5,
		Movement:        spoofMovement,
		RespiratoryRate: 16,
		Temperature:     36.6,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

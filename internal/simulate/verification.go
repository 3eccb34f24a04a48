package simulate

import (
	"context"
	"fmt"

	"github.com/okian/emochain/pkg/logger"
)

// Verify checks that a readiness listing is ordered by score descending then
// validator id ascending, that ranks are dense, and, when readyOnly is set,
// that every entry is consensus ready.
func Verify(list ReadyList, readyOnly bool) error {
	if len(list.Validators) > list.Total {
		return fmt.Errorf("%w: %d entries exceed total %d", ErrInconsistent, len(list.Validators), list.Total)
	}
	if list.Ready > list.Total {
		return fmt.Errorf("%w: ready %d exceeds total %d", ErrInconsistent, list.Ready, list.Total)
	}

	for i, e := range list.Validators {
		if readyOnly && !e.ConsensusReady {
			return fmt.Errorf("%w: %s listed as ready but is not", ErrInconsistent, e.ValidatorID)
		}
		if i == 0 {
			if e.Rank != 1 {
				return fmt.Errorf("%w: first entry has rank %d", ErrInconsistent, e.Rank)
			}
			continue
		}
		prev := list.Validators[i-1]
		switch {
		case e.ReadinessScore > prev.ReadinessScore:
			return fmt.Errorf("%w: entry %d scores above entry %d", ErrInconsistent, i, i-1)
		case e.ReadinessScore == prev.ReadinessScore:
			if e.ValidatorID <= prev.ValidatorID {
				return fmt.Errorf("%w: tie at score %d not ordered by id", ErrInconsistent, e.ReadinessScore)
			}
			if e.Rank != prev.Rank {
				return fmt.Errorf("%w: tied entries %d and %d have different ranks", ErrInconsistent, i-1, i)
			}
		default:
			if e.Rank != prev.Rank+1 {
				return fmt.Errorf("%w: rank jumps from %d to %d", ErrInconsistent, prev.Rank, e.Rank)
			}
		}
	}
	return nil
}

// SpoofedReady returns the listed validators whose submissions were all
// spoofed yet are reported consensus ready.
func SpoofedReady(list ReadyList, subs []Submission) []string {
	spoofed := make(map[string]bool)
	for i := range subs {
		if subs[i].Spoofed {
			spoofed[subs[i].ValidatorID] = true
		}
	}
	var out []string
	for _, e := range list.Validators {
		if e.ConsensusReady && spoofed[e.ValidatorID] {
			out = append(out, e.ValidatorID)
		}
	}
	return out
}

func displayTopValidators(ctx context.Context, list ReadyList) {
	log := logger.Get()
	n := min(displayTopN, len(list.Validators))
	log.Info(ctx, "top ready validators", logger.Int("shown", n), logger.Int("ready", list.Ready))
	for _, e := range list.Validators[:n] {
		log.Info(ctx, "validator",
			logger.Int("rank", e.Rank),
			logger.String("id", e.ValidatorID),
			logger.Int("score", e.ReadinessScore),
			logger.String("category", e.EmotionCategory))
	}
}

package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/emochain/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run executes a complete simulation: health check, fleet generation,
// concurrent submission, settling, and verification of the ready listing.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	stats := &Stats{StartTime: time.Now(), Categories: map[string]int{}}
	log := logger.Get()

	log.Info(ctx, "starting validator simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("validators", cfg.Validators),
		logger.Int("snapshots", cfg.Snapshots),
		logger.Int("workers", cfg.Workers),
		logger.Float64("spoofRatio", cfg.SpoofRatio))

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	subs, err := NewGenerator(cfg.Seed).Generate(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("fleet generation failed: %w", err)
	}
	stats.Generated = len(subs)

	submit(ctx, cfg, client, subs, stats)

	if err := settle(ctx, client, cfg.Settle); err != nil {
		log.Warn(ctx, "queue did not drain before reading results", logger.Error(err))
	}

	all, err := client.Ready(ctx, cfg.TopN, true)
	if err != nil {
		return nil, fmt.Errorf("readiness listing failed: %w", err)
	}
	ready, err := client.Ready(ctx, cfg.TopN, false)
	if err != nil {
		return nil, fmt.Errorf("ready listing failed: %w", err)
	}
	stats.Assessed, stats.Ready = all.Total, all.Ready
	for _, e := range all.Validators {
		stats.Categories[e.EmotionCategory]++
	}

	if err := Verify(all, false); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}
	if err := Verify(ready, true); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}
	if n := len(SpoofedReady(ready, subs)); n > 0 {
		log.Warn(ctx, "spoofed validators reported ready", logger.Int("count", n))
	}
	displayTopValidators(ctx, ready)

	if cfg.OutputFile != "" {
		if err := saveSubmissions(cfg.OutputFile, subs); err != nil {
			log.Warn(ctx, "failed to save submissions", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case cfg.BaseURL == "":
		return fmt.Errorf("%w: empty base url", ErrInvalidConfig)
	case cfg.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case cfg.TopN < 1:
		return fmt.Errorf("%w: top must be positive", ErrInvalidConfig)
	case cfg.SpoofRatio < 0 || cfg.SpoofRatio > 1:
		return fmt.Errorf("%w: spoof ratio must be within [0,1]", ErrInvalidConfig)
	}
	return nil
}

// submit fans submissions out to cfg.Workers goroutines.
func submit(ctx context.Context, cfg *Config, client *Client, subs []Submission, stats *Stats) {
	log := logger.Get()
	var accepted, duplicate, rejected, failed, submitted atomic.Int64

	ch := make(chan *Submission, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range ch {
				outcome, err := client.Submit(ctx, *sub)
				submitted.Add(1)
				switch outcome {
				case OutcomeAccepted:
					accepted.Add(1)
				case OutcomeDuplicate:
					duplicate.Add(1)
				case OutcomeRejected:
					rejected.Add(1)
				default:
					failed.Add(1)
					if cfg.Verbose {
						log.Debug(ctx, "submission failed",
							logger.String("validator", sub.ValidatorID), logger.Error(err))
					}
				}
			}
		}()
	}

	func() {
		defer close(ch)
		for i := range subs {
			select {
			case <-ctx.Done():
				return
			case ch <- &subs[i]:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Accepted = int(accepted.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load())

	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))
}

var errNotDrained = errors.New("queue still busy")

// settle polls /stats until two consecutive polls see an empty queue and no
// busy worker. A job between dequeue and the busy counter looks idle once.
func settle(ctx context.Context, client *Client, limit time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	ticker := time.NewTicker(SettlePollInterval)
	defer ticker.Stop()
	quiet := 0
	for {
		stats, err := client.Stats(ctx)
		if err == nil && idle(stats) {
			quiet++
		} else {
			quiet = 0
		}
		if quiet >= 2 {
			return nil
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return err
			}
			return errNotDrained
		case <-ticker.C:
		}
	}
}

func idle(stats map[string]any) bool {
	queued, ok1 := stats["queueLength"].(float64)
	busy, ok2 := stats["busyWorkers"].(float64)
	return ok1 && ok2 && queued == 0 && busy == 0
}

// saveSubmissions writes the generated submissions as a JSON array.
func saveSubmissions(filename string, subs []Submission) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, perSecond float64
	if stats.Submitted > 0 {
		acceptRate = float64(stats.Accepted) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("assessed", stats.Assessed),
		logger.Int("ready", stats.Ready),
		logger.Any("categories", stats.Categories),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("submissionsPerSecond", perSecond))
}

package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// QuotaFunc reports the remaining API quota for the current window.
type QuotaFunc func(ctx context.Context) (int, error)

// defaultLowWater is the remaining-quota level below which the pacer doubles
// its pause.
const defaultLowWater = 500

// Pacer pauses the repository walk on a fixed cadence so long runs stay under
// GitHub's rate budget. An optional quota probe lets it stretch the pause when
// the remaining quota runs low.
type Pacer struct {
	every    int
	pause    time.Duration
	lowWater int
	quota    QuotaFunc
	sleep    func(time.Duration)
	logger   *logrus.Logger
}

// NewPacer creates a pacer that sleeps for pause after every `every`
// repositories processed.
func NewPacer(every int, pause time.Duration, logger *logrus.Logger) *Pacer {
	return &Pacer{
		every:    every,
		pause:    pause,
		lowWater: defaultLowWater,
		sleep:    time.Sleep,
		logger:   logger,
	}
}

// WithQuotaProbe attaches a remaining-quota probe and returns the pacer.
func (p *Pacer) WithQuotaProbe(fn QuotaFunc) *Pacer {
	p.quota = fn
	return p
}

// Tick is called after each processed repository with the running count and
// decides whether to pause.
func (p *Pacer) Tick(ctx context.Context, processed int) {
	if p.every <= 0 || processed == 0 || processed%p.every != 0 {
		return
	}

	pause := p.pause
	if p.quota != nil {
		remaining, err := p.quota(ctx)
		switch {
		case err != nil:
			p.logger.WithError(err).Debug("quota probe failed, keeping base pause")
		case remaining < p.lowWater:
			pause *= 2
			p.logger.WithFields(logrus.Fields{
				"remaining": remaining,
				"pause":     pause,
			}).Warn("api quota running low, doubling pause")
		}
	}

	p.logger.WithFields(logrus.Fields{
		"processed": processed,
		"pause":     pause,
	}).Info("pausing to respect rate limits")
	p.sleep(pause)
}

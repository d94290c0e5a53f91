// Package experiment measures how well an LSB payload survives Gaussian
// noise. For every configured sigma it perturbs a stego image, extracts the
// payload again and records the PSNR of the noisy image and the bit error
// rate of the recovered payload.
package experiment

import (
	"context"
	"image"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/pkg/errors"

	"github.com/Sudarshan-cuk/advanced-image-steganography/config"
	"github.com/Sudarshan-cuk/advanced-image-steganography/logger"
	"github.com/Sudarshan-cuk/advanced-image-steganography/metrics"
	"github.com/Sudarshan-cuk/advanced-image-steganography/stegano"
)

// Result is the outcome for one noise level, averaged over all trials.
type Result struct {
	Sigma float64
	PSNR  float64 // stego vs noisy stego, dB
	BER   float64 // payload vs recovered payload
}

// Report is the outcome of one sweep.
type Report struct {
	ID          uuid.UUID
	Capacity    int // cover capacity in bits
	PayloadBits int
	EmbedPSNR   float64 // cover vs stego, dB
	Results     []Result
	Elapsed     time.Duration
}

// Runner runs noise sweeps. A Runner owns its random source and must not be
// shared between goroutines.
type Runner struct {
	config config.ExperimentConfig
	logger logger.Logger
	rng    *rand.Rand
}

// NewRunner returns a Runner for cfg. A zero seed picks a time-based one.
func NewRunner(cfg config.ExperimentConfig, log logger.Logger) *Runner {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{
		config: cfg,
		logger: log,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Run embeds the configured message in cover and sweeps the configured
// sigmas over the resulting stego image.
func (r *Runner) Run(ctx context.Context, cover image.Image) (*Report, error) {
	start := time.Now()
	payload := []byte(r.config.Message)

	stego, err := stegano.Embed(cover, payload)
	if err != nil {
		return nil, errors.Wrap(err, "experiment: unable to embed payload")
	}
	embedPSNR, err := metrics.PSNR(cover, stego)
	if err != nil {
		return nil, errors.Wrap(err, "experiment: unable to compare cover and stego")
	}

	report := &Report{
		ID:          uuid.New(),
		Capacity:    stegano.Capacity(cover),
		PayloadBits: len(payload) * 8,
		EmbedPSNR:   embedPSNR,
		Results:     make([]Result, 0, len(r.config.Sigmas)),
	}
	r.logger.Infof("Run %s: embedded %s of %s bits, PSNR (cover->stego): %.2f dB",
		report.ID, humanize.Comma(int64(report.PayloadBits)), humanize.Comma(int64(report.Capacity)), embedPSNR)

	for _, sigma := range r.config.Sigmas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := r.measure(stego, payload, sigma)
		if err != nil {
			return nil, err
		}
		r.logger.Infof("σ=%v: PSNR=%.1fdB, BER=%.4f", result.Sigma, result.PSNR, result.BER)
		report.Results = append(report.Results, result)
	}

	report.Elapsed = time.Since(start)
	r.logger.Debugf("Run %s finished in %s", report.ID, durafmt.Parse(report.Elapsed))
	return report, nil
}

func (r *Runner) measure(stego image.Image, payload []byte, sigma float64) (Result, error) {
	trials := r.config.Trials
	if trials < 1 {
		trials = 1
	}

	var psnrSum, berSum float64
	for i := 0; i < trials; i++ {
		noisy, err := metrics.AddGaussianNoise(stego, sigma, r.rng)
		if err != nil {
			return Result{}, errors.Wrapf(err, "experiment: sigma %v", sigma)
		}
		psnr, err := metrics.PSNR(stego, noisy)
		if err != nil {
			return Result{}, errors.Wrapf(err, "experiment: sigma %v", sigma)
		}
		psnrSum += psnr
		berSum += recoveredBER(noisy, payload)
	}
	return Result{
		Sigma: sigma,
		PSNR:  psnrSum / float64(trials),
		BER:   berSum / float64(trials),
	}, nil
}

// recoveredBER extracts len(payload) bytes from img and compares them with
// payload. A truncated extraction counts as a total loss.
func recoveredBER(img image.Image, payload []byte) float64 {
	recovered := stegano.Extract(img, len(payload))
	if len(recovered) != len(payload) {
		return 1.0
	}
	return metrics.ByteErrorRate(payload, recovered)
}

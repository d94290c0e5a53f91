package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/Sudarshan-cuk/advanced-image-steganography/config"
	"github.com/Sudarshan-cuk/advanced-image-steganography/experiment"
	"github.com/Sudarshan-cuk/advanced-image-steganography/logger"
	"github.com/Sudarshan-cuk/advanced-image-steganography/metrics"
	"github.com/Sudarshan-cuk/advanced-image-steganography/stegano"
)

const (
	defaultRevealSize = 200
	defaultNoiseSigma = 0.01
)

// errDecodeFailed is the only decoding failure shown to users; a wrong key
// and a missing message are indistinguishable.
var errDecodeFailed = errors.New("decoding failed: check key or image")

// setup loads the configuration and builds the logger for a command. Logs
// go to stderr so results on stdout stay clean.
func setup(c *cli.Context) (*config.Config, logger.Logger, error) {
	cfg, err := config.NewConfig(c.GlobalString("config"))
	if err != nil {
		return nil, nil, err
	}
	if level := c.GlobalString("level"); level != "" {
		l, err := logger.GetLogLevel(level)
		if err != nil {
			return nil, nil, err
		}
		cfg.LogLevel = l
	}
	log := logger.NewLogger(cfg.LogLevel)
	log.SetWriter(os.Stderr)
	return cfg, log, nil
}

func requireFlags(c *cli.Context, names ...string) error {
	for _, name := range names {
		if c.String(name) == "" {
			return errors.Errorf("--%s is required", name)
		}
	}
	return nil
}

// readImage opens and decodes the image at path.
func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := stegano.DecodeImage(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return img, nil
}

// writeFile replaces path with the contents of r in one step, so a failed
// command never leaves a partial output file behind.
func writeFile(path string, r io.Reader) error {
	return errors.Wrapf(atomic.WriteFile(path, r), "unable to write %s", path)
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := stegano.EncodePNG(&buf, img); err != nil {
		return err
	}
	return writeFile(path, &buf)
}

func encodeAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	if err := requireFlags(c, "input", "output"); err != nil {
		return err
	}

	var message []byte
	if path := c.String("payload"); path != "" {
		if message, err = os.ReadFile(path); err != nil {
			return err
		}
	} else {
		message = []byte(c.String("text"))
	}
	if len(message) == 0 {
		return errors.New("nothing to hide: set --text or --payload")
	}
	if !utf8.Valid(message) {
		return errors.New("message must be UTF-8 text")
	}

	secret, err := getSecretWithConfirm(c.String("secret"), cfg.Secret)
	if err != nil {
		return err
	}
	cover, err := readImage(c.String("input"))
	if err != nil {
		return err
	}
	cph, err := stegano.NewCipher(secret)
	if err != nil {
		return err
	}

	stego, err := stegano.EmbedMessage(cover, string(message), cph)
	if err != nil {
		var capErr *stegano.CapacityError
		if errors.As(err, &capErr) {
			log.Errorf("Message needs %s bits but %s holds only %s; the longest message that fits is %d bytes",
				humanize.Comma(int64(capErr.Need)), c.String("input"), humanize.Comma(int64(capErr.Have)),
				stegano.MessageCapacity(cover))
		}
		return err
	}
	if err := writePNG(c.String("output"), stego); err != nil {
		return err
	}
	log.Infof("Wrote %s (%s of %s bits used)", c.String("output"),
		humanize.Comma(int64(stegano.FramedSize(len(message))*8)), humanize.Comma(int64(stegano.Capacity(cover))))
	return nil
}

func decodeAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	if err := requireFlags(c, "input"); err != nil {
		return err
	}
	secret, err := getSecret(c.String("secret"), cfg.Secret)
	if err != nil {
		return err
	}
	stego, err := readImage(c.String("input"))
	if err != nil {
		return err
	}
	cph, err := stegano.NewCipher(secret)
	if err != nil {
		return err
	}

	message, err := stegano.ExtractMessage(stego, cph)
	if err != nil {
		log.Debugf("Extraction from %s failed: %v", c.String("input"), err)
		return errDecodeFailed
	}
	if output := c.String("output"); output != "" {
		if err := writeFile(output, bytes.NewBufferString(message)); err != nil {
			return err
		}
		log.Infof("Wrote %s bytes to %s", humanize.Comma(int64(len(message))), output)
		return nil
	}
	fmt.Println(message)
	return nil
}

func hideImageAction(c *cli.Context) error {
	_, log, err := setup(c)
	if err != nil {
		return err
	}
	if err := requireFlags(c, "input", "secret-image", "output"); err != nil {
		return err
	}
	cover, err := readImage(c.String("input"))
	if err != nil {
		return err
	}
	secret, err := readImage(c.String("secret-image"))
	if err != nil {
		return err
	}
	stego, err := stegano.EmbedImage(cover, secret)
	if err != nil {
		return err
	}
	if err := writePNG(c.String("output"), stego); err != nil {
		return err
	}
	log.Infof("Hid %s in %s, wrote %s", c.String("secret-image"), c.String("input"), c.String("output"))
	return nil
}

func revealImageAction(c *cli.Context) error {
	_, log, err := setup(c)
	if err != nil {
		return err
	}
	if err := requireFlags(c, "input", "output"); err != nil {
		return err
	}
	stego, err := readImage(c.String("input"))
	if err != nil {
		return err
	}
	size := image.Pt(c.Int("width"), c.Int("height"))
	revealed, err := stegano.ExtractImage(stego, size)
	if err != nil {
		return err
	}
	if err := writePNG(c.String("output"), revealed); err != nil {
		return err
	}
	log.Infof("Wrote %dx%d image to %s", size.X, size.Y, c.String("output"))
	return nil
}

func noiseAction(c *cli.Context) error {
	_, log, err := setup(c)
	if err != nil {
		return err
	}
	if err := requireFlags(c, "input"); err != nil {
		return err
	}
	img, err := readImage(c.String("input"))
	if err != nil {
		return err
	}

	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sigma := c.Float64("sigma")
	noisy, err := metrics.AddGaussianNoise(img, sigma, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	psnr, err := metrics.PSNR(img, noisy)
	if err != nil {
		return err
	}
	if output := c.String("output"); output != "" {
		if err := writePNG(output, noisy); err != nil {
			return err
		}
		log.Infof("Wrote noisy image to %s", output)
	}
	fmt.Printf("σ=%.3f PSNR: %.2f dB\n", sigma, psnr)
	return nil
}

func experimentAction(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	if err := requireFlags(c, "input"); err != nil {
		return err
	}

	exp := &cfg.Experiment
	if dir := c.String("out-dir"); dir != "" {
		exp.OutputDir = dir
	}
	if message := c.String("message"); message != "" {
		exp.Message = message
	}
	if values := c.StringSlice("sigma"); len(values) > 0 {
		exp.Sigmas = exp.Sigmas[:0]
		for _, v := range values {
			sigma, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid sigma %q", v)
			}
			exp.Sigmas = append(exp.Sigmas, sigma)
		}
	}
	if c.IsSet("trials") {
		exp.Trials = c.Int("trials")
	}
	if c.IsSet("seed") {
		exp.Seed = c.Int64("seed")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cover, err := readImage(c.String("input"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := experiment.NewRunner(*exp, log).Run(ctx, cover)
	if err != nil {
		return err
	}
	path, err := experiment.SaveCSV(exp.OutputDir, report)
	if err != nil {
		return err
	}
	chart, err := experiment.SaveChart(exp.OutputDir, report)
	if err != nil {
		return err
	}

	fmt.Printf("PSNR (cover→stego): %.2f dB\n", report.EmbedPSNR)
	for _, r := range report.Results {
		fmt.Printf("σ=%v: PSNR=%.1fdB, BER=%.4f\n", r.Sigma, r.PSNR, r.BER)
	}
	log.Infof("Created %s and %s", path, chart)
	return nil
}

func capacityAction(c *cli.Context) error {
	if _, _, err := setup(c); err != nil {
		return err
	}
	if err := requireFlags(c, "input"); err != nil {
		return err
	}
	img, err := readImage(c.String("input"))
	if err != nil {
		return err
	}
	bits := stegano.Capacity(img)
	size := img.Bounds().Size()
	fmt.Printf("%dx%d pixels, %s bits (%s)\n", size.X, size.Y,
		humanize.Comma(int64(bits)), humanize.IBytes(uint64(bits/8)))
	if n := stegano.MessageCapacity(img); n >= 0 {
		fmt.Printf("Longest encrypted message: %s bytes\n", humanize.Comma(int64(n)))
	} else {
		fmt.Println("Image is too small to hold an encrypted message")
	}
	return nil
}

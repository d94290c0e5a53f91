package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/Sudarshan-cuk/advanced-image-steganography/experiment"
)

const version = "0.1.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "stegano"
	app.Usage = "Hide encrypted messages and images in PNG files and measure their noise tolerance"
	app.Version = version
	app.Flags = getFlags()
	app.Commands = getCommands()
	return app
}

func getFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.StringFlag{
			Name:  "level, l",
			Usage: "logging level [debug|info|warn|error] (overrides the config)",
		},
	}
}

func getCommands() []cli.Command {
	return []cli.Command{
		{
			Name:   "encode",
			Usage:  "encrypt a message and hide it in a cover image",
			Action: encodeAction,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "input, i", Usage: "cover image `FILE` (required)"},
				cli.StringFlag{Name: "output, o", Usage: "destination `FILE` for the PNG stego image (required)"},
				cli.StringFlag{Name: "text, t", Usage: "message to hide"},
				cli.StringFlag{Name: "payload, p", Usage: "hide the contents of `FILE` instead of --text"},
				secretFlag(),
			},
		},
		{
			Name:   "decode",
			Usage:  "recover and decrypt a message hidden by encode",
			Action: decodeAction,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "input, i", Usage: "stego image `FILE` (required)"},
				cli.StringFlag{Name: "output, o", Usage: "write the message to `FILE` instead of stdout"},
				secretFlag(),
			},
		},
		{
			Name:   "hide-image",
			Usage:  "hide the top 4 bits of a secret image in a cover image",
			Action: hideImageAction,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "input, i", Usage: "cover image `FILE` (required)"},
				cli.StringFlag{Name: "secret-image, s", Usage: "image `FILE` to hide (required)"},
				cli.StringFlag{Name: "output, o", Usage: "destination `FILE` for the PNG stego image (required)"},
			},
		},
		{
			Name:   "reveal-image",
			Usage:  "recover an image hidden by hide-image",
			Action: revealImageAction,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "input, i", Usage: "stego image `FILE` (required)"},
				cli.StringFlag{Name: "output, o", Usage: "destination `FILE` for the PNG image (required)"},
				cli.IntFlag{Name: "width", Usage: "width of the recovered image", Value: defaultRevealSize},
				cli.IntFlag{Name: "height", Usage: "height of the recovered image", Value: defaultRevealSize},
			},
		},
		{
			Name:   "noise",
			Usage:  "add Gaussian noise to an image and report the PSNR",
			Action: noiseAction,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "input, i", Usage: "image `FILE` (required)"},
				cli.StringFlag{Name: "output, o", Usage: "write the noisy image to `FILE` as PNG"},
				cli.Float64Flag{Name: "sigma", Usage: "noise standard deviation on the [0,1] scale", Value: defaultNoiseSigma},
				cli.Int64Flag{Name: "seed", Usage: "random seed (0 picks one from the clock)"},
			},
		},
		{
			Name:   "experiment",
			Usage:  "sweep noise levels over an LSB payload and write PSNR/BER results as CSV and a chart",
			Action: experimentAction,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "input, i", Usage: "cover image `FILE` (required)"},
				cli.StringFlag{Name: "out-dir, d", Usage: "`DIR` to write " + experiment.ResultsFile + " and " + experiment.ChartFile + " into"},
				cli.StringFlag{Name: "message, m", Usage: "payload to embed"},
				cli.StringSliceFlag{Name: "sigma", Usage: "noise level to test, repeatable"},
				cli.IntFlag{Name: "trials", Usage: "noisy copies averaged per sigma"},
				cli.Int64Flag{Name: "seed", Usage: "random seed (0 picks one from the clock)"},
			},
		},
		{
			Name:   "capacity",
			Usage:  "report how much data a cover image can carry",
			Action: capacityAction,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "input, i", Usage: "cover image `FILE` (required)"},
			},
		},
	}
}

func secretFlag() cli.Flag {
	return cli.StringFlag{
		Name:  "secret, k",
		Usage: "key used to encrypt the message (falls back to STEGANO_SECRET, then a prompt)",
	}
}

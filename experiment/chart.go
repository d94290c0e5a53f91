package experiment

import (
	"bytes"
	"image/color"
	"io"
	"math"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ChartFile is the name of the PNG chart written into the output directory.
const ChartFile = "noise_analysis.png"

const (
	chartWidth  = 7 * vg.Inch
	chartHeight = 6 * vg.Inch
)

var (
	psnrColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	berColor  = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// WriteChart renders PSNR and BER against sigma as two stacked panels and
// writes the PNG to w. Points with an infinite PSNR (no noise at all) are
// left off the PSNR panel.
func WriteChart(w io.Writer, results []Result) error {
	var psnr, ber plotter.XYs
	for _, r := range results {
		if !math.IsInf(r.PSNR, 0) && !math.IsNaN(r.PSNR) {
			psnr = append(psnr, plotter.XY{X: r.Sigma, Y: r.PSNR})
		}
		ber = append(ber, plotter.XY{X: r.Sigma, Y: r.BER})
	}

	top, err := newPanel("Noise analysis: PSNR and BER vs sigma", "PSNR (dB)", psnr, psnrColor, draw.CircleGlyph{}, false)
	if err != nil {
		return err
	}
	bottom, err := newPanel("", "BER", ber, berColor, draw.SquareGlyph{}, true)
	if err != nil {
		return err
	}

	img := vgimg.New(chartWidth, chartHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(8),
		PadY:      vg.Points(8),
	}
	canvases := plot.Align([][]*plot.Plot{{top}, {bottom}}, tiles, dc)
	top.Draw(canvases[0][0])
	bottom.Draw(canvases[1][0])

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return errors.Wrap(err, "experiment: unable to encode chart")
	}
	return nil
}

func newPanel(title, ylabel string, data plotter.XYs, c color.Color, glyph draw.GlyphDrawer, dashed bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "sigma (noise std, normalized)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	if len(data) == 0 {
		return p, nil
	}

	line, points, err := plotter.NewLinePoints(data)
	if err != nil {
		return nil, errors.Wrap(err, "experiment: unable to plot results")
	}
	line.Color = c
	if dashed {
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	}
	points.Color = c
	points.Shape = glyph
	p.Add(line, points)
	return p, nil
}

// SaveChart atomically writes the report's chart to dir/ChartFile and
// returns the path written.
func SaveChart(dir string, report *Report) (string, error) {
	var buf bytes.Buffer
	if err := WriteChart(&buf, report.Results); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ChartFile)
	if err := atomic.WriteFile(path, &buf); err != nil {
		return "", errors.Wrapf(err, "experiment: unable to write %s", path)
	}
	return path, nil
}

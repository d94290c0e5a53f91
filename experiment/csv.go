package experiment

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
)

// ResultsFile is the name of the CSV written into the output directory.
const ResultsFile = "noise_results.csv"

var csvHeader = []string{"sigma", "PSNR_dB", "BER"}

// WriteCSV writes results as sigma,PSNR_dB,BER rows under a header line.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "experiment: unable to write csv header")
	}
	for _, r := range results {
		row := []string{formatFloat(r.Sigma), formatFloat(r.PSNR), formatFloat(r.BER)}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "experiment: unable to write csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "experiment: unable to flush csv")
}

// SaveCSV atomically writes the report's results to dir/ResultsFile and
// returns the path written.
func SaveCSV(dir string, report *Report) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, report.Results); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ResultsFile)
	if err := atomic.WriteFile(path, &buf); err != nil {
		return "", errors.Wrapf(err, "experiment: unable to write %s", path)
	}
	return path, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Package report renders benchmark statistics for people and for tools.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/samcharles93/xdmatvec/internal/bench"
	"github.com/samcharles93/xdmatvec/internal/version"
	"github.com/samcharles93/xdmatvec/internal/xdma"
)

// Text writes the summary of a run. Times are in seconds, relative errors in
// percent of the input vector norm.
func Text(w io.Writer, s *bench.Stats) error {
	hwMean, swMean := seconds(s.HWMean()), seconds(s.SWMean())
	_, err := fmt.Fprintf(w,
		"Mean times: HW %.16f sec; SW %.16f sec\n"+
			"Max times: HW %.16f sec; SW %.16f sec\n"+
			"Absolute error: MEAN %.16f; MAX %.16f\n"+
			"Relative error: MEAN %.16f %%; MAX %.16f %%\n",
		hwMean, swMean,
		seconds(s.HWMax), seconds(s.SWMax),
		s.MeanErr, s.MaxErr,
		100*s.MeanRelErr, 100*s.MaxRelErr,
	)
	return err
}

// Header writes the run parameters printed before the trials start.
func Header(w io.Writer, info xdma.Info, cfg bench.Config) error {
	_, err := fmt.Fprintf(w,
		"Hardware: %s\n"+
			"Matrices: %d\n"+
			"Vectors:  %d\n"+
			"Seed:     %d\n\n",
		info.Tag(), cfg.Matrices, cfg.Vectors, cfg.Seed)
	return err
}

// Hardware writes the attach-time view of the accelerator.
func Hardware(w io.Writer, info xdma.Info, verbose bool) error {
	if !verbose {
		_, err := fmt.Fprintln(w, info.Tag())
		return err
	}
	mode := "software float"
	if info.HardFloat {
		mode = "hard float"
	}
	_, err := fmt.Fprintf(w,
		"Tag:     %s\n"+
			"Height:  %d\n"+
			"Width:   %d\n"+
			"Mode:    %s\n"+
			"Control: 0x%08x\n",
		info.Tag(), info.Height, info.Width, mode, info.Control)
	return err
}

// Document is the machine-readable form of a run.
type Document struct {
	Version  version.Info `json:"version"`
	Hardware *xdma.Info   `json:"hardware,omitempty"`
	Tag      string       `json:"tag,omitempty"`
	Stats    *bench.Stats `json:"stats"`
}

func NewDocument(info *xdma.Info, s *bench.Stats) Document {
	doc := Document{Version: version.Resolve(), Hardware: info, Stats: s}
	if info != nil {
		doc.Tag = info.Tag()
	}
	return doc
}

// WriteJSON encodes doc with indentation.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteJSONFile writes doc to path, creating parent directories.
func WriteJSONFile(path string, doc Document) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteJSON(f, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

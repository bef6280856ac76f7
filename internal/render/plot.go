package render

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/okrogh/thglab/internal/dynamo"
)

// Trajectory renders one normalized-intensity figure for a sampled run and
// saves it under dir, overwriting any existing file of the same name.
// The legend sits in a margin to the right of the axes. It returns the
// path of the written PNG.
func Trajectory(res *dynamo.Result, length, deltaBeta float64, dir string) (string, error) {
	if len(res.States) == 0 {
		return "", fmt.Errorf("render: empty trajectory")
	}

	i0 := res.States[0].Intensity(0)
	if i0 <= 0 {
		return "", fmt.Errorf("render: zero input intensity")
	}

	fundamental := make(plotter.XYs, len(res.States))
	harmonic := make(plotter.XYs, len(res.States))
	for i, s := range res.States {
		zNorm := res.Z[i] / length
		fundamental[i].X = zNorm
		fundamental[i].Y = s.Intensity(0) / i0
		harmonic[i].X = zNorm
		harmonic[i].Y = s.Intensity(1) / i0
	}

	deltaBetaL := deltaBeta * length

	p := plot.New()
	p.Title.Text = fmt.Sprintf("δβ·L = %.1f", deltaBetaL)
	p.X.Label.Text = "z/L"
	p.Y.Label.Text = "|E|² / |E1(0)|²"

	lineF, err := plotter.NewLine(fundamental)
	if err != nil {
		return "", err
	}
	lineF.Color = plotutil.Color(0)

	lineH, err := plotter.NewLine(harmonic)
	if err != nil {
		return "", err
	}
	lineH.Color = plotutil.Color(1)
	lineH.Dashes = plotutil.Dashes(1)

	p.Add(lineF, lineH)

	l := plot.NewLegend()
	l.Add("fundamental", lineF)
	l.Add("third harmonic", lineH)
	l.Top = true

	img := vgimg.New(7*vg.Inch, 4*vg.Inch)
	dc := draw.New(img)

	// Reserve a right-hand margin for the legend so it stays clear of
	// the plot area.
	r := l.Rectangle(dc)
	legendWidth := r.Max.X - r.Min.X
	l.YOffs = -p.Title.TextStyle.FontExtents().Height

	l.Draw(dc)
	p.Draw(draw.Crop(dc, 0, -legendWidth-vg.Millimeter, 0, 0))

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(deltaBetaL))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Filename encodes the mismatch-length product in scientific notation.
func Filename(deltaBetaL float64) string {
	return fmt.Sprintf("Solution_delta_betaL=%.3e.png", deltaBetaL)
}

// Package plotting renders every figure the experiment binaries produce,
// using gonum/plot. All output is PNG.
package plotting

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/qemar/qlab/internal/bulk"
	"github.com/qemar/qlab/internal/metrics"
)

// CombinedResults renders the four-panel comparison figure for the hybrid
// experiment: predictions vs. actual for both models, the residual
// distribution, and the metric comparison bars.
func CombinedResults(path string, targets, quantumPreds, boostPreds []float64, quantumSummary, boostSummary *metrics.Summary) error {
	quantumPlot, err := predictionPanel("Quantum Hybrid: Predicted vs Actual", targets, quantumPreds, 0)
	if err != nil {
		return err
	}
	boostPlot, err := predictionPanel("Gradient Boosting: Predicted vs Actual", targets, boostPreds, 1)
	if err != nil {
		return err
	}
	residualPlot, err := residualPanel(targets, quantumPreds, boostPreds)
	if err != nil {
		return err
	}
	metricsPlot, err := metricsPanel(quantumSummary, boostSummary)
	if err != nil {
		return err
	}

	plots := [][]*plot.Plot{
		{quantumPlot, boostPlot},
		{residualPlot, metricsPlot},
	}

	img := vgimg.New(12*vg.Inch, 9*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2, Cols: 2,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i, row := range plots {
		for j, p := range row {
			p.Draw(canvases[i][j])
		}
	}

	return writePNG(path, img)
}

// predictionPanel builds one predicted-vs-actual scatter with the identity
// line for reference.
func predictionPanel(title string, targets, preds []float64, colorIdx int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, len(targets))
	minV, maxV := targets[0], targets[0]
	for i := range targets {
		pts[i].X = targets[i]
		pts[i].Y = preds[i]
		if targets[i] < minV {
			minV = targets[i]
		}
		if targets[i] > maxV {
			maxV = targets[i]
		}
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Color = plotutil.Color(colorIdx)
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(scatter)

	identity, err := plotter.NewLine(plotter.XYs{{X: minV, Y: minV}, {X: maxV, Y: maxV}})
	if err != nil {
		return nil, fmt.Errorf("failed to build identity line: %w", err)
	}
	identity.LineStyle.Color = plotutil.Color(3)
	identity.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(identity)

	return p, nil
}

// residualPanel builds the residual histogram for both models.
func residualPanel(targets, quantumPreds, boostPreds []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Residual Distribution"
	p.X.Label.Text = "Residual"
	p.Y.Label.Text = "Count"

	for idx, preds := range [][]float64{quantumPreds, boostPreds} {
		residuals := make(plotter.Values, len(targets))
		for i := range targets {
			residuals[i] = preds[i] - targets[i]
		}
		hist, err := plotter.NewHist(residuals, 30)
		if err != nil {
			return nil, fmt.Errorf("failed to build residual histogram: %w", err)
		}
		hist.FillColor = plotutil.Color(idx)
		p.Add(hist)
	}

	return p, nil
}

// metricsPanel builds grouped bars of MAE, RMSE and R² per model.
func metricsPanel(quantumSummary, boostSummary *metrics.Summary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Metric Comparison"
	p.Y.Label.Text = "Value"

	width := vg.Points(20)
	for idx, s := range []*metrics.Summary{quantumSummary, boostSummary} {
		bars, err := plotter.NewBarChart(plotter.Values{s.MAE, s.RMSE, s.R2}, width)
		if err != nil {
			return nil, fmt.Errorf("failed to build metric bars: %w", err)
		}
		bars.Color = plotutil.Color(idx)
		bars.Offset = width * vg.Length(idx)
		p.Add(bars)
	}
	p.NominalX("MAE", "RMSE", "R²")
	p.Legend.Top = true

	return p, nil
}

// AlphaHistogram renders the distribution of fitted alpha values across
// seeds.
func AlphaHistogram(path string, alphas []float64) error {
	p := plot.New()
	p.Title.Text = "Alpha Across Seeds"
	p.X.Label.Text = "alpha"
	p.Y.Label.Text = "Count"

	hist, err := plotter.NewHist(plotter.Values(alphas), 10)
	if err != nil {
		return fmt.Errorf("failed to build alpha histogram: %w", err)
	}
	hist.FillColor = plotutil.Color(0)
	p.Add(hist)

	return save(p, path)
}

// AlphaVsTheta renders the fitted alpha across the angle sweep.
func AlphaVsTheta(path string, thetas, alphas []float64) error {
	p := plot.New()
	p.Title.Text = "Alpha vs Theta"
	p.X.Label.Text = "theta (rad)"
	p.Y.Label.Text = "alpha"

	pts := make(plotter.XYs, len(thetas))
	for i := range thetas {
		pts[i].X = thetas[i]
		pts[i].Y = alphas[i]
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to build alpha sweep line: %w", err)
	}
	line.Color = plotutil.Color(0)
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	return save(p, path)
}

// NoiseShift renders the per-seed alpha shift between noisy and clean
// evaluations, with a zero reference line.
func NoiseShift(path string, seeds []int64, shifts []float64) error {
	p := plot.New()
	p.Title.Text = "Alpha Shift Under Bit-Flip Noise"
	p.X.Label.Text = "seed"
	p.Y.Label.Text = "alpha(noisy) - alpha(clean)"

	pts := make(plotter.XYs, len(seeds))
	for i := range seeds {
		pts[i].X = float64(seeds[i])
		pts[i].Y = shifts[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build noise shift scatter: %w", err)
	}
	scatter.GlyphStyle.Color = plotutil.Color(0)
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	if len(seeds) > 0 {
		zero, err := plotter.NewLine(plotter.XYs{
			{X: float64(seeds[0]), Y: 0},
			{X: float64(seeds[len(seeds)-1]), Y: 0},
		})
		if err != nil {
			return fmt.Errorf("failed to build zero line: %w", err)
		}
		zero.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(zero)
	}

	return save(p, path)
}

// RTScatter renders entropy vs cut length for all contiguous regions with
// the fitted L = alpha*S line.
func RTScatter(path string, entropies, cutLengths []float64, alpha float64) error {
	p := plot.New()
	p.Title.Text = "Cut Length vs Entanglement Entropy"
	p.X.Label.Text = "S (nats)"
	p.Y.Label.Text = "cut length"

	pts := make(plotter.XYs, len(entropies))
	maxS := 0.0
	for i := range entropies {
		pts[i].X = entropies[i]
		pts[i].Y = cutLengths[i]
		if entropies[i] > maxS {
			maxS = entropies[i]
		}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build RT scatter: %w", err)
	}
	scatter.GlyphStyle.Color = plotutil.Color(0)
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	fitLine, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: maxS, Y: alpha * maxS}})
	if err != nil {
		return fmt.Errorf("failed to build fit line: %w", err)
	}
	fitLine.Color = plotutil.Color(1)
	p.Add(fitLine)
	p.Legend.Add(fmt.Sprintf("alpha = %.4f", alpha), fitLine)
	p.Legend.Top = true

	return save(p, path)
}

// BulkTree renders the balanced binary bulk tree with leaves along the
// bottom in qubit order.
func BulkTree(path string, positions []bulk.NodePosition, lines []bulk.EdgeLine) error {
	p := plot.New()
	p.Title.Text = "Bulk Tree"
	p.HideAxes()

	for _, l := range lines {
		edge, err := plotter.NewLine(plotter.XYs{{X: l.X0, Y: l.Y0}, {X: l.X1, Y: l.Y1}})
		if err != nil {
			return fmt.Errorf("failed to build tree edge: %w", err)
		}
		edge.Color = plotutil.Color(2)
		p.Add(edge)
	}

	var leafPts, innerPts plotter.XYs
	for _, n := range positions {
		pt := plotter.XY{X: n.X, Y: n.Y}
		if n.Leaf {
			leafPts = append(leafPts, pt)
		} else {
			innerPts = append(innerPts, pt)
		}
	}
	for idx, pts := range []plotter.XYs{innerPts, leafPts} {
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("failed to build tree nodes: %w", err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(idx)
		scatter.GlyphStyle.Radius = vg.Points(4)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
	}

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writePNG(path string, img *vgimg.Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

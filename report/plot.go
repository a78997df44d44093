package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

var rocPalette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
}

// WriteROCPlot renders the ROC curves of the given evaluations as one
// overlaid chart with a chance diagonal, labelled by variant and AUC.
func WriteROCPlot(path, title string, evals []*Evaluation) error {
	const op = "report.WriteROCPlot"

	if len(evals) == 0 {
		return errors.NewValueError(op, "at least one evaluation is required")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = false
	p.Legend.Left = false

	diagonal := plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}}
	chance, err := plotter.NewLine(diagonal)
	if err != nil {
		return errors.Wrap(err, op)
	}
	chance.LineStyle.Color = color.Gray{Y: 160}
	chance.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(chance)

	for i, eval := range evals {
		pts := make(plotter.XYs, len(eval.ROC.FPR))
		for j := range eval.ROC.FPR {
			pts[j].X = eval.ROC.FPR[j]
			pts[j].Y = eval.ROC.TPR[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrap(err, op)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = rocPalette[i%len(rocPalette)]
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s (AUC %.3f)", eval.Variant, eval.AUC), line)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "%s: save %s", op, path)
	}
	return nil
}

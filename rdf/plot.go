package rdf

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// basicPlot returns an empty plot with the axes of a g(r) plot.
func basicPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "r"
	p.Y.Label.Text = "g(r)"
	p.X.Min = 0
	p.Y.Min = 0
	p.Add(plotter.NewGrid())
	return p
}

// Plot draws g(r) for every pair of types in R, one line each, and saves it to
// filename. The format is taken from the extension (png, svg, pdf...).
func Plot(R *RDF, title, filename string) error {
	p := basicPlot(title)
	k := 0
	for a := range R.Types {
		for b := a; b < len(R.Types); b++ {
			g := R.g[pairIndex(a, b, len(R.Types))]
			xys := make(plotter.XYs, len(g))
			for i := range g {
				xys[i].X = R.R[i]
				xys[i].Y = g[i]
			}
			l, err := plotter.NewLine(xys)
			if err != nil {
				return &Error{err.Error(), []string{"plotter.NewLine", "Plot"}, true}
			}
			l.Color = plotutil.Color(k)
			l.Dashes = plotutil.Dashes(k)
			p.Add(l)
			p.Legend.Add(fmt.Sprintf("%s-%s", R.Types[a], R.Types[b]), l)
			k++
		}
	}
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return &Error{err.Error(), []string{"Save", "Plot"}, true}
	}
	return nil
}

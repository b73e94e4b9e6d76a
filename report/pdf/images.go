package pdf

import (
	"bytes"
	"fmt"

	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	imageWidth  = 900
	imageHeight = 500
)

// chartImage draws a chart spec as PNG. Rendering panics are reported as errors.
func chartImage(spec contractx.ChartSpec) (png []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: chart %s panicked: %v", contractx.ErrRender, spec.ID, r)
		}
	}()

	if len(spec.Values) == 0 {
		return nil, fmt.Errorf("%w: chart %s has no values", contractx.ErrRender, spec.ID)
	}

	var buf bytes.Buffer
	switch spec.Type {
	case "pie":
		err = pieChart(spec).Render(chart.PNG, &buf)
	case "bar":
		err = barChart(spec).Render(chart.PNG, &buf)
	default:
		err = lineChart(spec).Render(chart.PNG, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: chart %s: %v", contractx.ErrRender, spec.ID, err)
	}
	return buf.Bytes(), nil
}

func values(spec contractx.ChartSpec) []chart.Value {
	out := make([]chart.Value, 0, len(spec.Values))
	for i, v := range spec.Values {
		label := ""
		if i < len(spec.Labels) {
			label = spec.Labels[i]
		}
		out = append(out, chart.Value{Value: v, Label: label})
	}
	return out
}

func pieChart(spec contractx.ChartSpec) chart.PieChart {
	return chart.PieChart{
		Title:  spec.Title,
		Width:  imageHeight,
		Height: imageHeight,
		Values: values(spec),
	}
}

func barChart(spec contractx.ChartSpec) chart.BarChart {
	return chart.BarChart{
		Title:    spec.Title,
		Width:    imageWidth,
		Height:   imageHeight,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Bars: values(spec),
	}
}

func lineChart(spec contractx.ChartSpec) chart.Chart {
	xs := make([]float64, len(spec.Labels))
	ticks := make([]chart.Tick, len(spec.Labels))
	for i, l := range spec.Labels {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: l}
	}

	datasets := spec.Datasets
	if len(datasets) == 0 {
		datasets = []contractx.ChartDataset{{Label: spec.Title, Data: spec.Values}}
	}
	series := make([]chart.Series, 0, len(datasets))
	for _, ds := range datasets {
		n := min(len(xs), len(ds.Data))
		series = append(series, chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs[:n],
			YValues: ds.Data[:n],
		})
	}

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  imageWidth,
		Height: imageHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20},
		},
		XAxis:  chart.XAxis{Ticks: ticks},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

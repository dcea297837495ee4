package tsforecast

import (
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/quantfold/tsforecast/models"
)

// PlotResponse uses the Apache Echarts library to generate an html file
// with one chart per successful model showing the historical series and the
// forecast band beyond it.
func PlotResponse(resp *ForecastResponse, path string) error {
	page := components.NewPage()
	for _, kind := range models.Kinds() {
		res, ok := resp.Models[kind]
		if !ok || res.Err != "" {
			continue
		}
		page.AddCharts(lineModelForecast(string(kind), resp.Historical, res))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}

// lineModelForecast charts the historical values followed by one model's
// forecast, upper, and lower series. Forecast series are padded with empty
// points over the historical range so they start where history ends.
func lineModelForecast(name string, historical []HistoricalPoint, res ModelResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: name + " forecast",
			},
		),
	)

	x := make([]string, 0, len(historical)+len(res.Points))
	actual := make([]opts.LineData, 0, len(historical))
	for _, p := range historical {
		x = append(x, p.Timestamp.Format(time.DateOnly))
		actual = append(actual, opts.LineData{Value: p.Value})
	}

	pad := make([]opts.LineData, len(historical))
	forecast := append([]opts.LineData{}, pad...)
	upper := append([]opts.LineData{}, pad...)
	lower := append([]opts.LineData{}, pad...)
	for _, p := range res.Points {
		x = append(x, p.Timestamp.Format(time.DateOnly))
		forecast = append(forecast, opts.LineData{Value: p.Value})
		upper = append(upper, opts.LineData{Value: p.Upper})
		lower = append(lower, opts.LineData{Value: p.Lower})
	}

	line.SetXAxis(x).
		AddSeries("Actual", actual).
		AddSeries("Forecast", forecast).
		AddSeries("Upper", upper).
		AddSeries("Lower", lower)
	return line
}

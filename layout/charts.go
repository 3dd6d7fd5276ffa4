package layout

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/samasastudio/brutalcast/internal/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderReport writes an HTML report for a pipeline result: the blurb and
// generated image, then every layout component in layout order. Tables and
// cards are rendered inline; charts are rendered as a go-echarts page
// appended after the prose section.
func RenderReport(w io.Writer, result *models.ComparisonResult, units models.Unit) error {
	prose, chartComponents, err := buildReportParts(result, units)
	if err != nil {
		return err
	}
	if _, err := w.Write(prose); err != nil {
		return err
	}
	if len(chartComponents) == 0 {
		return nil
	}

	page := components.NewPage()
	page.PageTitle = "Brutalcast"
	page.AddCharts(chartComponents...)
	return page.Render(w)
}

func buildReportParts(result *models.ComparisonResult, units models.Unit) ([]byte, []components.Charter, error) {
	type proseSection struct {
		Title string
		Table *TableSpec
		Card  *CardSpec
	}
	report := struct {
		Blurb    string
		ImageURL string
		Sections []proseSection
	}{
		Blurb:    result.Layout.Blurb,
		ImageURL: result.ImageDataURL,
	}

	var chartComponents []components.Charter
	for _, c := range result.Layout.UIComponents {
		switch c.Type {
		case models.ComponentTable:
			report.Sections = append(report.Sections, proseSection{
				Title: c.Title,
				Table: BuildTable(c, result.Weather, units),
			})
		case models.ComponentCard:
			report.Sections = append(report.Sections, proseSection{
				Title: c.Title,
				Card:  BuildCard(c, result.Weather),
			})
		case models.ComponentBarChart:
			chartComponents = append(chartComponents, barChart(BuildBar(c, result.Weather, units)))
		case models.ComponentLineChart:
			chartComponents = append(chartComponents, lineChart(BuildLine(c, result.Weather, units)))
		case models.ComponentScatterChart:
			chartComponents = append(chartComponents, scatterChart(BuildScatter(c, result.Weather, units)))
		}
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return nil, nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), chartComponents, nil
}

func barChart(spec *BarSpec) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: spec.Title}))
	bar.SetXAxis(spec.Categories)
	for _, s := range spec.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, data)
	}
	return bar
}

func lineChart(spec *LineSpec) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: spec.Title}))

	xValues := make([]string, len(spec.Rows))
	for i, row := range spec.Rows {
		xValues[i] = fmt.Sprintf("%v", row[spec.XKey])
	}
	line.SetXAxis(xValues)

	for _, city := range spec.Cities {
		data := make([]opts.LineData, len(spec.Rows))
		for i, row := range spec.Rows {
			// A missing pivot entry renders as a gap, not a zero.
			if v, ok := row[city]; ok {
				data[i] = opts.LineData{Value: v}
			} else {
				data[i] = opts.LineData{Value: nil}
			}
		}
		line.AddSeries(city, data)
	}
	return line
}

func scatterChart(spec *ScatterSpec) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: spec.Title}))

	data := make([]opts.ScatterData, len(spec.Points))
	for i, p := range spec.Points {
		data[i] = opts.ScatterData{
			Name:  p.City,
			Value: []interface{}{p.X, p.Y, p.Z},
		}
	}
	scatter.AddSeries("Cities", data)
	return scatter
}

var reportTemplate = template.Must(template.New("report").Parse(`
<section style="font-family: monospace; max-width: 900px; margin: 0 auto;">
    <h1 style="border: 4px solid #000; display: inline-block; padding: 12px; box-shadow: 8px 8px 0 #facc15;">Brutalcast</h1>
    <p style="background: #facc15; border: 2px solid #000; padding: 12px; font-size: 18px;">"{{.Blurb}}"</p>
    {{if .ImageURL}}<img src="{{.ImageURL}}" alt="weather illustration" style="border: 4px solid #000; max-width: 400px;"/>{{end}}

    {{range .Sections}}
    <h3 style="border-bottom: 4px solid #000;">{{.Title}}</h3>
    {{if .Table}}
    <table style="border-collapse: collapse; width: 100%;">
        <thead><tr>{{range .Table.Headers}}<th style="background: #000; color: #fff; padding: 6px; border-bottom: 4px solid #facc15;">{{.}}</th>{{end}}</tr></thead>
        <tbody>
        {{range .Table.Rows}}<tr>{{range .}}<td style="border-bottom: 2px solid #000; padding: 6px;">{{.}}</td>{{end}}</tr>{{end}}
        </tbody>
    </table>
    {{end}}
    {{if .Card}}
    {{range .Card.Snapshots}}
    <div style="border: 4px solid #000; padding: 12px; margin: 8px 0; box-shadow: 4px 4px 0 #000;">
        <strong>{{.City}}, {{.Country}}</strong><br/>
        {{.Temp}}° — {{.Description}}<br/>
        Humidity {{.Humidity}}% · Wind {{.WindSpeed}}
    </div>
    {{end}}
    {{end}}
    {{end}}
</section>
`))

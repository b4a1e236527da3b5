package output

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/iwvelando/city-budget/internal/chart"
)

// PlotlyURL is the Plotly.js bundle standalone pages load.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

//go:embed assets/render.js
var renderScript string

var pageTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Spec.Title}}</title>
<script src="{{.PlotlyURL}}"></script>
<script>{{.Script}}</script>
</head>
<body>
<div id="chart" style="width:100%;height:90vh"></div>
<script>renderChart(document.getElementById("chart"), {{.Spec}});</script>
</body>
</html>
`))

// RenderScript returns the JavaScript that turns a chart spec into a Plotly figure.
// It defines a global renderChart(element, spec) function.
func RenderScript() string {
	return renderScript
}

// HTMLFormat outputs a standalone page that draws the spec, for saving a chart
// to a file.
func HTMLFormat(w io.Writer, spec chart.Spec) error {
	return pageTemplate.Execute(w, struct {
		Spec      chart.Spec
		PlotlyURL string
		Script    template.JS
	}{
		Spec:      spec,
		PlotlyURL: PlotlyURL,
		Script:    template.JS(renderScript),
	})
}

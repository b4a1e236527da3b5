// Package chart turns user selections over a budget into chart specs that any
// pie, bar or line renderer can draw.
package chart

// Kind is the visual form a renderer should use for a spec.
type Kind string

const (
	Pie  Kind = "pie"
	Bar  Kind = "bar"
	Line Kind = "line"
)

// Spec describes one chart. Specs are built from scratch for every selection and
// never modified afterwards.
type Spec struct {
	Kind        Kind         `json:"kind"`
	Title       string       `json:"title"`
	XAxisTitle  string       `json:"xAxisTitle,omitempty"`
	YAxisTitle  string       `json:"yAxisTitle,omitempty"`
	BarMode     string       `json:"barMode,omitempty"`
	BarGap      float64      `json:"barGap,omitempty"`
	BarGroupGap float64      `json:"barGroupGap,omitempty"`
	Hole        float64      `json:"hole,omitempty"`
	Series      []Series     `json:"series"`
	Annotations []Annotation `json:"annotations"`
}

// Series is a labelled sequence of values aligned with its x values.
type Series struct {
	Label   string    `json:"label"`
	XValues []string  `json:"xValues"`
	YValues []float64 `json:"yValues"`
	// Domain is the horizontal [start, end] fraction a pie series occupies.
	Domain []float64 `json:"domain,omitempty"`
}

// Annotation is free text placed at paper coordinates.
type Annotation struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.YValues)
}

// FindSeries returns the series with the given label.
func (s Spec) FindSeries(label string) (Series, bool) {
	for _, series := range s.Series {
		if series.Label == label {
			return series, true
		}
	}
	return Series{}, false
}

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/city-budget/internal/chart"
	"github.com/iwvelando/city-budget/pkg/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewHandler(zap.NewNop(), testutil.FixtureBudget(t), "1.2.3")
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeSpec(t *testing.T, rr *httptest.ResponseRecorder) chart.Spec {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var spec chart.Spec
	if err := json.Unmarshal(rr.Body.Bytes(), &spec); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return spec
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int) string {
	t.Helper()
	if rr.Code != expectedStatus {
		t.Fatalf("expected status %d, got %d: %s", expectedStatus, rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected error message in response, got %s", rr.Body.String())
	}
	return resp["error"]
}

func TestHandleOptions(t *testing.T) {
	rr := get(t, newTestHandler(t), "/api/options")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var opts chart.Options
	if err := json.Unmarshal(rr.Body.Bytes(), &opts); err != nil {
		t.Fatalf("failed to decode options: %v", err)
	}

	if opts.DefaultYear != "2017" {
		t.Errorf("expected default year 2017, got %s", opts.DefaultYear)
	}
	if opts.Years[0] != "2017" || opts.Years[len(opts.Years)-1] != "2012" {
		t.Errorf("expected years latest first, got %v", opts.Years)
	}
	if opts.RangeYears[0] != "2012" {
		t.Errorf("expected range years oldest first, got %v", opts.RangeYears)
	}

	expectedExpense := []string{"Police", "Fire", "General Government"}
	if !reflect.DeepEqual(opts.Departments["expense"], expectedExpense) {
		t.Errorf("expense departments = %v, expected %v", opts.Departments["expense"], expectedExpense)
	}
	expectedRevenue := []string{"Property Taxes", "Sales Taxes", "Intergovernmental"}
	if !reflect.DeepEqual(opts.Departments["revenue"], expectedRevenue) {
		t.Errorf("revenue departments = %v, expected %v", opts.Departments["revenue"], expectedRevenue)
	}
}

func TestHandleSplitCombined(t *testing.T) {
	spec := decodeSpec(t, get(t, newTestHandler(t), "/api/charts/split?year=2017"))

	if spec.Title != "Expense VS Revenue 2017" {
		t.Errorf("unexpected title %q", spec.Title)
	}
	if spec.Kind != chart.Pie {
		t.Errorf("expected pie chart, got %s", spec.Kind)
	}
	if len(spec.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(spec.Series))
	}
	expense := spec.Series[0]
	if !reflect.DeepEqual(expense.XValues, []string{"General Government", "Police", "Fire"}) {
		t.Errorf("unexpected expense labels %v", expense.XValues)
	}
	if !reflect.DeepEqual(expense.YValues, []float64{400, 600, 500}) {
		t.Errorf("unexpected expense values %v", expense.YValues)
	}
}

func TestHandleSplitSingleLedger(t *testing.T) {
	spec := decodeSpec(t, get(t, newTestHandler(t), "/api/charts/split?year=2012&ledger=Revenue"))

	if spec.Title != "Revenue 2012" {
		t.Errorf("unexpected title %q", spec.Title)
	}
	if len(spec.Series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(spec.Series))
	}
	if !reflect.DeepEqual(spec.Series[0].YValues, []float64{600, 250, 200}) {
		t.Errorf("unexpected revenue values %v", spec.Series[0].YValues)
	}
}

func TestHandleSplitErrors(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "missing year", target: "/api/charts/split", status: http.StatusBadRequest},
		{name: "blank year", target: "/api/charts/split?year=%20", status: http.StatusBadRequest},
		{name: "unknown year", target: "/api/charts/split?year=1999", status: http.StatusNotFound},
		{name: "unknown year single ledger", target: "/api/charts/split?year=1999&ledger=expense", status: http.StatusNotFound},
		{name: "unknown ledger", target: "/api/charts/split?year=2017&ledger=capital", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decodeError(t, get(t, handler, tt.target), tt.status)
		})
	}
}

func TestHandleTrend(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name          string
		target        string
		expectedTitle string
		expectedYears []string
	}{
		{
			name:          "full range by default",
			target:        "/api/charts/trend",
			expectedTitle: "Expense VS Revenue 2012-2017",
			expectedYears: []string{"2012", "2013", "2014", "2015", "2016", "2017"},
		},
		{
			name:          "explicit window",
			target:        "/api/charts/trend?start=2&end=4",
			expectedTitle: "Expense VS Revenue 2014-2016",
			expectedYears: []string{"2014", "2015", "2016"},
		},
		{
			name:          "clamped window",
			target:        "/api/charts/trend?start=-3&end=99",
			expectedTitle: "Expense VS Revenue 2012-2017",
			expectedYears: []string{"2012", "2013", "2014", "2015", "2016", "2017"},
		},
		{
			name:          "inverted window",
			target:        "/api/charts/trend?start=4&end=1",
			expectedTitle: "Expense VS Revenue",
			expectedYears: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := decodeSpec(t, get(t, handler, tt.target))
			if spec.Title != tt.expectedTitle {
				t.Errorf("title = %q, expected %q", spec.Title, tt.expectedTitle)
			}
			if len(spec.Series) != 2 {
				t.Fatalf("expected 2 series, got %d", len(spec.Series))
			}
			for _, series := range spec.Series {
				if !reflect.DeepEqual(series.XValues, tt.expectedYears) {
					t.Errorf("%s years = %v, expected %v", series.Label, series.XValues, tt.expectedYears)
				}
			}
		})
	}
}

func TestHandleTrendInvalidIndex(t *testing.T) {
	handler := newTestHandler(t)
	for _, target := range []string{"/api/charts/trend?start=first", "/api/charts/trend?end=1.5"} {
		decodeError(t, get(t, handler, target), http.StatusBadRequest)
	}
}

func TestHandleDepartments(t *testing.T) {
	target := "/api/charts/departments?ledger=expense&name=police&name=Police%20Total&name=Parks&name=Fire"
	spec := decodeSpec(t, get(t, newTestHandler(t), target))

	if spec.Title != "Expense by Department 2012-2017" {
		t.Errorf("unexpected title %q", spec.Title)
	}
	if spec.Kind != chart.Line {
		t.Errorf("expected line chart, got %s", spec.Kind)
	}

	var labels []string
	for _, series := range spec.Series {
		labels = append(labels, series.Label)
	}
	if !reflect.DeepEqual(labels, []string{"Police", "Fire"}) {
		t.Errorf("series labels = %v, expected [Police Fire]", labels)
	}
	if spec.Series[0].YValues[5] != 600 {
		t.Errorf("expected Police 2017 value 600, got %v", spec.Series[0].YValues[5])
	}
}

func TestHandleDepartmentsNoNames(t *testing.T) {
	spec := decodeSpec(t, get(t, newTestHandler(t), "/api/charts/departments?ledger=revenue"))
	if len(spec.Series) != 0 {
		t.Errorf("expected no series, got %d", len(spec.Series))
	}
}

func TestHandleDepartmentsUnknownLedger(t *testing.T) {
	for _, target := range []string{"/api/charts/departments", "/api/charts/departments?ledger=capital&name=Police"} {
		decodeError(t, get(t, newTestHandler(t), target), http.StatusBadRequest)
	}
}

func TestHandleVersion(t *testing.T) {
	rr := get(t, newTestHandler(t), "/api/version")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %q", resp["version"])
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	handler := NewHandler(nil, testutil.FixtureBudget(t), "  ")
	rr := get(t, handler, "/api/version")
	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Fatalf("expected dev version, got %s", rr.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)
	targets := []string{
		"/api/options",
		"/api/charts/split?year=2017",
		"/api/charts/trend",
		"/api/charts/departments?ledger=expense",
		"/api/version",
		"/render.js",
	}

	for _, target := range targets {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader("{}"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: expected status 405, got %d", target, rr.Code)
		}
	}
}

func TestServesIndexAndRenderScript(t *testing.T) {
	handler := newTestHandler(t)

	index := get(t, handler, "/")
	if index.Code != http.StatusOK {
		t.Fatalf("expected status 200 for index, got %d", index.Code)
	}
	body, _ := io.ReadAll(index.Body)
	for _, expected := range []string{"/api/options", "/render.js", "renderChart"} {
		if !strings.Contains(string(body), expected) {
			t.Errorf("index page missing %q", expected)
		}
	}

	script := get(t, handler, "/render.js")
	if script.Code != http.StatusOK {
		t.Fatalf("expected status 200 for render script, got %d", script.Code)
	}
	if ct := script.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(script.Body.String(), "Plotly.react") {
		t.Error("render script does not draw with Plotly")
	}
}

func TestMetricsCountsChartQueries(t *testing.T) {
	handler := newTestHandler(t)
	get(t, handler, "/api/charts/split?year=2017")
	get(t, handler, "/api/charts/split?year=1999")

	rr := get(t, handler, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	metrics := rr.Body.String()
	for _, expected := range []string{
		`city_budget_chart_requests_total{chart="split",status="200"}`,
		`city_budget_chart_requests_total{chart="split",status="404"}`,
		`city_budget_chart_query_duration_seconds_bucket{chart="split"`,
	} {
		if !strings.Contains(metrics, expected) {
			t.Errorf("metrics output missing %q", expected)
		}
	}
}

package monitor

import (
	"bytes"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleWorldChart renders the World Builder's pass/volume counters as a
// bar chart, grounded on the teacher's handleTrafficChart (same
// NewBar/SetXAxis/AddSeries shape, single series of named bars).
func (ws *WebServer) handleWorldChart(w http.ResponseWriter, r *http.Request) {
	snap := ws.stats.Snapshot()

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "World Builder"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis([]string{"Dependency passes", "Resolved volumes"}).
		AddSeries("world", []opts.BarData{
			{Value: snap.WorldPasses},
			{Value: snap.WorldVolumes},
		}, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))

	ws.renderPage(w, bar)
}

// handleHitsChart renders per-sensitive-detector hit counts, grounded on
// the same bar-chart shape with a dynamic (sorted) x-axis.
func (ws *WebServer) handleHitsChart(w http.ResponseWriter, r *http.Request) {
	snap := ws.stats.Snapshot()

	names := make([]string, 0, len(snap.HitsByDetector))
	for name := range snap.HitsByDetector {
		names = append(names, name)
	}
	sort.Strings(names)

	data := make([]opts.BarData, 0, len(names))
	for _, name := range names {
		data = append(data, opts.BarData{Value: snap.HitsByDetector[name]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Hits per sensitive detector"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("hits", data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))

	ws.renderPage(w, bar)
}

// handleBufferChart renders every streamer's current buffer occupancy
// against its flush limit as two side-by-side bar series.
func (ws *WebServer) handleBufferChart(w http.ResponseWriter, r *http.Request) {
	snap := ws.stats.Snapshot()

	names := make([]string, 0, len(snap.BufferOccupancy))
	for name := range snap.BufferOccupancy {
		names = append(names, name)
	}
	sort.Strings(names)

	occupancy := make([]opts.BarData, 0, len(names))
	limit := make([]opts.BarData, 0, len(names))
	for _, name := range names {
		occupancy = append(occupancy, opts.BarData{Value: snap.BufferOccupancy[name]})
		limit = append(limit, opts.BarData{Value: snap.BufferLimit[name]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Streamer buffer occupancy"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("occupancy", occupancy).
		AddSeries("flush-limit", limit)

	ws.renderPage(w, bar)
}

// handleDashboard renders the world and hits charts on a single page;
// the buffer-occupancy chart is not included here and is served only by
// handleBufferChart.
func (ws *WebServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := ws.stats.Snapshot()

	world := charts.NewBar()
	world.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "World Builder"}))
	world.SetXAxis([]string{"passes", "volumes"}).
		AddSeries("world", []opts.BarData{{Value: snap.WorldPasses}, {Value: snap.WorldVolumes}})

	names := make([]string, 0, len(snap.HitsByDetector))
	for name := range snap.HitsByDetector {
		names = append(names, name)
	}
	sort.Strings(names)
	hitData := make([]opts.BarData, 0, len(names))
	for _, name := range names {
		hitData = append(hitData, opts.BarData{Value: snap.HitsByDetector[name]})
	}
	hits := charts.NewBar()
	hits.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Hits per detector"}))
	hits.SetXAxis(names).AddSeries("hits", hitData)

	page := components.NewPage()
	page.AddCharts(world, hits)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		ws.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// renderPage renders a single chart inside a components.Page, the
// pattern the teacher uses for every one of its echarts handlers.
func (ws *WebServer) renderPage(w http.ResponseWriter, chart *charts.Bar) {
	page := components.NewPage()
	page.AddCharts(chart)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		ws.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

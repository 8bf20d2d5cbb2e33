package leaderboardservice

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	leaderboarddomain "github.com/matchday-pool/predictor/app/modules/leaderboard/domain"
	"github.com/matchday-pool/predictor/app/results"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors of rendered charts.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

var DefaultPalette = ChartPalette{
	Background:  drawing.ColorFromHex("10231c"),
	PrimaryLine: drawing.ColorFromHex("3fa46a"),
	AccentLine:  drawing.ColorFromHex("e3b341"),
	TextColor:   drawing.ColorFromHex("e8efe9"),
}

// RenderPointSeriesChart draws a user's cumulative points over the stage.
func (s *LeaderboardService) RenderPointSeriesChart(ctx context.Context, stageID, userID uuid.UUID) ([]byte, error) {
	type res = results.OperationResult[[]byte, error]
	return unwrap(withTelemetry(s, ctx, "RenderPointSeriesChart", stageID.String(), func(ctx context.Context) (res, error) {
		if _, failure, err := s.requireStage(ctx, stageID); failure != nil || err != nil {
			return failed[[]byte](failure, err)
		}
		series, err := s.series(ctx, stageID, userID)
		if err != nil {
			return res{}, err
		}
		png, err := GeneratePointSeriesChart(series, s.palette)
		if err != nil {
			return res{}, err
		}
		return results.SuccessResult[[]byte, error](png), nil
	}))
}

// GeneratePointSeriesChart produces a PNG line chart of cumulative points.
// An empty series renders a placeholder.
func GeneratePointSeriesChart(series []leaderboarddomain.SeriesPoint, palette ChartPalette) ([]byte, error) {
	// go-chart needs at least two points to draw a line
	if len(series) < 2 {
		return renderNoDataPlaceholder(palette, len(series))
	}

	xValues := make([]time.Time, len(series))
	yValues := make([]float64, len(series))
	for i, p := range series {
		xValues[i] = p.KickoffAt
		yValues[i] = p.Cumulative
	}

	mainSeries := chart.TimeSeries{
		Name:    "Cumulative points",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.AccentLine,
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Kickoff",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis: chart.YAxis{
			Name: "Points",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette, points int) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)
	msg := "No scored matches yet"
	if points == 1 {
		msg = "Only one scored match so far"
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{Style: chart.Style{Hidden: true}},
		// Render refuses a chart without series.
		Series: []chart.Series{chart.ContinuousSeries{
			Style:   chart.Style{Hidden: true},
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

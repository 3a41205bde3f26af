package services

import (
	"errors"
	"image"
	"testing"

	"heart-visualizer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobgu/qframe"
)

type stubRenderer struct {
	calls int
	last  PlotRequest
	err   error
	panic interface{}
}

func (s *stubRenderer) Name() string { return "stub" }

func (s *stubRenderer) Render(req PlotRequest) (image.Image, error) {
	s.calls++
	s.last = req
	if s.panic != nil {
		panic(s.panic)
	}
	if s.err != nil {
		return nil, s.err
	}
	return image.NewRGBA(image.Rect(0, 0, req.Width, req.Height)), nil
}

func heartTable(t *testing.T) *models.Table {
	t.Helper()
	table, err := models.NewTable(qframe.New(map[string]interface{}{
		"age":  []float64{63, 67, 67, 37, 41, 56, 62},
		"chol": []float64{233, 286, 229, 250, 204, 236, 268},
		"num":  []float64{0, 2, 1, 0, 0, 0, 3},
	}))
	require.NoError(t, err)
	return table
}

func emptyTable(t *testing.T) *models.Table {
	t.Helper()
	table, err := models.NewTable(qframe.New(map[string]interface{}{
		"age":  []float64{},
		"chol": []float64{},
		"num":  []float64{},
	}))
	require.NoError(t, err)
	return table
}

func TestBuildRequestGroups(t *testing.T) {
	svc := NewPlotService(&stubRenderer{}, 750, 500, nil)

	req, err := svc.BuildRequest(heartTable(t))
	require.NoError(t, err)

	assert.Equal(t, "Heart Disease: Age vs Chol (Grouped by Diagnosis)", req.Title)
	assert.Equal(t, "Age", req.XLabel)
	assert.Equal(t, "Chol", req.YLabel)
	assert.Equal(t, LegendTitle, req.LegendTitle)
	require.Len(t, req.Groups, 2)

	disease, healthy := req.Groups[0], req.Groups[1]
	assert.Equal(t, models.LabelDisease, disease.Label)
	assert.Equal(t, ColorDisease, disease.Color)
	assert.ElementsMatch(t, []float64{67, 67, 62}, disease.X)
	assert.ElementsMatch(t, []float64{286, 229, 268}, disease.Y)

	assert.Equal(t, models.LabelNoDisease, healthy.Label)
	assert.Equal(t, ColorNoDisease, healthy.Color)
	assert.Len(t, healthy.X, 4)
	assert.Equal(t, 7, req.Points())
}

func TestBuildRequestEmptyTable(t *testing.T) {
	svc := NewPlotService(&stubRenderer{}, 750, 500, nil)

	_, err := svc.BuildRequest(emptyTable(t))
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = svc.BuildRequest(nil)
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestBuildRequestMissingFeature(t *testing.T) {
	table, err := models.NewTable(qframe.New(map[string]interface{}{
		"age": []float64{63},
		"num": []float64{1},
	}))
	require.NoError(t, err)

	_, err = NewPlotService(&stubRenderer{}, 750, 500, nil).BuildRequest(table)
	assert.ErrorIs(t, err, models.ErrMissingColumn)
}

func TestRenderPassesRequest(t *testing.T) {
	stub := &stubRenderer{}
	svc := NewPlotService(stub, 320, 200, nil)

	img, req, err := svc.Render(heartTable(t))
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, req, stub.last)
	assert.Equal(t, image.Rect(0, 0, 320, 200), img.Bounds())
}

func TestRenderWrapsRendererError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewPlotService(&stubRenderer{err: boom}, 320, 200, nil)

	img, _, err := svc.Render(heartTable(t))
	assert.Nil(t, img)
	assert.ErrorIs(t, err, boom)
}

func TestRenderRecoversPanic(t *testing.T) {
	svc := NewPlotService(&stubRenderer{panic: "index out of range"}, 320, 200, nil)

	img, _, err := svc.Render(heartTable(t))
	assert.Nil(t, img)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index out of range")
}

func TestRenderEmptyTableSkipsRenderer(t *testing.T) {
	stub := &stubRenderer{}
	_, _, err := NewPlotService(stub, 320, 200, nil).Render(emptyTable(t))
	assert.ErrorIs(t, err, ErrEmptyTable)
	assert.Zero(t, stub.calls)
}

func TestRenderKeepsRowCount(t *testing.T) {
	table := heartTable(t)
	svc := NewPlotService(&stubRenderer{}, 320, 200, nil)

	for i := 0; i < 2; i++ {
		_, _, err := svc.Render(table)
		require.NoError(t, err)
		assert.Equal(t, 7, table.Len())
	}
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)
	assert.Equal(t, GonumRendererName, r.Name())

	r, err = NewRenderer(ChartRendererName)
	require.NoError(t, err)
	assert.Equal(t, ChartRendererName, r.Name())

	_, err = NewRenderer("matplotlib")
	assert.ErrorIs(t, err, ErrUnknownRenderer)
}

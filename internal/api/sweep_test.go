package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/scalebar/internal/sweep"
	"github.com/banshee-data/scalebar/internal/testutil"
	"github.com/banshee-data/scalebar/internal/units"
)

func TestShowSweepHTML(t *testing.T) {
	_, h := setupTestServer(t, false)

	rec := testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/sweep?min=10&max=10000&n=25&system=imperial"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	testutil.AssertContentType(t, rec, "text/html")
	assert.Contains(t, rec.Body.String(), "Scalebar sweep")
}

func TestShowSweepJSON(t *testing.T) {
	_, h := setupTestServer(t, false)

	rec := testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/sweep?min=250&max=2500&n=2&style=bar&format=json"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var res sweep.Result
	testutil.DecodeJSON(t, rec, &res)
	require.Len(t, res.Samples, 2)
	assert.Equal(t, units.Metric, res.Params.System)
	assert.False(t, res.Params.Segmented)
	for _, sample := range res.Samples {
		assert.LessOrEqual(t, sample.Best, sample.MaxLength)
	}
	assert.Greater(t, res.MinRatio, 0.5)
}

func TestShowSweepBadQuery(t *testing.T) {
	_, h := setupTestServer(t, false)

	for _, q := range []string{
		"min=x",
		"max=x",
		"min=10&max=1",
		"n=1",
		"n=abc",
		"n=100000",
		"system=furlongs",
		"style=ruler",
		"format=csv",
	} {
		t.Run(q, func(t *testing.T) {
			rec := testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/sweep?"+q))
			testutil.AssertJSONError(t, rec, http.StatusBadRequest)
		})
	}
}

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/scalebar/internal/db"
	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/testutil"
	"github.com/banshee-data/scalebar/internal/units"
)

func createPreset(t *testing.T, h http.Handler, body map[string]interface{}) db.Preset {
	t.Helper()
	rec := testutil.Serve(h, testutil.NewJSONRequest(t, http.MethodPost, "/api/presets", body))
	testutil.AssertStatusCode(t, rec.Code, http.StatusCreated)
	var p db.Preset
	testutil.DecodeJSON(t, rec, &p)
	require.NotEmpty(t, p.ID)
	assert.Equal(t, "/api/presets/"+p.ID, rec.Header().Get("Location"))
	return p
}

func TestCreatePresetDefaults(t *testing.T) {
	_, h := setupTestServer(t, true)

	p := createPreset(t, h, map[string]interface{}{
		"name":        "field",
		"unit_system": "imperial",
		"style":       "graduated_line",
	})
	assert.Equal(t, "field", p.Name)
	assert.Equal(t, units.Imperial, p.System)
	assert.Equal(t, layout.GraduatedLine, p.Style)
	// Omitted fields take the server defaults.
	assert.Equal(t, layout.AlignLeft, p.Alignment)
	assert.Equal(t, 200.0, p.WidthPx)
	assert.Equal(t, 12.0, p.FontSize)
}

func TestCreatePresetErrors(t *testing.T) {
	_, h := setupTestServer(t, true)
	createPreset(t, h, map[string]interface{}{"name": "taken"})

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"duplicate", map[string]interface{}{"name": "taken"}, http.StatusConflict},
		{"missing name", map[string]interface{}{"style": "bar"}, http.StatusBadRequest},
		{"bad style", map[string]interface{}{"name": "x", "style": "ruler"}, http.StatusBadRequest},
		{"bad width", map[string]interface{}{"name": "x", "width_px": -3}, http.StatusBadRequest},
		{"oversized width", map[string]interface{}{"name": "x", "width_px": 200000}, http.StatusBadRequest},
		{"oversized font", map[string]interface{}{"name": "x", "font_size": 5000}, http.StatusBadRequest},
		{"unknown field", map[string]interface{}{"name": "x", "colour": "red"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Serve(h, testutil.NewJSONRequest(t, http.MethodPost, "/api/presets", tt.body))
			testutil.AssertJSONError(t, rec, tt.status)
		})
	}
}

func TestListPresets(t *testing.T) {
	_, h := setupTestServer(t, true)

	rec := testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/presets"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	createPreset(t, h, map[string]interface{}{"name": "b"})
	createPreset(t, h, map[string]interface{}{"name": "a"})

	rec = testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/presets/"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var list []db.Preset
	testutil.DecodeJSON(t, rec, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)
}

func TestPresetByID(t *testing.T) {
	_, h := setupTestServer(t, true)
	p := createPreset(t, h, map[string]interface{}{"name": "site", "width_px": 300})

	rec := testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/presets/"+p.ID))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var got db.Preset
	testutil.DecodeJSON(t, rec, &got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 300.0, got.WidthPx)

	// Partial update keeps the other fields.
	rec = testutil.Serve(h, testutil.NewJSONRequest(t, http.MethodPut, "/api/presets/"+p.ID,
		map[string]interface{}{"alignment": "center"}))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	testutil.DecodeJSON(t, rec, &got)
	assert.Equal(t, layout.AlignCenter, got.Alignment)
	assert.Equal(t, 300.0, got.WidthPx)
	assert.Equal(t, "site", got.Name)

	rec = testutil.Serve(h, testutil.NewJSONRequest(t, http.MethodPut, "/api/presets/"+p.ID,
		map[string]interface{}{"id": "other"}))
	testutil.AssertJSONError(t, rec, http.StatusBadRequest)

	rec = testutil.Serve(h, testutil.NewTestRequest(http.MethodDelete, "/api/presets/"+p.ID))
	testutil.AssertStatusCode(t, rec.Code, http.StatusNoContent)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec = testutil.Serve(h, testutil.NewTestRequest(method, "/api/presets/"+p.ID))
		testutil.AssertJSONError(t, rec, http.StatusNotFound)
	}
	rec = testutil.Serve(h, testutil.NewJSONRequest(t, http.MethodPut, "/api/presets/"+p.ID,
		map[string]interface{}{"name": "gone"}))
	testutil.AssertJSONError(t, rec, http.StatusNotFound)
}

func TestPresetByIDRouting(t *testing.T) {
	_, h := setupTestServer(t, true)

	rec := testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/presets/a/b"))
	testutil.AssertJSONError(t, rec, http.StatusNotFound)

	rec = testutil.Serve(h, testutil.NewTestRequest(http.MethodPatch, "/api/presets/abc"))
	testutil.AssertJSONError(t, rec, http.StatusMethodNotAllowed)

	rec = testutil.Serve(h, testutil.NewTestRequest(http.MethodPut, "/api/presets"))
	testutil.AssertJSONError(t, rec, http.StatusMethodNotAllowed)
}

func TestPresetsWithoutStore(t *testing.T) {
	_, h := setupTestServer(t, false)

	for _, path := range []string{"/api/presets", "/api/presets/abc", "/api/scalebar?map_length=100&preset=abc"} {
		rec := testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, path))
		testutil.AssertJSONError(t, rec, http.StatusServiceUnavailable)
	}
}

func TestScalebarWithPreset(t *testing.T) {
	_, h := setupTestServer(t, true)
	p := createPreset(t, h, map[string]interface{}{
		"name":        "survey",
		"unit_system": "imperial",
		"style":       "line",
		"width_px":    250,
	})

	for _, ref := range []string{p.ID, "survey"} {
		rec := testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/scalebar?map_length=1000&preset="+ref))
		testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
		var l layout.Layout
		testutil.DecodeJSON(t, rec, &l)
		assert.Equal(t, units.Imperial, l.System)
		assert.Equal(t, layout.Line, l.Style)
		assert.Equal(t, 250.0, l.AvailableWidth)
	}

	// Query parameters override the preset.
	rec := testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/scalebar?map_length=1000&preset=survey&system=metric"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var l layout.Layout
	testutil.DecodeJSON(t, rec, &l)
	assert.Equal(t, units.Metric, l.System)
	assert.Equal(t, "1 km", l.Primary.Label)

	rec = testutil.Serve(h, testutil.NewTestRequest(http.MethodGet, "/api/scalebar?map_length=1000&preset=missing"))
	testutil.AssertJSONError(t, rec, http.StatusNotFound)
}

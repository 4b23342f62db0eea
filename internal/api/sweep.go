package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/scalebar/internal/httputil"
	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/sweep"
	"github.com/banshee-data/scalebar/internal/units"
)

// maxSweepPoints bounds the work a single request can ask for.
const maxSweepPoints = 5000

// showSweep handles GET /api/sweep. It renders an HTML chart, or the raw
// samples when format=json.
func (s *Server) showSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "html" && format != "json" {
		s.writeError(w, fmt.Errorf("%w: format must be html or json", errBadQuery))
		return
	}
	p, err := s.sweepParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := sweep.Run(p)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if format == "json" {
		httputil.WriteJSONOK(w, res)
		return
	}
	var buf bytes.Buffer
	if err := sweep.WriteChart(&buf, res); err != nil {
		s.writeError(w, fmt.Errorf("failed to render sweep chart: %w", err))
		return
	}
	httputil.WriteBody(w, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) sweepParams(r *http.Request) (sweep.Params, error) {
	q := r.URL.Query()
	p := sweep.ParamsFrom(s.cfg)

	floatParam := func(name string, dst *float64) error {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", errBadQuery, name, err)
		}
		*dst = f
		return nil
	}
	if err := floatParam("min", &p.Min); err != nil {
		return p, err
	}
	if err := floatParam("max", &p.Max); err != nil {
		return p, err
	}
	if v := q.Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: n: %v", errBadQuery, err)
		}
		if n > maxSweepPoints {
			return p, fmt.Errorf("%w: n must be at most %d", errBadQuery, maxSweepPoints)
		}
		p.Points = n
	}
	if v := q.Get("system"); v != "" {
		system, err := units.ParseSystem(v)
		if err != nil {
			return p, fmt.Errorf("%w: %v", errBadQuery, err)
		}
		p.System = system
	}
	if v := q.Get("style"); v != "" {
		style, err := layout.ParseStyle(v)
		if err != nil {
			return p, fmt.Errorf("%w: %v", errBadQuery, err)
		}
		p.Segmented = style.Segmented()
	}
	return p, nil
}

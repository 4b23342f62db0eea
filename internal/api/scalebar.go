package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/banshee-data/scalebar/internal/config"
	"github.com/banshee-data/scalebar/internal/db"
	"github.com/banshee-data/scalebar/internal/httputil"
	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/render"
	"github.com/banshee-data/scalebar/internal/units"
)

// showScalebar handles GET /api/scalebar and returns the resolved layout.
func (s *Server) showScalebar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	l, _, err := s.layoutFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSONOK(w, l)
}

// renderPNG handles GET /api/scalebar.png
func (s *Server) renderPNG(w http.ResponseWriter, r *http.Request) {
	s.renderImage(w, r, "image/png", render.PNG)
}

// renderSVG handles GET /api/scalebar.svg
func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request) {
	s.renderImage(w, r, "image/svg+xml", render.SVG)
}

type encodeFunc func(w io.Writer, l layout.Layout, opts render.Options) error

func (s *Server) renderImage(w http.ResponseWriter, r *http.Request, contentType string, encode encodeFunc) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	l, opts, err := s.layoutFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := encode(&buf, l, opts); err != nil {
		s.writeError(w, fmt.Errorf("failed to render scalebar: %w", err))
		return
	}
	httputil.WriteBody(w, contentType, buf.Bytes())
}

// layoutFromQuery resolves the scalebar described by the request query.
func (s *Server) layoutFromQuery(r *http.Request) (layout.Layout, render.Options, error) {
	cfg, mapLength, err := s.configFromQuery(r.Context(), r.URL.Query())
	if err != nil {
		return layout.Layout{}, render.Options{}, err
	}
	opts := render.OptionsFrom(cfg)
	l, err := layout.Compute(cfg.Request(mapLength), opts.Measurer())
	if err != nil {
		return layout.Layout{}, render.Options{}, err
	}
	return l, opts, nil
}

// configFromQuery layers an optional preset and then the individual query
// overrides on top of the server defaults.
func (s *Server) configFromQuery(ctx context.Context, q url.Values) (*config.ScalebarConfig, float64, error) {
	cfg := s.cfg
	if ref := q.Get("preset"); ref != "" {
		p, err := s.lookupPreset(ctx, ref)
		if err != nil {
			return nil, 0, err
		}
		cfg = p.Apply(cfg)
	}
	c := *cfg

	raw := q.Get("map_length")
	if raw == "" {
		return nil, 0, fmt.Errorf("%w: map_length is required", errBadQuery)
	}
	mapLength, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: map_length: %v", errBadQuery, err)
	}

	if v := q.Get("width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: width: %v", errBadQuery, err)
		}
		if !(width > 0 && width <= layout.MaxAvailableWidth) {
			return nil, 0, fmt.Errorf("%w: width must be in (0, %d], got %v", errBadQuery, layout.MaxAvailableWidth, width)
		}
		c.WidthPx = &width
	}
	if v := q.Get("system"); v != "" {
		if _, err := units.ParseSystem(v); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", errBadQuery, err)
		}
		c.UnitSystem = &v
	}
	if v := q.Get("style"); v != "" {
		if _, err := layout.ParseStyle(v); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", errBadQuery, err)
		}
		c.Style = &v
	}
	if v := q.Get("align"); v != "" {
		if _, err := layout.ParseAlignment(v); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", errBadQuery, err)
		}
		c.Alignment = &v
	}
	if v := q.Get("max_segments"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: max_segments: %v", errBadQuery, err)
		}
		c.MaxSegments = &n
	}
	if err := c.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", errBadQuery, err)
	}
	return &c, mapLength, nil
}

// lookupPreset resolves ref as a preset ID when it parses as a UUID and
// as a preset name otherwise.
func (s *Server) lookupPreset(ctx context.Context, ref string) (db.Preset, error) {
	if s.db == nil {
		return db.Preset{}, errNoStore
	}
	if _, err := uuid.Parse(ref); err == nil {
		p, err := s.db.GetPreset(ctx, ref)
		if !errors.Is(err, db.ErrPresetNotFound) {
			return p, err
		}
	}
	return s.db.GetPresetByName(ctx, ref)
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/scalebar/internal/config"
	"github.com/banshee-data/scalebar/internal/layout"
	"github.com/banshee-data/scalebar/internal/monitoring"
	"github.com/banshee-data/scalebar/internal/units"
)

var (
	// ErrPresetNotFound is returned when no preset has the requested ID or name.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrPresetExists is returned when a preset name is already taken.
	ErrPresetExists = errors.New("preset name already exists")
	// ErrInvalidPreset is returned for presets that fail validation.
	ErrInvalidPreset = errors.New("invalid preset")
)

// Preset is a named, stored scalebar appearance.
type Preset struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	System       units.System     `json:"unit_system"`
	Style        layout.Style     `json:"style"`
	Alignment    layout.Alignment `json:"alignment"`
	WidthPx      float64          `json:"width_px"`
	MaxSegments  int              `json:"max_segments"`
	LabelSpacing float64          `json:"label_spacing"`
	FontSize     float64          `json:"font_size"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewPreset returns a preset named name carrying the values of cfg.
func NewPreset(name string, cfg *config.ScalebarConfig) Preset {
	return Preset{
		Name:         name,
		System:       cfg.GetSystem(),
		Style:        cfg.GetStyle(),
		Alignment:    cfg.GetAlignment(),
		WidthPx:      cfg.GetWidthPx(),
		MaxSegments:  cfg.GetMaxSegments(),
		LabelSpacing: cfg.GetLabelSpacing(),
		FontSize:     cfg.GetFontSize(),
	}
}

// Validate checks the preset fields.
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPreset)
	}
	if _, err := layout.ParseStyle(p.Style.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	if !(p.WidthPx > 0 && p.WidthPx <= layout.MaxAvailableWidth) {
		return fmt.Errorf("%w: width_px must be in (0, %d], got %v", ErrInvalidPreset, layout.MaxAvailableWidth, p.WidthPx)
	}
	if p.MaxSegments < 0 {
		return fmt.Errorf("%w: max_segments must be non-negative, got %d", ErrInvalidPreset, p.MaxSegments)
	}
	if !(p.LabelSpacing > 0) {
		return fmt.Errorf("%w: label_spacing must be positive, got %v", ErrInvalidPreset, p.LabelSpacing)
	}
	if !(p.FontSize > 0 && p.FontSize <= config.MaxFontSize) {
		return fmt.Errorf("%w: font_size must be in (0, %d], got %v", ErrInvalidPreset, config.MaxFontSize, p.FontSize)
	}
	return nil
}

// Apply returns a copy of base with the preset's fields set. Fields the
// preset does not carry, such as the sweep range, keep base's values.
func (p Preset) Apply(base *config.ScalebarConfig) *config.ScalebarConfig {
	out := *base
	system, style, align := p.System.String(), p.Style.String(), p.Alignment.String()
	width, spacing, font, segments := p.WidthPx, p.LabelSpacing, p.FontSize, p.MaxSegments
	out.UnitSystem = &system
	out.Style = &style
	out.Alignment = &align
	out.WidthPx = &width
	out.MaxSegments = &segments
	out.LabelSpacing = &spacing
	out.FontSize = &font
	return &out
}

const presetColumns = `id, name, unit_system, style, alignment, width_px, max_segments,
	label_spacing, font_size, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (Preset, error) {
	var (
		p                       Preset
		system, style, align    string
		createdNanos, updatedNs int64
	)
	if err := row.Scan(&p.ID, &p.Name, &system, &style, &align, &p.WidthPx, &p.MaxSegments,
		&p.LabelSpacing, &p.FontSize, &createdNanos, &updatedNs); err != nil {
		return Preset{}, err
	}

	var err error
	if p.System, err = units.ParseSystem(system); err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", p.ID, err)
	}
	if p.Style, err = layout.ParseStyle(style); err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", p.ID, err)
	}
	if p.Alignment, err = layout.ParseAlignment(align); err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", p.ID, err)
	}
	p.CreatedAt = time.Unix(0, createdNanos).UTC()
	p.UpdatedAt = time.Unix(0, updatedNs).UTC()
	return p, nil
}

// ListPresets returns all presets ordered by name.
func (db *DB) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+presetColumns+` FROM presets ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer rows.Close()

	presets := []Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating presets: %w", err)
	}
	return presets, nil
}

// GetPreset returns the preset with the given ID.
func (db *DB) GetPreset(ctx context.Context, id string) (Preset, error) {
	row := db.QueryRowContext(ctx, `SELECT `+presetColumns+` FROM presets WHERE id = ?`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("failed to query preset: %w", err)
	}
	return p, nil
}

// GetPresetByName returns the preset with the given name.
func (db *DB) GetPresetByName(ctx context.Context, name string) (Preset, error) {
	row := db.QueryRowContext(ctx, `SELECT `+presetColumns+` FROM presets WHERE name = ?`, name)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("failed to query preset: %w", err)
	}
	return p, nil
}

// CreatePreset validates p, assigns it a new ID and timestamps, and stores it.
func (db *DB) CreatePreset(ctx context.Context, p Preset) (Preset, error) {
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	now := db.clock.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := db.ExecContext(ctx, `INSERT INTO presets (`+presetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.System.String(), p.Style.String(), p.Alignment.String(),
		p.WidthPx, p.MaxSegments, p.LabelSpacing, p.FontSize,
		now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return Preset{}, wrapWriteError("create", p.Name, err)
	}
	monitoring.Logf("preset %q created (%s)", p.Name, p.ID)
	return p, nil
}

// UpdatePreset replaces the stored fields of the preset with p.ID. The
// creation time is preserved.
func (db *DB) UpdatePreset(ctx context.Context, p Preset) (Preset, error) {
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	now := db.clock.Now().UTC()

	res, err := db.ExecContext(ctx, `UPDATE presets
		SET name = ?, unit_system = ?, style = ?, alignment = ?, width_px = ?,
			max_segments = ?, label_spacing = ?, font_size = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.System.String(), p.Style.String(), p.Alignment.String(), p.WidthPx,
		p.MaxSegments, p.LabelSpacing, p.FontSize, now.UnixNano(),
		p.ID,
	)
	if err != nil {
		return Preset{}, wrapWriteError("update", p.Name, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return Preset{}, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, p.ID)
	}
	return db.GetPreset(ctx, p.ID)
}

// DeletePreset removes the preset with the given ID.
func (db *DB) DeletePreset(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	monitoring.Logf("preset %s deleted", id)
	return nil
}

func wrapWriteError(op, name string, err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %q", ErrPresetExists, name)
	}
	return fmt.Errorf("failed to %s preset: %w", op, err)
}

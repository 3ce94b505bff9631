// Package store holds database backed implementations of the board
// persistence and data provider interfaces.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// ErrRevisionConflict is returned when a widget changed between load and save.
var ErrRevisionConflict = errors.New("store: widget revision conflict")

type widgetRecord struct {
	ID          string         `gorm:"type:varchar(64);primaryKey"`
	DashboardID string         `gorm:"type:varchar(64);index"`
	Kind        string         `gorm:"type:varchar(32)"`
	Config      datatypes.JSON `gorm:"type:jsonb"`
	Relations   datatypes.JSON `gorm:"type:jsonb"`
	Position    int            `gorm:"not null;default:0"`
	Revision    int            `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (widgetRecord) TableName() string { return "board_widgets" }

// GormWidgetStore persists widgets in Postgres, one row per widget with the
// config stored as jsonb.
type GormWidgetStore struct {
	db *gorm.DB
}

var _ dashboard.WidgetStore = (*GormWidgetStore)(nil)

// OpenPostgres opens a gorm connection for dsn.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	return db, nil
}

// NewGormWidgetStore ensures the schema exists and returns the store.
func NewGormWidgetStore(db *gorm.DB) (*GormWidgetStore, error) {
	if db == nil {
		return nil, errors.New("store: gorm db is required")
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &GormWidgetStore{db: db}, nil
}

// The schema is small and stable so it is created explicitly instead of
// going through AutoMigrate.
func ensureSchema(db *gorm.DB) error {
	if err := db.Exec(`
CREATE TABLE IF NOT EXISTS board_widgets (
  id varchar(64) PRIMARY KEY,
  dashboard_id varchar(64) NOT NULL,
  kind varchar(32) NOT NULL,
  config jsonb NULL,
  relations jsonb NULL,
  position integer NOT NULL DEFAULT 0,
  revision integer NOT NULL DEFAULT 1,
  created_at timestamptz NOT NULL DEFAULT now(),
  updated_at timestamptz NOT NULL DEFAULT now()
);
`).Error; err != nil {
		return err
	}
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_board_widgets_dashboard_id ON board_widgets(dashboard_id);`).Error
}

func (s *GormWidgetStore) Widget(ctx context.Context, widgetID string) (dashboard.Widget, error) {
	var rec widgetRecord
	err := s.db.WithContext(ctx).Where("id = ?", widgetID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dashboard.Widget{}, fmt.Errorf("%w: %s", dashboard.ErrWidgetNotFound, widgetID)
	}
	if err != nil {
		return dashboard.Widget{}, err
	}
	return fromRecord(rec)
}

// Widgets lists a board's widgets by position. An empty id lists every board.
func (s *GormWidgetStore) Widgets(ctx context.Context, dashboardID string) ([]dashboard.Widget, error) {
	var recs []widgetRecord
	q := s.db.WithContext(ctx).Order("position ASC, created_at ASC")
	if dashboardID != "" {
		q = q.Where("dashboard_id = ?", dashboardID)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]dashboard.Widget, 0, len(recs))
	for _, rec := range recs {
		w, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// SaveWidget inserts or replaces the widget, bumping its revision. The update
// is conditional on the revision read in the same transaction.
func (s *GormWidgetStore) SaveWidget(ctx context.Context, widget dashboard.Widget) (dashboard.Widget, error) {
	if strings.TrimSpace(widget.ID) == "" {
		return dashboard.Widget{}, errors.New("store: widget id is required")
	}
	next, err := toRecord(widget)
	if err != nil {
		return dashboard.Widget{}, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current widgetRecord
		err := tx.Where("id = ?", widget.ID).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			var count int64
			if err := tx.Model(&widgetRecord{}).Where("dashboard_id = ?", next.DashboardID).Count(&count).Error; err != nil {
				return err
			}
			next.Position = int(count)
			next.Revision = 1
			return tx.Create(&next).Error
		}
		if err != nil {
			return err
		}
		next.Position = current.Position
		next.Revision = current.Revision + 1
		res := tx.Model(&widgetRecord{}).
			Where("id = ? AND revision = ?", current.ID, current.Revision).
			Updates(map[string]any{
				"dashboard_id": next.DashboardID,
				"kind":         next.Kind,
				"config":       next.Config,
				"relations":    next.Relations,
				"revision":     next.Revision,
				"updated_at":   time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrRevisionConflict, widget.ID)
		}
		return nil
	})
	if err != nil {
		return dashboard.Widget{}, err
	}
	return s.Widget(ctx, widget.ID)
}

func (s *GormWidgetStore) DeleteWidget(ctx context.Context, widgetID string) error {
	res := s.db.WithContext(ctx).Where("id = ?", widgetID).Delete(&widgetRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", dashboard.ErrWidgetNotFound, widgetID)
	}
	return nil
}

func toRecord(w dashboard.Widget) (widgetRecord, error) {
	cfg, err := json.Marshal(w.Config)
	if err != nil {
		return widgetRecord{}, fmt.Errorf("store: encode widget %s: %w", w.ID, err)
	}
	rec := widgetRecord{
		ID:          w.ID,
		DashboardID: w.DashboardID,
		Kind:        string(w.Config.Type),
		Config:      datatypes.JSON(cfg),
		Revision:    w.Revision,
	}
	if len(w.Relations) > 0 {
		rel, err := json.Marshal(w.Relations)
		if err != nil {
			return widgetRecord{}, fmt.Errorf("store: encode relations of %s: %w", w.ID, err)
		}
		rec.Relations = datatypes.JSON(rel)
	}
	return rec, nil
}

func fromRecord(rec widgetRecord) (dashboard.Widget, error) {
	w := dashboard.Widget{
		ID:          rec.ID,
		DashboardID: rec.DashboardID,
		Revision:    rec.Revision,
		UpdatedAt:   rec.UpdatedAt,
	}
	if len(rec.Config) > 0 {
		if err := json.Unmarshal(rec.Config, &w.Config); err != nil {
			return dashboard.Widget{}, fmt.Errorf("store: decode widget %s: %w", rec.ID, err)
		}
	}
	if len(rec.Relations) > 0 && string(rec.Relations) != "null" {
		if err := json.Unmarshal(rec.Relations, &w.Relations); err != nil {
			return dashboard.Widget{}, fmt.Errorf("store: decode relations of %s: %w", rec.ID, err)
		}
	}
	return w, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/sqltemplate"
)

// GormRowProvider runs a view's SQL template through gorm.
type GormRowProvider struct {
	db        *gorm.DB
	query     string
	templates *sqltemplate.Processor
}

// NewGormRowProvider builds a provider for one view query.
func NewGormRowProvider(db *gorm.DB, templates *sqltemplate.Processor, query string) *GormRowProvider {
	return &GormRowProvider{db: db, query: query, templates: templates}
}

func (p *GormRowProvider) Fetch(ctx context.Context, req dashboard.ViewRequest) (dashboard.ViewData, error) {
	stmt, err := p.templates.Build(p.query, req)
	if err != nil {
		return dashboard.ViewData{}, err
	}
	rows, err := p.db.WithContext(ctx).Raw(stmt.SQL, stmt.Args...).Rows()
	if err != nil {
		return dashboard.ViewData{}, fmt.Errorf("store: query view %s: %w", req.ViewID, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// SQLRowProvider runs a view's SQL template against a database/sql pool,
// typically MySQL or TiDB.
type SQLRowProvider struct {
	db        *sql.DB
	query     string
	templates *sqltemplate.Processor
}

// NewSQLRowProvider builds a provider for one view query.
func NewSQLRowProvider(db *sql.DB, templates *sqltemplate.Processor, query string) *SQLRowProvider {
	return &SQLRowProvider{db: db, query: query, templates: templates}
}

func (p *SQLRowProvider) Fetch(ctx context.Context, req dashboard.ViewRequest) (dashboard.ViewData, error) {
	stmt, err := p.templates.Build(p.query, req)
	if err != nil {
		return dashboard.ViewData{}, err
	}
	rows, err := p.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return dashboard.ViewData{}, fmt.Errorf("store: query view %s: %w", req.ViewID, err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// OpenMySQL opens a database/sql pool with the MySQL driver. Timestamps are
// parsed into time.Time.
func OpenMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("store: mysql connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// ProviderFactory builds the provider of one SQL view.
type ProviderFactory func(query string) dashboard.Provider

// GormProviders returns a factory of gorm backed providers.
func GormProviders(db *gorm.DB, templates *sqltemplate.Processor) ProviderFactory {
	return func(query string) dashboard.Provider {
		return NewGormRowProvider(db, templates, query)
	}
}

// SQLProviders returns a factory of database/sql backed providers.
func SQLProviders(db *sql.DB, templates *sqltemplate.Processor) ProviderFactory {
	return func(query string) dashboard.Provider {
		return NewSQLRowProvider(db, templates, query)
	}
}

// RegisterSQLViews registers a provider for every SQL view of the manifest.
func RegisterSQLViews(reg *dashboard.Registry, doc *dashboard.BoardManifest, factory ProviderFactory) error {
	if reg == nil || doc == nil {
		return nil
	}
	if factory == nil {
		return errors.New("store: provider factory is required")
	}
	for viewID, query := range doc.SQLViews() {
		if err := reg.RegisterProvider(viewID, factory(query)); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRows(rows rowScanner) (dashboard.ViewData, error) {
	columns, err := rows.Columns()
	if err != nil {
		return dashboard.ViewData{}, err
	}
	data := dashboard.ViewData{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return dashboard.ViewData{}, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data.Rows = append(data.Rows, values)
	}
	return data, rows.Err()
}

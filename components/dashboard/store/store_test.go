package store

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/sqltemplate"
)

func TestRecordRoundTrip(t *testing.T) {
	widget := dashboard.Widget{
		ID:          "region",
		DashboardID: "sales-board",
		Config: dashboard.WidgetConfig{
			Type: dashboard.WidgetKindController,
			Name: "Region",
			Content: dashboard.ControllerContent{
				Type: dashboard.FacadeMultiDropdownList,
				Config: dashboard.ControllerConfig{
					ValueOptionType:  dashboard.ValueOptionCustom,
					ValueOptions:     []dashboard.FilterValueOption{{Key: "eu", Label: "Europe"}},
					ControllerValues: []any{"eu"},
				},
			},
		},
		Relations: []dashboard.Relation{{ID: "r1", SourceID: "region", TargetID: "chart", Type: dashboard.RelationTypeControlToWidget}},
		Revision:  3,
	}
	rec, err := toRecord(widget)
	if err != nil {
		t.Fatalf("toRecord: %v", err)
	}
	if rec.Kind != "controller" || rec.DashboardID != "sales-board" {
		t.Fatalf("unexpected record %+v", rec)
	}
	back, err := fromRecord(rec)
	if err != nil {
		t.Fatalf("fromRecord: %v", err)
	}
	content, ok := back.ControllerContent()
	if !ok {
		t.Fatalf("expected controller content after round trip")
	}
	if content.Config.ControllerValues[0] != "eu" || content.Config.ValueOptions[0].Label != "Europe" {
		t.Fatalf("unexpected content %+v", content.Config)
	}
	if len(back.Relations) != 1 || back.Relations[0].TargetID != "chart" || back.Revision != 3 {
		t.Fatalf("unexpected widget %+v", back)
	}
}

func TestFromRecordRejectsBrokenConfig(t *testing.T) {
	if _, err := fromRecord(widgetRecord{ID: "w", Config: []byte(`{"type":`)}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewGormWidgetStoreRequiresDB(t *testing.T) {
	if _, err := NewGormWidgetStore(nil); err == nil {
		t.Fatalf("expected error without db")
	}
}

type fakeRows struct {
	columns []string
	rows    [][]any
	idx     int
}

func (f *fakeRows) Columns() ([]string, error) { return f.columns, nil }

func (f *fakeRows) Next() bool {
	if f.idx >= len(f.rows) {
		return false
	}
	f.idx++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.rows[f.idx-1]
	for i := range dest {
		*(dest[i].(*any)) = row[i]
	}
	return nil
}

func (f *fakeRows) Err() error { return nil }

func TestScanRowsConvertsBytes(t *testing.T) {
	data, err := scanRows(&fakeRows{
		columns: []string{"region", "amount"},
		rows:    [][]any{{[]byte("eu"), int64(10)}, {[]byte("us"), nil}},
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(data.Rows) != 2 || data.Rows[0][0] != "eu" || data.Rows[0][1] != int64(10) || data.Rows[1][1] != nil {
		t.Fatalf("unexpected rows %v", data.Rows)
	}
	if got := data.Column("region"); len(got) != 2 || got[1] != "us" {
		t.Fatalf("unexpected column %v", got)
	}
}

const manifestYAML = `
version: "1"
board: ops
views:
  - id: inline
    columns: [a]
    rows: [[1]]
  - id: orders
    sql: SELECT region, total FROM orders
widgets: []
`

func TestRegisterSQLViews(t *testing.T) {
	doc, err := dashboard.DecodeManifest(strings.NewReader(manifestYAML))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	reg := dashboard.NewRegistry()
	var queries []string
	factory := func(query string) dashboard.Provider {
		queries = append(queries, query)
		return dashboard.ProviderFunc(func(context.Context, dashboard.ViewRequest) (dashboard.ViewData, error) {
			return dashboard.ViewData{}, nil
		})
	}
	if err := RegisterSQLViews(reg, doc, factory); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := reg.Provider("orders"); !ok {
		t.Fatalf("expected orders provider")
	}
	if len(queries) != 1 || queries[0] != "SELECT region, total FROM orders" {
		t.Fatalf("unexpected queries %v", queries)
	}
	if err := RegisterSQLViews(reg, doc, nil); err == nil {
		t.Fatalf("expected error without factory")
	}
}

func TestSQLRowProviderRejectsNonSelect(t *testing.T) {
	p := NewSQLRowProvider(nil, sqltemplate.NewProcessor(sqltemplate.Options{}), "DELETE FROM orders")
	if _, err := p.Fetch(context.Background(), dashboard.ViewRequest{ViewID: "orders"}); err == nil {
		t.Fatalf("expected guard to reject the query before touching the db")
	}
}

func TestOpenMySQLParsesDSN(t *testing.T) {
	db, err := OpenMySQL("user:pass@tcp(127.0.0.1:3306)/shop")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if _, err := OpenMySQL("not a dsn"); err == nil {
		t.Fatalf("expected dsn error")
	}
}

func TestEventCodec(t *testing.T) {
	payload, err := encodeEvent(dashboard.WidgetEvent{DashboardID: "b1", WidgetID: "chart", Reason: dashboard.EventReasonFilter})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	event, err := decodeEvent(payload)
	if err != nil || event.WidgetID != "chart" || event.Reason != dashboard.EventReasonFilter {
		t.Fatalf("unexpected event %+v %v", event, err)
	}
	if _, err := decodeEvent(`{"dashboardId":"b1"}`); err == nil {
		t.Fatalf("expected error for missing widget id")
	}
	if _, err := decodeEvent(`nope`); err == nil {
		t.Fatalf("expected json error")
	}
}

func TestNewRedisRefreshHookDefaults(t *testing.T) {
	hook := NewRedisRefreshHook(nil, "", nil)
	if hook.channel != DefaultRefreshChannel || hook.logger == nil {
		t.Fatalf("unexpected defaults %+v", hook)
	}
}

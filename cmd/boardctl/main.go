package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/queries"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/sqltemplate"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/store"
)

type cli struct {
	Verbose bool `short:"v" help:"Log board telemetry to stderr."`

	Dispatch dispatchCmd `cmd:"" help:"Show the variant every widget of a board dispatches to."`
	Options  optionsCmd  `cmd:"" help:"Mount a controller and list its selectable options."`
	View     viewCmd     `cmd:"" help:"Print the control a controller renders."`
	Submit   submitCmd   `cmd:"" help:"Submit a controller value and show the dependents refreshed."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a controller widget to a board manifest."`
}

type boardFlags struct {
	Manifest string `required:"" type:"existingfile" help:"Board manifest (YAML or JSON)."`
	MySQLDSN string `name:"mysql-dsn" env:"BOARDCTL_MYSQL_DSN" help:"Serve SQL views from this MySQL/TiDB database."`
}

type runtime struct {
	out    io.Writer
	logger *slog.Logger
}

type boardEnv struct {
	doc   *dashboard.BoardManifest
	board *dashboard.Board
	db    *sql.DB
}

func (e *boardEnv) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Description("Inspect and drive board controllers from a manifest."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	level := slog.LevelWarn
	if root.Verbose {
		level = slog.LevelDebug
	}
	rt := &runtime{
		out:    os.Stdout,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
	err := ctx.Run(rt)
	ctx.FatalIfErrorf(err)
}

func (f boardFlags) load(ctx context.Context, rt *runtime) (*boardEnv, error) {
	doc, err := dashboard.ReadManifest(f.Manifest)
	if err != nil {
		return nil, err
	}
	env := &boardEnv{doc: doc}
	registry := dashboard.NewRegistry()
	if len(doc.SQLViews()) > 0 && f.MySQLDSN != "" {
		db, err := store.OpenMySQL(f.MySQLDSN)
		if err != nil {
			return nil, err
		}
		env.db = db
		templates := sqltemplate.NewProcessor(sqltemplate.Options{Logger: rt.logger})
		if err := store.RegisterSQLViews(registry, doc, store.SQLProviders(db, templates)); err != nil {
			env.Close()
			return nil, err
		}
	}
	telemetry := dashboard.LogTelemetry{Logger: rt.logger, Level: slog.LevelDebug}
	widgets := dashboard.NewInMemoryWidgetStore()
	seed := commands.NewSeedBoardCommand(widgets, registry, telemetry)
	if err := seed.Execute(ctx, commands.SeedBoardInput{Manifest: doc}); err != nil {
		env.Close()
		return nil, err
	}
	env.board = dashboard.NewBoard(dashboard.BoardOptions{
		Store:     widgets,
		Providers: registry,
		Telemetry: telemetry,
		Logger:    rt.logger,
	})
	return env, nil
}

type dispatchCmd struct {
	boardFlags
	Editing bool `help:"Dispatch as if the board were in edit mode."`
}

type dispatchRow struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Placeholder string `json:"placeholder,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func (cmd *dispatchCmd) Run(ctx context.Context, rt *runtime) error {
	env, err := cmd.load(ctx, rt)
	if err != nil {
		return err
	}
	defer env.Close()
	widgets, err := env.board.Widgets(ctx, env.doc.Board)
	if err != nil {
		return err
	}
	query := queries.NewDispatchWidgetQuery(env.board)
	rows := make([]dispatchRow, 0, len(widgets))
	for _, widget := range widgets {
		variant, err := query.Query(ctx, queries.DispatchWidgetInput{WidgetID: widget.ID, BoardEditing: cmd.Editing})
		if err != nil {
			return err
		}
		row := dispatchRow{ID: widget.ID, Kind: string(variant.Kind())}
		if fb, ok := variant.(dashboard.FallbackVariant); ok {
			row.Kind = "fallback"
			row.Placeholder = fb.Placeholder
			row.Reason = fb.Reason
		}
		rows = append(rows, row)
	}
	return writeJSON(rt.out, rows)
}

type optionsCmd struct {
	boardFlags
	Widget string `required:"" help:"Controller widget id."`
}

func (cmd *optionsCmd) Run(ctx context.Context, rt *runtime) error {
	env, err := cmd.load(ctx, rt)
	if err != nil {
		return err
	}
	defer env.Close()
	machine, err := env.board.MountController(ctx, cmd.Widget)
	if err != nil {
		return err
	}
	return writeJSON(rt.out, machine.Options())
}

type viewCmd struct {
	boardFlags
	Widget string `required:"" help:"Controller widget id."`
}

func (cmd *viewCmd) Run(ctx context.Context, rt *runtime) error {
	env, err := cmd.load(ctx, rt)
	if err != nil {
		return err
	}
	defer env.Close()
	mount := commands.NewMountControllerCommand(env.board, nil)
	if err := mount.Execute(ctx, commands.MountControllerInput{WidgetID: cmd.Widget}); err != nil {
		return err
	}
	view, err := queries.NewControllerViewQuery(env.board).Query(ctx, queries.ControllerViewInput{WidgetID: cmd.Widget})
	if err != nil {
		return err
	}
	return writeJSON(rt.out, view)
}

type submitCmd struct {
	boardFlags
	Widget string `required:"" help:"Controller widget id."`
	Value  string `help:"Submitted value. JSON (e.g. '[\"eu\",\"us\"]') is decoded, anything else is sent as a string."`
	User   string `help:"User id recorded on the activity event."`
}

type submitReport struct {
	Committed  bool             `json:"committed"`
	Widget     dashboard.Widget `json:"widget"`
	Dependents []string         `json:"dependents"`
}

func (cmd *submitCmd) Run(ctx context.Context, rt *runtime) error {
	env, err := cmd.load(ctx, rt)
	if err != nil {
		return err
	}
	defer env.Close()
	var result commands.SubmitControllerValueResult
	submit := commands.NewSubmitControllerValueCommand(env.board, nil)
	err = submit.Execute(ctx, commands.SubmitControllerValueInput{
		Actor:    commands.Actor{UserID: cmd.User, ActorID: cmd.User},
		WidgetID: cmd.Widget,
		Value:    parseValue(cmd.Value),
		Result:   &result,
	})
	if err != nil {
		return err
	}
	report := submitReport{Committed: result.Committed, Widget: result.Widget, Dependents: []string{}}
	if result.Committed {
		deps, err := env.board.Dependents(ctx, result.Widget)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			report.Dependents = append(report.Dependents, dep.ID)
		}
	}
	return writeJSON(rt.out, report)
}

func parseValue(raw string) any {
	if raw == "" {
		return nil
	}
	var v any
	if json.Valid([]byte(raw)) {
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("boardctl: write output: %w", err)
	}
	return nil
}

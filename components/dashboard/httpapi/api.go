package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-controls/components/dashboard"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/queries"
)

// Executor runs the write side of the API. Transports (net/http, go-router)
// share it so both behave the same.
type Executor interface {
	SubmitController(ctx context.Context, input commands.SubmitControllerValueInput) error
	MountController(ctx context.Context, input commands.MountControllerInput) error
	RefreshWidget(ctx context.Context, input commands.RefreshWidgetInput) error
	UpdateWidget(ctx context.Context, input commands.UpdateWidgetInput) error
	RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error
}

// CommandExecutor adapts go-command commanders to Executor.
type CommandExecutor struct {
	Submit  gocommand.Commander[commands.SubmitControllerValueInput]
	Mount   gocommand.Commander[commands.MountControllerInput]
	Refresh gocommand.Commander[commands.RefreshWidgetInput]
	Update  gocommand.Commander[commands.UpdateWidgetInput]
	Remove  gocommand.Commander[commands.RemoveWidgetInput]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every command against board.
func NewCommandExecutor(board *dashboard.Board, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		Submit:  commands.NewSubmitControllerValueCommand(board, telemetry),
		Mount:   commands.NewMountControllerCommand(board, telemetry),
		Refresh: commands.NewRefreshWidgetCommand(board, telemetry),
		Update:  commands.NewUpdateWidgetCommand(board, telemetry),
		Remove:  commands.NewRemoveWidgetCommand(board, telemetry),
	}
}

var errCommandMissing = errors.New("httpapi: command not configured")

func (e *CommandExecutor) SubmitController(ctx context.Context, input commands.SubmitControllerValueInput) error {
	if e.Submit == nil {
		return errCommandMissing
	}
	return e.Submit.Execute(ctx, input)
}

func (e *CommandExecutor) MountController(ctx context.Context, input commands.MountControllerInput) error {
	if e.Mount == nil {
		return errCommandMissing
	}
	return e.Mount.Execute(ctx, input)
}

func (e *CommandExecutor) RefreshWidget(ctx context.Context, input commands.RefreshWidgetInput) error {
	if e.Refresh == nil {
		return errCommandMissing
	}
	return e.Refresh.Execute(ctx, input)
}

func (e *CommandExecutor) UpdateWidget(ctx context.Context, input commands.UpdateWidgetInput) error {
	if e.Update == nil {
		return errCommandMissing
	}
	return e.Update.Execute(ctx, input)
}

func (e *CommandExecutor) RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error {
	if e.Remove == nil {
		return errCommandMissing
	}
	return e.Remove.Execute(ctx, input)
}

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	API        Executor
	Board      gocommand.Querier[queries.BoardInput, dashboard.BoardView]
	Controller gocommand.Querier[queries.ControllerViewInput, queries.ControllerView]
	// Actor extracts the caller identity; nil leaves activity events anonymous.
	Actor func(*http.Request) commands.Actor
}

func (h *Handlers) HandleBoard(w http.ResponseWriter, r *http.Request, boardID string) {
	if h.Board == nil {
		writeError(w, http.StatusNotImplemented, errors.New("board query not configured"))
		return
	}
	view, err := h.Board.Query(r.Context(), queries.BoardInput{
		BoardID: boardID,
		Editing: r.URL.Query().Get("editing") == "true",
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) HandleControllerView(w http.ResponseWriter, r *http.Request, widgetID string) {
	if h.Controller == nil {
		writeError(w, http.StatusNotImplemented, errors.New("controller query not configured"))
		return
	}
	view, err := h.Controller.Query(r.Context(), queries.ControllerViewInput{WidgetID: widgetID})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSubmit applies a {"value": ...} form submission. A value the facade
// cannot accept is reported with committed=false, not as an error.
func (h *Handlers) HandleSubmit(w http.ResponseWriter, r *http.Request, widgetID string) {
	var payload dashboard.FormSubmission
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var result commands.SubmitControllerValueResult
	input := commands.SubmitControllerValueInput{
		Actor:    h.actor(r),
		WidgetID: widgetID,
		Value:    payload.Value,
		Result:   &result,
	}
	if err := h.API.SubmitController(r.Context(), input); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleMount(w http.ResponseWriter, r *http.Request, widgetID string) {
	if err := h.API.MountController(r.Context(), commands.MountControllerInput{WidgetID: widgetID}); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request, widgetID string) {
	if err := h.API.RefreshWidget(r.Context(), commands.RefreshWidgetInput{WidgetID: widgetID}); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request, widgetID string) {
	var widget dashboard.Widget
	if err := json.NewDecoder(r.Body).Decode(&widget); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	widget.ID = widgetID
	if err := h.API.UpdateWidget(r.Context(), commands.UpdateWidgetInput{Actor: h.actor(r), Widget: widget}); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRemove(w http.ResponseWriter, r *http.Request, widgetID string) {
	if err := h.API.RemoveWidget(r.Context(), commands.RemoveWidgetInput{Actor: h.actor(r), WidgetID: widgetID}); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) actor(r *http.Request) commands.Actor {
	if h.Actor == nil {
		return commands.Actor{}
	}
	return h.Actor(r)
}

// StatusFor maps dashboard errors to HTTP status codes.
func StatusFor(err error) int {
	return statusFor(err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrWidgetNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrNotController), errors.Is(err, dashboard.ErrMissingControllerDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errCommandMissing):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

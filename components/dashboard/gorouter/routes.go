package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/httpapi"
)

// ActorResolver extracts the caller identity from a router.Context.
type ActorResolver func(router.Context) commands.Actor

// Config wires go-router with board controllers, APIs, and hooks.
type Config[T any] struct {
	Router        router.Router[T]
	Controller    *dashboard.Controller
	API           httpapi.Executor
	Broadcast     *dashboard.BroadcastHook
	ActorResolver ActorResolver
	BasePath      string
	Routes        RouteConfig
}

// RouteConfig customizes the relative paths used for board endpoints.
type RouteConfig struct {
	HTML      string
	Payload   string
	Submit    string
	Mount     string
	Refresh   string
	WidgetID  string
	WebSocket string
}

// Register mounts board routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/boards"
	}
	resolver := cfg.ActorResolver
	if resolver == nil {
		resolver = defaultActorResolver
	}

	group := cfg.Router.Group(base)

	// widget and socket routes go first so "/:board" does not shadow them
	if cfg.API != nil {
		registerAPI(group, cfg.API, resolver, routes)
	}
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	group.Get(routes.Payload, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.Payload(ctx.Context(), ctx.Param("board"), editing(ctx))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, payload)
	})).SetName("boards.payload")

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), ctx.Param("board"), editing(ctx), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	})).SetName("boards.html")

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ActorResolver, routes RouteConfig) {
	r.Post(routes.Submit, router.WrapHandler(func(ctx router.Context) error {
		var payload dashboard.FormSubmission
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var result commands.SubmitControllerValueResult
		err := api.SubmitController(ctx.Context(), commands.SubmitControllerValueInput{
			Actor:    resolver(ctx),
			WidgetID: ctx.Param("id"),
			Value:    payload.Value,
			Result:   &result,
		})
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, result)
	})).SetName("boards.widgets.submit")

	r.Post(routes.Mount, router.WrapHandler(func(ctx router.Context) error {
		if err := api.MountController(ctx.Context(), commands.MountControllerInput{WidgetID: ctx.Param("id")}); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "mounted"})
	})).SetName("boards.widgets.mount")

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		if err := api.RefreshWidget(ctx.Context(), commands.RefreshWidgetInput{WidgetID: ctx.Param("id")}); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	})).SetName("boards.widgets.refresh")

	r.Put(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		var widget dashboard.Widget
		if err := json.Unmarshal(ctx.Body(), &widget); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		widget.ID = ctx.Param("id")
		if err := api.UpdateWidget(ctx.Context(), commands.UpdateWidgetInput{Actor: resolver(ctx), Widget: widget}); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	})).SetName("boards.widgets.update")

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		if err := api.RemoveWidget(ctx.Context(), commands.RemoveWidgetInput{Actor: resolver(ctx), WidgetID: id}); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusNoContent, map[string]string{"status": "removed"})
	})).SetName("boards.widgets.remove")
}

// registerWebSocket streams every widget event; clients filter by dashboardId.
func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe("")
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultActorResolver(ctx router.Context) commands.Actor {
	var actor commands.Actor
	if v, ok := ctx.Locals("user_id").(string); ok {
		actor.UserID = v
		actor.ActorID = v
	}
	if v, ok := ctx.Locals("actor_id").(string); ok && v != "" {
		actor.ActorID = v
	}
	if v, ok := ctx.Locals("tenant_id").(string); ok {
		actor.TenantID = v
	}
	return actor
}

func editing(ctx router.Context) bool {
	return ctx.Query("editing") == "true"
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/:board"
	}
	if routes.Payload == "" {
		routes.Payload = "/:board/_payload"
	}
	if routes.Submit == "" {
		routes.Submit = "/widgets/:id/submit"
	}
	if routes.Mount == "" {
		routes.Mount = "/widgets/:id/mount"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/widgets/:id/refresh"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/widgets/:id"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/_ws"
	}
	return routes
}

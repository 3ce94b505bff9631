package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryWidgetStore(t *testing.T) {
	ctx := context.Background()
	other := chartWidget("elsewhere", "sales")
	other.DashboardID = "board-2"
	store := NewInMemoryWidgetStore(chartWidget("b", "sales"), chartWidget("a", "sales"), other)

	widgets, err := store.Widgets(ctx, testBoardID)
	require.NoError(t, err)
	require.Len(t, widgets, 2)
	assert.Equal(t, "b", widgets[0].ID, "insertion order is kept")

	all, err := store.Widgets(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	saved, err := store.SaveWidget(ctx, widgets[1])
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Revision)
	assert.False(t, saved.UpdatedAt.IsZero())

	saved, err = store.SaveWidget(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Revision)

	_, err = store.SaveWidget(ctx, Widget{})
	assert.ErrorIs(t, err, errMissingWidgetID)

	require.NoError(t, store.DeleteWidget(ctx, "a"))
	_, err = store.Widget(ctx, "a")
	assert.ErrorIs(t, err, ErrWidgetNotFound)
	assert.ErrorIs(t, store.DeleteWidget(ctx, "a"), ErrWidgetNotFound)
}

func TestInMemoryWidgetStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryWidgetStore(controllerWidget("ctl", FacadeText, ControllerConfig{ControllerValues: []any{"a"}}))

	w, err := store.Widget(ctx, "ctl")
	require.NoError(t, err)
	mustContent(t, w).Config.ControllerValues[0] = "mutated"

	again, err := store.Widget(ctx, "ctl")
	require.NoError(t, err)
	assert.Equal(t, "a", mustContent(t, again).Config.ControllerValues[0])
}

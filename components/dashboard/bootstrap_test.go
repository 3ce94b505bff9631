package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*InMemoryWidgetStore
	failID string
}

func (s failingStore) SaveWidget(ctx context.Context, w Widget) (Widget, error) {
	if w.ID == s.failID {
		return Widget{}, errors.New("disk full")
	}
	return s.InMemoryWidgetStore.SaveWidget(ctx, w)
}

func TestSeedBoard(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)
	store := NewInMemoryWidgetStore()

	require.NoError(t, SeedBoard(context.Background(), store, doc))
	widgets, err := store.Widgets(context.Background(), "sales-board")
	require.NoError(t, err)
	assert.Len(t, widgets, 2)
}

func TestSeedBoardCollectsErrors(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)
	store := failingStore{InMemoryWidgetStore: NewInMemoryWidgetStore(), failID: "region"}

	err = SeedBoard(context.Background(), store, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed widget region")
	_, err = store.Widget(context.Background(), "chart")
	assert.NoError(t, err)

	assert.ErrorIs(t, SeedBoard(context.Background(), nil, doc), errMissingWidgetStore)
}

func TestRegisterManifestViews(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)
	reg := NewRegistry()
	require.NoError(t, RegisterManifestViews(reg, doc))
	assert.Equal(t, []string{"sales"}, reg.Views())
}

package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// BoardInput selects a board and its mode.
type BoardInput struct {
	BoardID string
	Editing bool
}

type boardService interface {
	Payload(ctx context.Context, boardID string, editing bool) (dashboard.BoardView, error)
}

// BoardQuery builds the view model of a whole board.
type BoardQuery struct {
	service boardService
}

// NewBoardQuery builds the query.
func NewBoardQuery(service boardService) *BoardQuery {
	return &BoardQuery{service: service}
}

var _ gocommand.Querier[BoardInput, dashboard.BoardView] = (*BoardQuery)(nil)

// Query resolves the board payload.
func (q *BoardQuery) Query(ctx context.Context, input BoardInput) (dashboard.BoardView, error) {
	return q.service.Payload(ctx, input.BoardID, input.Editing)
}

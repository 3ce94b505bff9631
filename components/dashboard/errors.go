package dashboard

import "errors"

var (
	// ErrMalformedSubmission marks a form payload whose shape does not match the facade.
	ErrMalformedSubmission = errors.New("dashboard: malformed controller submission")
	// ErrNotController is returned when controller-only operations target another widget kind.
	ErrNotController = errors.New("dashboard: widget is not a controller")
	// ErrMissingControllerDate is returned when a date facade has no controllerDate.
	ErrMissingControllerDate = errors.New("dashboard: date facade requires controllerDate")
	// ErrWidgetNotFound is returned by stores when a widget id is unknown.
	ErrWidgetNotFound = errors.New("dashboard: widget not found")
	// ErrStaleRefresh is returned when a refresh result was superseded by a newer request.
	ErrStaleRefresh = errors.New("dashboard: refresh superseded")

	errMissingWidgetStore = errors.New("dashboard: widget store not configured")
	errMissingWidgetID    = errors.New("dashboard: widget id is required")
)

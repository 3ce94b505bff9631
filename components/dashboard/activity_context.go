package dashboard

import "context"

// ActivityContext identifies who committed a controller value. The pipeline
// copies it into filter.apply activity events and commit telemetry.
type ActivityContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

// IsZero reports whether no identifier is set.
func (a ActivityContext) IsZero() bool {
	return a == ActivityContext{}
}

type activityContextKey struct{}

// ContextWithActivity attaches the committing actor to ctx. A zero value
// leaves ctx untouched.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if meta.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, activityContextKey{}, meta)
}

func activityContextFrom(ctx context.Context) ActivityContext {
	if ctx == nil {
		return ActivityContext{}
	}
	meta, _ := ctx.Value(activityContextKey{}).(ActivityContext)
	return meta
}

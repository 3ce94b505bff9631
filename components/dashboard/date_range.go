package dashboard

import (
	"time"

	"github.com/jinzhu/now"
)

// DateTimeLayout is the canonical format of resolved date values.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateRangeResolver turns stored controller dates into concrete values.
type DateRangeResolver struct {
	clock  func() time.Time
	config *now.Config
}

// DateRangeOptions configures a DateRangeResolver.
type DateRangeOptions struct {
	Clock    func() time.Time
	Location *time.Location
	// WeekStartDay defaults to Monday when nil.
	WeekStartDay *time.Weekday
}

// NewDateRangeResolver builds a resolver. Weeks start on Monday unless
// configured otherwise and times resolve in the local zone.
func NewDateRangeResolver(opts DateRangeOptions) *DateRangeResolver {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	weekStart := time.Monday
	if opts.WeekStartDay != nil {
		weekStart = *opts.WeekStartDay
	}
	return &DateRangeResolver{
		clock: opts.Clock,
		config: &now.Config{
			WeekStartDay: weekStart,
			TimeLocation: opts.Location,
		},
	}
}

// Resolve returns one value when date has no end bound and two otherwise.
// Relative bounds resolve to the start (or end) of their unit.
// The option type is accepted for parity with option resolution; date
// resolution does not depend on it.
func (r *DateRangeResolver) Resolve(_ ValueOptionType, date ControllerDate) []string {
	if r == nil {
		r = NewDateRangeResolver(DateRangeOptions{})
	}
	values := []string{r.resolveBound(date.StartTime, true)}
	if date.EndTime != nil {
		values = append(values, r.resolveBound(*date.EndTime, false))
	}
	return values
}

func (r *DateRangeResolver) resolveBound(bound ControllerDateBound, start bool) string {
	if bound.RelativeOrExact != RelativeTime {
		return bound.ExactValue
	}
	rel := bound.RelativeValue
	if rel == nil {
		return bound.ExactValue
	}
	amount := rel.Amount
	if rel.Direction == "-" {
		amount = -amount
	}
	base := r.clock().In(r.config.TimeLocation)
	if rel.Unit == UnitMonth || rel.Unit == UnitQuarter || rel.Unit == UnitYear {
		// month arithmetic from the 1st never overflows into the next month
		base = r.config.With(base).BeginningOfMonth()
	}
	var shifted time.Time
	switch rel.Unit {
	case UnitWeek:
		shifted = base.AddDate(0, 0, 7*amount)
	case UnitMonth:
		shifted = base.AddDate(0, amount, 0)
	case UnitQuarter:
		shifted = base.AddDate(0, 3*amount, 0)
	case UnitYear:
		shifted = base.AddDate(amount, 0, 0)
	default:
		shifted = base.AddDate(0, 0, amount)
	}
	return r.boundary(shifted, rel.Unit, start).Format(DateTimeLayout)
}

func (r *DateRangeResolver) boundary(t time.Time, unit DateUnit, start bool) time.Time {
	n := r.config.With(t)
	switch unit {
	case UnitWeek:
		if start {
			return n.BeginningOfWeek()
		}
		return n.EndOfWeek()
	case UnitMonth:
		if start {
			return n.BeginningOfMonth()
		}
		return n.EndOfMonth()
	case UnitQuarter:
		if start {
			return n.BeginningOfQuarter()
		}
		return n.EndOfQuarter()
	case UnitYear:
		if start {
			return n.BeginningOfYear()
		}
		return n.EndOfYear()
	default:
		if start {
			return n.BeginningOfDay()
		}
		return n.EndOfDay()
	}
}

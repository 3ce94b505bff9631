package dashboard

// PickerType tells the date input which granularity to offer.
type PickerType string

const (
	PickerDate     PickerType = "date"
	PickerDateTime PickerType = "dateTime"
	PickerWeek     PickerType = "week"
	PickerMonth    PickerType = "month"
	PickerQuarter  PickerType = "quarter"
	PickerYear     PickerType = "year"
)

// RelativeOrExactTime marks how a date bound is stored.
type RelativeOrExactTime string

const (
	RelativeTime RelativeOrExactTime = "relative"
	ExactTime    RelativeOrExactTime = "exact"
)

// DateUnit is the unit of a relative date expression.
type DateUnit string

const (
	UnitDay     DateUnit = "d"
	UnitWeek    DateUnit = "w"
	UnitMonth   DateUnit = "M"
	UnitQuarter DateUnit = "Q"
	UnitYear    DateUnit = "y"
)

// RelativeDate describes "amount units before/after now", e.g. 7 days before.
type RelativeDate struct {
	Amount    int      `json:"amount"`
	Unit      DateUnit `json:"unit"`
	Direction string   `json:"direction"`
}

// ControllerDateBound is one side of a date range.
type ControllerDateBound struct {
	RelativeOrExact RelativeOrExactTime `json:"relativeOrExact"`
	ExactValue      string              `json:"exactValue,omitempty"`
	RelativeValue   *RelativeDate       `json:"relativeValue,omitempty"`
}

// ControllerDate holds date-range state of a time/rangeTime controller.
// For single-time facades only StartTime is meaningful.
type ControllerDate struct {
	PickerType PickerType           `json:"pickerType"`
	StartTime  ControllerDateBound  `json:"startTime"`
	EndTime    *ControllerDateBound `json:"endTime,omitempty"`
}

// ExactBound builds a bound that carries a literal value.
func ExactBound(value string) ControllerDateBound {
	return ControllerDateBound{RelativeOrExact: ExactTime, ExactValue: value}
}

// Clone returns a deep copy of the bound.
func (b ControllerDateBound) Clone() ControllerDateBound {
	if b.RelativeValue != nil {
		rel := *b.RelativeValue
		b.RelativeValue = &rel
	}
	return b
}

// Clone returns a deep copy of the date state.
func (d ControllerDate) Clone() ControllerDate {
	next := d
	next.StartTime = d.StartTime.Clone()
	if d.EndTime != nil {
		end := d.EndTime.Clone()
		next.EndTime = &end
	}
	return next
}

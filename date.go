package options

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateKind discriminates how a date cell stores its payload: an explicit
// timestamp, or the start/end boundary of a relative period resolved against
// the clock at read time.
type DateKind int

const (
	DateAbsolute DateKind = iota
	DateStarting
	DateEnding
)

func (k DateKind) String() string {
	switch k {
	case DateAbsolute:
		return "absolute"
	case DateStarting:
		return "starting"
	case DateEnding:
		return "ending"
	}
	return fmt.Sprintf("DateKind(%d)", int(k))
}

// RelativeDatePeriod names a calendar period evaluated against "now".
type RelativeDatePeriod int

const (
	PeriodToday RelativeDatePeriod = iota
	PeriodThisMonth
	PeriodPrevMonth
	PeriodCurrentQuarter
	PeriodPrevQuarter
	PeriodCalYear
	PeriodPrevYear
	PeriodAccountingPeriod
)

var periodNames = map[RelativeDatePeriod]string{
	PeriodToday:            "today",
	PeriodThisMonth:        "this-month",
	PeriodPrevMonth:        "prev-month",
	PeriodCurrentQuarter:   "current-quarter",
	PeriodPrevQuarter:      "prev-quarter",
	PeriodCalYear:          "cal-year",
	PeriodPrevYear:         "prev-year",
	PeriodAccountingPeriod: "accounting-period",
}

func (p RelativeDatePeriod) String() string {
	if name, ok := periodNames[p]; ok {
		return name
	}
	return fmt.Sprintf("RelativeDatePeriod(%d)", int(p))
}

// ParseRelativeDatePeriod resolves a persisted period name.
func ParseRelativeDatePeriod(name string) (RelativeDatePeriod, error) {
	for period, periodName := range periodNames {
		if periodName == name {
			return period, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown relative date period %q", ErrInvalidArgument, name)
}

// Clock supplies "now" for relative period resolution. Injectable so period
// boundaries are deterministic under test.
type Clock func() time.Time

// DateValue stores either an absolute timestamp or a relative period whose
// boundary is computed at read time. Two reads separated by real time may
// differ when the stored value is relative.
type DateValue struct {
	Classifier
	UIItem
	kind      DateKind
	period    RelativeDatePeriod
	date      time.Time
	clock     Clock
	acctMonth time.Month
	acctDay   int
	changed   bool
}

// DateOption configures a date cell at construction.
type DateOption func(*DateValue)

// DateWithClock injects the time source used to resolve relative periods.
func DateWithClock(clock Clock) DateOption {
	return func(d *DateValue) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// DateWithUIKind overrides the default UIDate presentation kind, e.g. for a
// date-format selector.
func DateWithUIKind(kind UIKind) DateOption {
	return func(d *DateValue) {
		d.UIItem.kind = kind
	}
}

// DateWithAccountingYearStart sets the month and day the accounting period
// begins on. Defaults to January 1.
func DateWithAccountingYearStart(month time.Month, day int) DateOption {
	return func(d *DateValue) {
		d.acctMonth = month
		d.acctDay = day
	}
}

// NewDate constructs a date cell holding "now" as an absolute value.
func NewDate(section, name, sortTag, doc string, opts ...DateOption) *DateValue {
	cell := &DateValue{
		Classifier: Classifier{Section: section, Name: name, SortTag: sortTag, Doc: doc},
		UIItem:     UIItem{kind: UIDate},
		kind:       DateAbsolute,
		period:     PeriodToday,
		clock:      time.Now,
		acctMonth:  time.January,
		acctDay:    1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cell)
		}
	}
	cell.date = cell.clock()
	return cell
}

// Kind returns the current discriminant.
func (d *DateValue) Kind() DateKind { return d.kind }

// Period returns the relative period; meaningful only when Kind is not
// DateAbsolute.
func (d *DateValue) Period() RelativeDatePeriod { return d.period }

// GetValue resolves the cell to a concrete timestamp: the stored one for
// absolute mode, the period boundary evaluated against the clock otherwise.
func (d *DateValue) GetValue() time.Time {
	switch d.kind {
	case DateStarting:
		return d.periodStart(d.period, d.clock())
	case DateEnding:
		return d.periodEnd(d.period, d.clock())
	default:
		return d.date
	}
}

// GetDefaultValue returns "now" from the injected clock.
func (d *DateValue) GetDefaultValue() time.Time {
	return d.clock()
}

// Set assigns mode and payload atomically. For DateAbsolute the payload is a
// Unix timestamp in seconds; for the relative modes it is a
// RelativeDatePeriod value.
func (d *DateValue) Set(kind DateKind, payload int64) error {
	switch kind {
	case DateAbsolute:
		d.kind = DateAbsolute
		d.period = PeriodToday
		d.date = time.Unix(payload, 0)
		d.changed = true
		return nil
	case DateStarting, DateEnding:
		period := RelativeDatePeriod(payload)
		if _, ok := periodNames[period]; !ok {
			return rejectValue(d.Classifier, fmt.Sprintf("unknown relative date period %d", payload))
		}
		d.kind = kind
		d.period = period
		d.changed = true
		return nil
	default:
		return rejectValue(d.Classifier, fmt.Sprintf("unknown date kind %d", kind))
	}
}

// SetValue is the absolute-mode convenience: it always switches the
// discriminant to DateAbsolute.
func (d *DateValue) SetValue(value time.Time) error {
	d.kind = DateAbsolute
	d.period = PeriodToday
	d.date = value
	d.changed = true
	return nil
}

// Validate accepts any timestamp; the date cell has no rejection rule for
// absolute values.
func (d *DateValue) Validate(time.Time) bool { return true }

func (d *DateValue) periodStart(period RelativeDatePeriod, now time.Time) time.Time {
	year, month, day := now.Date()
	loc := now.Location()
	switch period {
	case PeriodToday:
		return time.Date(year, month, day, 0, 0, 0, 0, loc)
	case PeriodThisMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, loc)
	case PeriodPrevMonth:
		return time.Date(year, month-1, 1, 0, 0, 0, 0, loc)
	case PeriodCurrentQuarter:
		return time.Date(year, quarterStartMonth(month), 1, 0, 0, 0, 0, loc)
	case PeriodPrevQuarter:
		return time.Date(year, quarterStartMonth(month)-3, 1, 0, 0, 0, 0, loc)
	case PeriodCalYear:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	case PeriodPrevYear:
		return time.Date(year-1, time.January, 1, 0, 0, 0, 0, loc)
	case PeriodAccountingPeriod:
		start := time.Date(year, d.acctMonth, d.acctDay, 0, 0, 0, 0, loc)
		if start.After(now) {
			start = time.Date(year-1, d.acctMonth, d.acctDay, 0, 0, 0, 0, loc)
		}
		return start
	}
	return now
}

func (d *DateValue) periodEnd(period RelativeDatePeriod, now time.Time) time.Time {
	year, month, day := now.Date()
	loc := now.Location()
	switch period {
	case PeriodToday:
		return time.Date(year, month, day+1, 0, 0, 0, 0, loc).Add(-time.Second)
	case PeriodThisMonth:
		return time.Date(year, month+1, 1, 0, 0, 0, 0, loc).Add(-time.Second)
	case PeriodPrevMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, loc).Add(-time.Second)
	case PeriodCurrentQuarter:
		return time.Date(year, quarterStartMonth(month)+3, 1, 0, 0, 0, 0, loc).Add(-time.Second)
	case PeriodPrevQuarter:
		return time.Date(year, quarterStartMonth(month), 1, 0, 0, 0, 0, loc).Add(-time.Second)
	case PeriodCalYear:
		return time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc).Add(-time.Second)
	case PeriodPrevYear:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Add(-time.Second)
	case PeriodAccountingPeriod:
		start := d.periodStart(period, now)
		return start.AddDate(1, 0, 0).Add(-time.Second)
	}
	return now
}

// Time.Date normalizes out-of-range months, so callers above may pass
// month-1 or month+3 freely.
func quarterStartMonth(month time.Month) time.Month {
	return time.Month((int(month)-1)/3*3 + 1)
}

func (d *DateValue) classifier() *Classifier { return &d.Classifier }
func (d *DateValue) uiItem() *UIItem         { return &d.UIItem }
func (d *DateValue) valueAny() any           { return d.GetValue() }
func (d *DateValue) defaultAny() any         { return d.GetDefaultValue() }

func (d *DateValue) trySet(raw any) (bool, error) {
	value, ok := raw.(time.Time)
	if !ok {
		return false, nil
	}
	return true, d.SetValue(value)
}

func (d *DateValue) resetToDefault() {
	d.kind = DateAbsolute
	d.period = PeriodToday
	d.date = d.clock()
	d.changed = false
}

func (d *DateValue) isChanged() bool { return d.changed }

func (d *DateValue) storageType() StorageType { return StorageDate }

type datePayload struct {
	Kind   string `json:"kind"`
	Time   string `json:"time,omitempty"`
	Period string `json:"period,omitempty"`
}

// Relative dates are persisted by period name so the stored form survives
// enum reordering.
func (d *DateValue) encodeValue() ([]byte, error) {
	payload := datePayload{Kind: d.kind.String()}
	if d.kind == DateAbsolute {
		payload.Time = d.date.UTC().Format(time.RFC3339Nano)
	} else {
		payload.Period = d.period.String()
	}
	return json.Marshal(payload)
}

func (d *DateValue) decodeValue(data []byte) error {
	var payload datePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return rejectValue(d.Classifier, err.Error())
	}
	switch payload.Kind {
	case DateAbsolute.String():
		when, err := time.Parse(time.RFC3339Nano, payload.Time)
		if err != nil {
			return rejectValue(d.Classifier, err.Error())
		}
		return d.SetValue(when)
	case DateStarting.String(), DateEnding.String():
		period, err := ParseRelativeDatePeriod(payload.Period)
		if err != nil {
			return rejectValue(d.Classifier, err.Error())
		}
		kind := DateStarting
		if payload.Kind == DateEnding.String() {
			kind = DateEnding
		}
		return d.Set(kind, int64(period))
	default:
		return rejectValue(d.Classifier, fmt.Sprintf("unknown date kind %q", payload.Kind))
	}
}

package options

import "fmt"

// UIKind identifies the control family a dialog should render for an option.
// Internal options are never shown and must not carry a UI handle.
type UIKind int

const (
	UIInternal UIKind = iota
	UIBoolean
	UIString
	UIText
	UICurrency
	UICommodity
	UIMultichoice
	UIDate
	UIAccountList
	UIAccountSel
	UIList
	UINumberRange
	UIColor
	UIFont
	UIBudget
	UIPixmap
	UIRadioButton
	UIDateFormat
	UIOwner
	UICustomer
	UIVendor
	UIEmployee
	UIInvoice
	UITaxTable
	UIQuery
)

var uiKindNames = map[UIKind]string{
	UIInternal:    "internal",
	UIBoolean:     "boolean",
	UIString:      "string",
	UIText:        "text",
	UICurrency:    "currency",
	UICommodity:   "commodity",
	UIMultichoice: "multichoice",
	UIDate:        "date",
	UIAccountList: "account-list",
	UIAccountSel:  "account-sel",
	UIList:        "list",
	UINumberRange: "number-range",
	UIColor:       "color",
	UIFont:        "font",
	UIBudget:      "budget",
	UIPixmap:      "pixmap",
	UIRadioButton: "radiobutton",
	UIDateFormat:  "date-format",
	UIOwner:       "owner",
	UICustomer:    "customer",
	UIVendor:      "vendor",
	UIEmployee:    "employee",
	UIInvoice:     "invoice",
	UITaxTable:    "tax-table",
	UIQuery:       "query",
}

func (k UIKind) String() string {
	if name, ok := uiKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UIKind(%d)", int(k))
}

// ParseUIKind resolves a declared presentation kind name.
func ParseUIKind(name string) (UIKind, error) {
	for kind, kindName := range uiKindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return UIInternal, fmt.Errorf("%w: unknown UI kind %q", ErrInvalidArgument, name)
}

// Classifier is the identity shared by every option: the (Section, Name) pair
// addresses the option inside a Set, SortTag orders it within its section, and
// Doc carries the tooltip text. It never changes after construction.
type Classifier struct {
	Section string
	Name    string
	SortTag string
	Doc     string
}

// UIHandle is a non-owning reference to an externally owned control. The
// engine never dereferences, mutates, or destroys it; the UI layer is
// contractually required to call ClearUIHandle before tearing the control
// down.
type UIHandle any

// UIItem associates an option with an optional UI control and a presentation
// kind. Embedded by every cell kind.
type UIItem struct {
	kind   UIKind
	handle UIHandle
}

// UIKind returns the current presentation kind.
func (u *UIItem) UIKind() UIKind {
	return u.kind
}

// UIHandle returns the attached control, or nil when none is attached.
func (u *UIItem) UIHandle() UIHandle {
	return u.handle
}

// ClearUIHandle detaches the control. Idempotent; intended as the destruction
// callback for the externally owned widget.
func (u *UIItem) ClearUIHandle() {
	u.handle = nil
}

// SetUIHandle attaches a control. Internal options cannot carry one.
func (u *UIItem) SetUIHandle(handle UIHandle) error {
	if u.kind == UIInternal {
		return fmt.Errorf("%w: internal option cannot carry a UI handle", ErrInvalidOperation)
	}
	u.handle = handle
	return nil
}

// MakeInternal hides the option from the UI. It fails while a control is
// still attached, since the control's owner would be left pointing at an
// invisible option.
func (u *UIItem) MakeInternal() error {
	if u.handle != nil {
		return fmt.Errorf("%w: option has a UI handle, cannot be made internal", ErrInvalidOperation)
	}
	u.kind = UIInternal
	return nil
}

package options

import (
	"testing"

	"github.com/google/uuid"
)

func TestValueRoundTrip(t *testing.T) {
	cell := NewValue("General", "Report Title", "a", "The report's heading", "Invoice")
	option := Wrap(cell)

	if got := GetValue[string](option); got != "Invoice" {
		t.Fatalf("expected initial value %q, got %q", "Invoice", got)
	}
	if got := GetDefaultValue[string](option); got != "Invoice" {
		t.Fatalf("expected default %q, got %q", "Invoice", got)
	}
	if err := SetValue(option, "Statement"); err != nil {
		t.Fatalf("unexpected error from SetValue: %v", err)
	}
	if got := GetValue[string](option); got != "Statement" {
		t.Fatalf("expected %q after SetValue, got %q", "Statement", got)
	}
	if !option.IsChanged() {
		t.Fatalf("expected option to report changed")
	}
	option.ResetToDefault()
	if got := GetValue[string](option); got != "Invoice" {
		t.Fatalf("expected default restored, got %q", got)
	}
	if option.IsChanged() {
		t.Fatalf("expected option to report unchanged after reset")
	}
}

func TestValueSupportsEveryShape(t *testing.T) {
	entity := EntityRef{Kind: "account", ID: uuid.New()}
	query := QueryRef{ID: uuid.New(), Body: "(txn)"}
	guids := []uuid.UUID{uuid.New(), uuid.New()}

	boolOpt := Wrap(NewValue("General", "Show Totals", "a", "", true))
	intOpt := Wrap(NewValue[int64]("General", "Max Rows", "b", "", 30))
	entityOpt := Wrap(NewValue("Accounts", "Default Account", "c", "", entity))
	queryOpt := Wrap(NewValue("Accounts", "Filter", "d", "", query))
	listOpt := Wrap(NewValue("Accounts", "Selected", "e", "", guids))

	if got := GetValue[bool](boolOpt); !got {
		t.Fatalf("expected true")
	}
	if got := GetValue[int64](intOpt); got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
	if got := GetValue[EntityRef](entityOpt); got != entity {
		t.Fatalf("expected %v, got %v", entity, got)
	}
	if got := GetValue[QueryRef](queryOpt); got != query {
		t.Fatalf("expected %v, got %v", query, got)
	}
	got := GetValue[[]uuid.UUID](listOpt)
	if len(got) != len(guids) || got[0] != guids[0] || got[1] != guids[1] {
		t.Fatalf("expected %v, got %v", guids, got)
	}
}

func TestValueValidateAlwaysAccepts(t *testing.T) {
	cell := NewValue[int64]("General", "Max Rows", "a", "", 30)
	if !cell.Validate(-1) {
		t.Fatalf("plain cell must accept any value of its type")
	}
}

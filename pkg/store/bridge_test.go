package store

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	options "github.com/goliatone/go-appoptions"
	"github.com/goliatone/go-appoptions/pkg/activity"
)

func reportOptionsSet(t *testing.T) *options.Set {
	t.Helper()
	set := options.NewSet()

	style, err := options.NewMultichoice("Display", "Style", "a", "", []options.Choice{
		{Key: "plain", Name: "Plain"},
		{Key: "fancy", Name: "Fancy"},
	})
	if err != nil {
		t.Fatalf("multichoice: %v", err)
	}

	entries := []*options.Option{
		options.Wrap(options.NewValue("General", "Report Title", "a", "", "Invoice")),
		options.Wrap(options.NewValue[int64]("Display", "Plot Width", "b", "", 5)),
		options.Wrap(style),
	}
	for _, option := range entries {
		if err := set.Register(option); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return set
}

func TestSaveSetWritesOnlyChangedOptions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	set := reportOptionsSet(t)

	title := set.Lookup("General", "Report Title")
	if err := options.SetValue(title, "Statement"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if err := SaveSet(ctx, s, set); err != nil {
		t.Fatalf("save set: %v", err)
	}

	refs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(refs) != 1 || refs[0] != (Ref{Section: "General", Name: "Report Title"}) {
		t.Fatalf("expected only the changed option persisted, got %v", refs)
	}
}

func TestSaveSetRemovesStaleRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	set := reportOptionsSet(t)

	title := set.Lookup("General", "Report Title")
	if err := options.SetValue(title, "Statement"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if err := SaveSet(ctx, s, set); err != nil {
		t.Fatalf("save set: %v", err)
	}

	// After a reset the persisted record is stale and must be removed.
	set.ResetAll()
	if err := SaveSet(ctx, s, set); err != nil {
		t.Fatalf("save set: %v", err)
	}
	refs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected stale records removed, got %v", refs)
	}
}

func TestRestoreSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	set := reportOptionsSet(t)

	if err := options.SetValue(set.Lookup("General", "Report Title"), "Statement"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if err := options.SetValue[int64](set.Lookup("Display", "Plot Width"), 9); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if err := options.SetValue(set.Lookup("Display", "Style"), "fancy"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if err := SaveSet(ctx, s, set); err != nil {
		t.Fatalf("save set: %v", err)
	}

	fresh := reportOptionsSet(t)
	if err := RestoreSet(ctx, s, fresh); err != nil {
		t.Fatalf("restore set: %v", err)
	}
	if got := options.GetValue[string](fresh.Lookup("General", "Report Title")); got != "Statement" {
		t.Fatalf("expected restored title, got %q", got)
	}
	if got := options.GetValue[int64](fresh.Lookup("Display", "Plot Width")); got != 9 {
		t.Fatalf("expected restored width, got %d", got)
	}
	if got := options.GetValue[string](fresh.Lookup("Display", "Style")); got != "fancy" {
		t.Fatalf("expected restored style, got %q", got)
	}
}

func TestRestoreSetAnnouncesRestore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	source := reportOptionsSet(t)
	if err := options.SetValue(source.Lookup("General", "Report Title"), "Statement"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if err := SaveSet(ctx, s, source); err != nil {
		t.Fatalf("save set: %v", err)
	}

	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})
	target := options.NewSet(options.WithEmitter(emitter))
	if err := target.Register(options.Wrap(options.NewValue("General", "Report Title", "a", "", "Invoice"))); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := RestoreSet(ctx, s, target); err != nil {
		t.Fatalf("restore set: %v", err)
	}

	if len(capture.Events) == 0 {
		t.Fatalf("expected activity events from the restore")
	}
	last := capture.Events[len(capture.Events)-1]
	if last.Verb != "set.restored" {
		t.Fatalf("expected set.restored after the per-option events, got %q", last.Verb)
	}
}

func TestRestoreSetSkipsUnknownRefs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	set := reportOptionsSet(t)

	// A book can carry values for reports that are not loaded.
	unknown := Ref{Section: "Other Report", Name: "Something"}
	if err := s.Save(ctx, unknown, Record{Type: options.StorageString, Value: json.RawMessage(`"x"`)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := RestoreSet(ctx, s, set); err != nil {
		t.Fatalf("unknown refs must be skipped silently, got %v", err)
	}
}

func TestRestoreSetRejectsMismatchedTag(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	set := reportOptionsSet(t)

	ref := Ref{Section: "General", Name: "Report Title"}
	if err := s.Save(ctx, ref, Record{Type: options.StorageBool, Value: json.RawMessage(`true`)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	err := RestoreSet(ctx, s, set)
	if err == nil {
		t.Fatalf("expected an error for the mismatched record")
	}
	if got := options.GetValue[string](set.Lookup("General", "Report Title")); got != "Invoice" {
		t.Fatalf("rejected restore must keep the current value, got %q", got)
	}
}

func TestRestoreSetRejectsUnknownChoiceKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	set := reportOptionsSet(t)

	ref := Ref{Section: "Display", Name: "Style"}
	if err := s.Save(ctx, ref, Record{Type: options.StorageChoice, Value: json.RawMessage(`"retired"`)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := RestoreSet(ctx, s, set); err == nil {
		t.Fatalf("expected an error for the retired choice key")
	}
	if got := options.GetValue[string](set.Lookup("Display", "Style")); got != "plain" {
		t.Fatalf("rejected restore must keep the current selection, got %q", got)
	}
}

func TestMultichoicePersistsByKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	set := reportOptionsSet(t)

	if err := options.SetValue(set.Lookup("Display", "Style"), "fancy"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if err := SaveSet(ctx, s, set); err != nil {
		t.Fatalf("save set: %v", err)
	}

	record, ok, err := s.Load(ctx, Ref{Section: "Display", Name: "Style"})
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(string(record.Value), `"fancy"`) {
		t.Fatalf("selections must persist by key, got %s", record.Value)
	}
}

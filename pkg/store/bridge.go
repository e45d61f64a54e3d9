package store

import (
	"context"
	"errors"
	"fmt"

	options "github.com/goliatone/go-appoptions"
)

// SaveSet persists every option of set that differs from its default and
// removes stale records for options back at their default, mirroring the
// book-options convention of only writing what the user changed.
func SaveSet(ctx context.Context, s Store, set *options.Set) error {
	if s == nil || set == nil {
		return fmt.Errorf("store: both a store and a set are required")
	}

	var errs []error
	set.ForEach(func(option *options.Option) {
		ref := Ref{Section: option.Section(), Name: option.Name()}
		if !option.IsChanged() {
			if err := s.Delete(ctx, ref); err != nil {
				errs = append(errs, err)
			}
			return
		}
		value, err := option.MarshalValue()
		if err != nil {
			errs = append(errs, fmt.Errorf("store: encode %s/%s: %w", ref.Section, ref.Name, err))
			return
		}
		record := Record{Type: option.StorageType(), Value: value}
		if err := s.Save(ctx, ref, record); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// RestoreSet loads persisted values back into the matching options of set.
// Records without a registered option are skipped: a book may carry values
// for reports that are not loaded. A record whose type tag does not match its
// option, or whose payload fails the option's validation, is reported and the
// option keeps its current value; restoration continues past it.
func RestoreSet(ctx context.Context, s Store, set *options.Set) error {
	if s == nil || set == nil {
		return fmt.Errorf("store: both a store and a set are required")
	}

	refs, err := s.List(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, ref := range refs {
		option := set.Lookup(ref.Section, ref.Name)
		if option == nil {
			continue
		}
		record, ok, err := s.Load(ctx, ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		if err := option.UnmarshalValue(record.Type, record.Value); err != nil {
			errs = append(errs, fmt.Errorf("store: restore %s/%s: %w", ref.Section, ref.Name, err))
		}
	}
	if err := set.AnnounceRestored(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Package history keeps a record of station snapshots.
package history

import (
	"context"
	"errors"

	"gitlab.com/lologarithm/rangewatch/station"
)

// Recorder stores snapshots somewhere.
type Recorder interface {
	Record(ctx context.Context, s station.Snapshot) error
	Close() error
}

// Multi records to every recorder in it.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, s station.Snapshot) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

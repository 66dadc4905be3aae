package collection

import (
	"context"
	"log/slog"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/errors"
)

// MirrorOption customizes Mirror
type MirrorOption func(*mirrorOptions)

type mirrorOptions struct {
	onSnapshot func(path string)
}

// WithSnapshotHook calls fn after each snapshot has been applied
func WithSnapshotHook(fn func(path string)) MirrorOption {
	return func(o *mirrorOptions) {
		o.onSnapshot = fn
	}
}

// Mirror keeps dst equal to the children of path in src. Every delivered
// snapshot replaces dst wholesale. Snapshots that fail to decode are logged
// and skipped. The subscription ends when ctx is done.
func Mirror[T any](ctx context.Context, src docstore.Store, path string, dst *Store[T], opts ...MirrorOption) error {
	if src == nil {
		return errors.InvalidArgument("source store is required")
	}
	if dst == nil {
		return errors.InvalidArgument("destination collection is required")
	}

	var o mirrorOptions
	for _, opt := range opts {
		opt(&o)
	}

	sub, err := src.Subscribe(ctx, path, func(snap docstore.Snapshot) {
		values := make(map[string]T)
		if err := snap.Decode(&values); err != nil {
			slog.Warn("Skipping undecodable snapshot", "path", path, "error", err)
			return
		}
		dst.ReplaceAll(values)
		if o.onSnapshot != nil {
			o.onSnapshot(path)
		}
	})
	if err != nil {
		return errors.Wrapf(err, "failed to mirror %s", path)
	}

	go func() {
		<-ctx.Done()
		sub.Cancel()
	}()

	return nil
}

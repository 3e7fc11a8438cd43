// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists extracted records to tabular destinations: a CSV
// file, a Google Sheets worksheet, or several at once. Every sink numbers the
// rows of an appended batch from 1 (the S.No column) and owns its header.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/material-logger/pkg/types"
)

// RecordSink appends one batch of records to a destination. An empty batch
// is valid; sinks with a header still make sure it is present.
type RecordSink interface {
	Append(ctx context.Context, batch types.Batch) error
}

// Named is implemented by sinks that can describe themselves in status lines.
type Named interface {
	Name() string
}

// NameOf returns s's name, or its type when it has none.
func NameOf(s RecordSink) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// Multi fans a batch out to several sinks. Every sink is tried; failures are
// joined.
type Multi []RecordSink

func (m Multi) Name() string { return "multi" }

func (m Multi) Append(ctx context.Context, batch types.Batch) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, batch); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", NameOf(s), err))
		}
	}
	return errors.Join(errs...)
}

// Discard accepts every batch and stores nothing.
var Discard RecordSink = discard{}

type discard struct{}

func (discard) Name() string                              { return "discard" }
func (discard) Append(context.Context, types.Batch) error { return nil }

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pdiddy/material-logger/pkg/types"
)

// CSV appends rows to a local CSV file, writing the header when the file is
// new or empty.
type CSV struct {
	path string
	mu   sync.Mutex
}

// NewCSV returns a sink for path. The file is created on first Append.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

func (c *CSV) Name() string { return "csv:" + c.path }

// Append writes batch rows after any existing content.
func (c *CSV) Append(ctx context.Context, batch types.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating CSV directory: %w", err)
		}
	}

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening CSV: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat CSV: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(types.SheetHeader); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}
	for _, r := range batch.Rows() {
		if err := w.Write([]string{strconv.Itoa(r.Seq), r.Material, r.Quantity}); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return f.Close()
}

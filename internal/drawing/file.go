package drawing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const fileExt = ".drawing.json"

// FileStore keeps one JSON document per drawing in a directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
	log *slog.Logger
	now func() time.Time
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		dir: dir,
		log: logger,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Dir returns the directory holding the documents.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) Create(ctx context.Context, in Input) (Drawing, error) {
	if err := in.Validate(); err != nil {
		return Drawing{}, err
	}
	if err := ctx.Err(); err != nil {
		return Drawing{}, err
	}

	d := newRecord(in, f.now())
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return Drawing{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Write to a temp file first so a partial document is never listed.
	path := filepath.Join(f.dir, d.ID+fileExt)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Drawing{}, fmt.Errorf("write drawing: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return Drawing{}, fmt.Errorf("write drawing: %w", err)
	}
	return d, nil
}

func (f *FileStore) List(ctx context.Context) ([]Drawing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read store directory: %w", err)
	}

	drawings := make([]Drawing, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		path := filepath.Join(f.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read drawing: %w", err)
		}
		var d Drawing
		if err := json.Unmarshal(data, &d); err != nil {
			f.log.Warn("skipping unreadable drawing", "path", path, "err", err)
			continue
		}
		drawings = append(drawings, d)
	}

	sort.SliceStable(drawings, func(i, j int) bool {
		if drawings[i].CreatedAt.Equal(drawings[j].CreatedAt) {
			return drawings[i].ID < drawings[j].ID
		}
		return drawings[i].CreatedAt.Before(drawings[j].CreatedAt)
	})
	return drawings, nil
}

func (f *FileStore) Close(context.Context) error { return nil }

package rejections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNotFound is returned by Find when no record has the requested id.
var ErrNotFound = errors.New("rejections: enquiry not found")

// files returns the daily files, newest day first.
func (s *Store) files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "failed_*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("list failed enquiries: %w", err)
	}
	slices.Sort(files)
	slices.Reverse(files)
	return files, nil
}

// readFile decodes the records of one daily file in write order.
// Malformed lines are skipped.
func readFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// List returns up to limit records, newest first, after skipping offset.
// A missing directory yields an empty list.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Record, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	records := []Record{}
	skipped := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := readFile(file)
		if err != nil {
			continue
		}
		for i := len(recs) - 1; i >= 0; i-- {
			if len(records) >= limit {
				return records, nil
			}
			if skipped < offset {
				skipped++
				continue
			}
			records = append(records, recs[i])
		}
	}
	return records, nil
}

// Find returns the most recent record for enquiryID.
func (s *Store) Find(ctx context.Context, enquiryID string) (Record, error) {
	files, err := s.files()
	if err != nil {
		return Record{}, err
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}
		recs, err := readFile(file)
		if err != nil {
			continue
		}
		for i := len(recs) - 1; i >= 0; i-- {
			if recs[i].EnquiryID == enquiryID {
				return recs[i], nil
			}
		}
	}
	return Record{}, fmt.Errorf("%s: %w", enquiryID, ErrNotFound)
}

// Package rejections keeps enquiries that could not be relayed so the
// business can follow up by hand.
package rejections

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dp-catalog/internal/model"
)

// Store appends failed enquiries to one JSONL file per day.
type Store struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Record is one line of the store.
type Record struct {
	EnquiryID string               `json:"enquiry_id"`
	Reason    string               `json:"reason"`
	Enquiry   model.EnquiryPayload `json:"enquiry"`
	Timestamp string               `json:"timestamp"`
}

// WriteFailed implements enquiry.FailedStore.
func (s *Store) WriteFailed(_ context.Context, enquiryID string, p model.EnquiryPayload, cause error) error {
	now := s.now().UTC()
	record := Record{
		EnquiryID: enquiryID,
		Enquiry:   p,
		Timestamp: now.Format(time.RFC3339Nano),
	}
	if cause != nil {
		record.Reason = cause.Error()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	fpath := filepath.Join(s.dir, fmt.Sprintf("failed_%s.jsonl", now.Format("2006-01-02")))
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}

// Package policy keeps the allow/deny status of enquiry senders in Redis.
package policy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Status is the policy recorded for one sender address.
type Status string

const (
	Unknown Status = "unknown"
	Allowed Status = "allowed"
	Denied  Status = "denied"
)

// ParseStatus accepts "allowed" or "denied".
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case Allowed:
		return Allowed, nil
	case Denied:
		return Denied, nil
	}
	return Unknown, errors.New("policy: status must be allowed or denied")
}

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Senders checks and records sender policy, keyed by normalised email.
type Senders struct {
	rdb redisClient
}

func NewSenders(rdb redisClient) *Senders {
	return &Senders{rdb: rdb}
}

// senderKey hashes the address so raw emails are not kept as Redis keys.
func senderKey(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "policy:sender:" + hex.EncodeToString(sum[:])
}

// Check returns the status for email. A missing entry is Unknown.
func (s *Senders) Check(ctx context.Context, email string) (Status, error) {
	val, err := s.rdb.Get(ctx, senderKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return Unknown, nil
	}
	if err != nil {
		return Unknown, err
	}

	switch Status(val) {
	case Allowed:
		return Allowed, nil
	case Denied:
		return Denied, nil
	default:
		return Unknown, nil
	}
}

// Denied reports whether email has been explicitly denied.
func (s *Senders) Denied(ctx context.Context, email string) (bool, error) {
	st, err := s.Check(ctx, email)
	return st == Denied, err
}

// Set records status for email without expiry.
func (s *Senders) Set(ctx context.Context, email string, status Status) error {
	return s.rdb.Set(ctx, senderKey(email), string(status), 0).Err()
}

// Clear removes any status recorded for email.
func (s *Senders) Clear(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, senderKey(email)).Err()
}

// Package projections maintains Redis read models derived from the enquiry
// event stream.
package projections

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dp-catalog/internal/model"
)

const (
	// ProductsKey is a ZSET of product name -> enquiry count.
	ProductsKey = "enquiries:products"
	// CustomersKey counts distinct enquiring customers.
	CustomersKey = "enquiries:customers"
	// LastKey holds the most recent enquiry summary.
	LastKey = "enquiries:last"

	dailyTTL = 90 * 24 * time.Hour
)

func dailyKey(day string) string { return "enquiries:daily:" + day }

// redisClient is the subset of *redis.Client the projectors use.
type redisClient interface {
	ZIncrBy(ctx context.Context, key string, increment float64, member string) *redis.FloatCmd
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// CustomerFilter reports whether a customer has enquired before.
type CustomerFilter interface {
	SeenCustomer(ctx context.Context, email string) bool
}

// Projector applies EnquirySubmitted events to the read models.
type Projector struct {
	rdb       redisClient
	customers CustomerFilter
	logger    *zap.Logger
}

func NewProjector(rdb redisClient, customers CustomerFilter, logger *zap.Logger) *Projector {
	return &Projector{rdb: rdb, customers: customers, logger: logger}
}

// Apply updates every projection for evt. It keeps going after a failed
// projection and returns the first error.
func (p *Projector) Apply(ctx context.Context, evt model.EnquirySubmitted) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	keep(p.updateProducts(ctx, evt))
	keep(p.updateDaily(ctx, evt))
	keep(p.updateCustomers(ctx, evt))
	keep(p.updateLast(ctx, evt))
	return firstErr
}

func (p *Projector) updateProducts(ctx context.Context, evt model.EnquirySubmitted) error {
	if evt.ProductName == "" {
		return nil
	}
	// redis/go-redis/v9: ZIncrBy bumps the product's score in the sorted set,
	// so ZREVRANGE yields the most enquired products first.
	if err := p.rdb.ZIncrBy(ctx, ProductsKey, 1, evt.ProductName).Err(); err != nil {
		return fmt.Errorf("products projection: %w", err)
	}
	p.logger.Debug("products projection updated", zap.String("product", evt.ProductName))
	return nil
}

func (p *Projector) updateDaily(ctx context.Context, evt model.EnquirySubmitted) error {
	day, err := eventDay(evt)
	if err != nil {
		return fmt.Errorf("daily projection: %w", err)
	}
	key := dailyKey(day)
	if err := p.rdb.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("daily projection: %w", err)
	}
	// redis/go-redis/v9: Expire keeps day counters from piling up.
	if err := p.rdb.Expire(ctx, key, dailyTTL).Err(); err != nil {
		return fmt.Errorf("daily projection ttl: %w", err)
	}
	return nil
}

func (p *Projector) updateCustomers(ctx context.Context, evt model.EnquirySubmitted) error {
	if p.customers == nil || evt.Email == "" {
		return nil
	}
	if p.customers.SeenCustomer(ctx, evt.Email) {
		return nil
	}
	if err := p.rdb.Incr(ctx, CustomersKey).Err(); err != nil {
		return fmt.Errorf("customers projection: %w", err)
	}
	return nil
}

// lastEnquiry is the stored summary; it leaves the customer's address out.
type lastEnquiry struct {
	EnquiryID   string            `json:"enquiry_id"`
	Type        model.EnquiryType `json:"type"`
	ProductName string            `json:"product_name,omitempty"`
	Timestamp   string            `json:"timestamp"`
}

func (p *Projector) updateLast(ctx context.Context, evt model.EnquirySubmitted) error {
	data, err := json.Marshal(lastEnquiry{
		EnquiryID:   evt.EnquiryID,
		Type:        evt.Type,
		ProductName: evt.ProductName,
		Timestamp:   evt.Timestamp,
	})
	if err != nil {
		return err
	}
	if err := p.rdb.Set(ctx, LastKey, data, 0).Err(); err != nil {
		return fmt.Errorf("last projection: %w", err)
	}
	return nil
}

func eventDay(evt model.EnquirySubmitted) (string, error) {
	ts, err := time.Parse(time.RFC3339Nano, evt.Timestamp)
	if err != nil {
		return "", fmt.Errorf("bad timestamp %q: %w", evt.Timestamp, err)
	}
	return ts.UTC().Format("2006-01-02"), nil
}

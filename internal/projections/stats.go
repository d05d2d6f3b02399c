package projections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProductCount is one row of the most-enquired products list.
type ProductCount struct {
	Product string `json:"product"`
	Count   int64  `json:"count"`
}

// DayCount is the number of enquiries relayed on one UTC day.
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// Stats is the enquiry dashboard read model.
type Stats struct {
	TopProducts     []ProductCount `json:"top_products"`
	Daily           []DayCount     `json:"daily"`
	UniqueCustomers int64          `json:"unique_customers"`
	Last            *lastEnquiry   `json:"last,omitempty"`
}

// Reader serves Stats from the projections.
type Reader struct {
	rdb redisClient
	now func() time.Time
}

func NewReader(rdb redisClient) *Reader {
	return &Reader{rdb: rdb, now: time.Now}
}

// Stats returns the top products and the counters of the last days days.
func (r *Reader) Stats(ctx context.Context, top, days int) (*Stats, error) {
	out := &Stats{TopProducts: []ProductCount{}, Daily: []DayCount{}}

	// redis/go-redis/v9: ZRevRangeWithScores returns members by descending score.
	zs, err := r.rdb.ZRevRangeWithScores(ctx, ProductsKey, 0, int64(top-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	for _, z := range zs {
		name, _ := z.Member.(string)
		out.TopProducts = append(out.TopProducts, ProductCount{Product: name, Count: int64(z.Score)})
	}

	today := r.now().UTC()
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		n, err := r.getInt(ctx, dailyKey(day))
		if err != nil {
			return nil, fmt.Errorf("daily %s: %w", day, err)
		}
		out.Daily = append(out.Daily, DayCount{Day: day, Count: n})
	}

	if out.UniqueCustomers, err = r.getInt(ctx, CustomersKey); err != nil {
		return nil, fmt.Errorf("customers: %w", err)
	}

	raw, err := r.rdb.Get(ctx, LastKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return nil, fmt.Errorf("last enquiry: %w", err)
	default:
		var last lastEnquiry
		if err := json.Unmarshal([]byte(raw), &last); err == nil {
			out.Last = &last
		}
	}

	return out, nil
}

// getInt reads a counter; a missing key counts as zero.
func (r *Reader) getInt(ctx context.Context, key string) (int64, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Period selects the sales-trend bucket granularity.
type Period int

const (
	PeriodDay Period = iota
	PeriodWeek
	PeriodMonth
)

type TrendPoint struct {
	Bucket      time.Time
	OrderCount  int
	TotalAmount decimal.Decimal
}

// SalesTrend groups orders into calendar buckets and sums order count
// and total amount per bucket, emitting buckets chronologically. Only
// periods with at least one order appear unless fillGaps is set, which
// synthesizes zero buckets between the first and last observed period.
func (a *Analyzer) SalesTrend(ctx context.Context, period Period, fillGaps bool) ([]TrendPoint, error) {
	orders, err := a.src.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[time.Time]TrendPoint)
	for _, o := range orders {
		key := bucketStart(o.Date, period)
		p := buckets[key]
		p.Bucket = key
		p.OrderCount++
		p.TotalAmount = p.TotalAmount.Add(o.TotalAmount())
		buckets[key] = p
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Bucket.Before(points[j].Bucket)
	})

	if fillGaps && len(points) > 1 {
		points = fillEmptyBuckets(points, period)
	}
	return points, nil
}

// bucketStart maps a timestamp to its bucket key: the calendar day, the
// Monday of its ISO week, or the first of its month. Keys are rebuilt
// in UTC from the timestamp's calendar components so buckets compare by
// calendar date regardless of the stored offset.
func bucketStart(t time.Time, period Period) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch period {
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

func nextBucket(t time.Time, period Period) time.Time {
	switch period {
	case PeriodWeek:
		return t.AddDate(0, 0, 7)
	case PeriodMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func fillEmptyBuckets(points []TrendPoint, period Period) []TrendPoint {
	filled := make([]TrendPoint, 0, len(points))
	filled = append(filled, points[0])
	for _, p := range points[1:] {
		for next := nextBucket(filled[len(filled)-1].Bucket, period); next.Before(p.Bucket); next = nextBucket(next, period) {
			filled = append(filled, TrendPoint{Bucket: next, TotalAmount: decimal.Zero})
		}
		filled = append(filled, p)
	}
	return filled
}

package ledger

import (
	"time"
)

// Bucket classifies how far past due an open balance is.
type Bucket int

const (
	BucketAtDate Bucket = iota // not yet due, or no usable date
	Bucket1To30
	Bucket31To60
	Bucket61To90
	Bucket91To120
	BucketOlder

	bucketCount = int(BucketOlder) + 1
)

var bucketLabels = [bucketCount]string{
	"at-date", "1-30", "31-60", "61-90", "91-120", "older",
}

func (b Bucket) String() string {
	if b < 0 || int(b) >= bucketCount {
		return "unknown"
	}
	return bucketLabels[b]
}

// Buckets lists every bucket in aging order.
func Buckets() [bucketCount]Bucket {
	return [bucketCount]Bucket{
		BucketAtDate, Bucket1To30, Bucket31To60, Bucket61To90, Bucket91To120, BucketOlder,
	}
}

// AgingReport sums open balances per overdue bucket.
type AgingReport struct {
	AsOf       time.Time
	Cents      [bucketCount]int64
	TotalCents int64
}

// Bucket returns the sum for one bucket.
func (a AgingReport) Bucket(b Bucket) int64 {
	return a.Cents[int(b)]
}

// BucketFor maps a days-overdue figure to its bucket. Boundaries are
// inclusive per range; zero or negative days is "at-date".
func BucketFor(daysOverdue int) Bucket {
	switch {
	case daysOverdue <= 0:
		return BucketAtDate
	case daysOverdue <= 30:
		return Bucket1To30
	case daysOverdue <= 60:
		return Bucket31To60
	case daysOverdue <= 90:
		return Bucket61To90
	case daysOverdue <= 120:
		return Bucket91To120
	default:
		return BucketOlder
	}
}

// DaysOverdue computes whole days between the row's effective due date and
// asOf. A row without any usable date is 0 days overdue and lands in the
// at-date bucket.
func (it OpenItem) DaysOverdue(asOf time.Time) int {
	due := it.Row.EffectiveDue()
	if due.IsZero() {
		return 0
	}
	return int(midnight(asOf).Sub(midnight(due.Time)).Hours() / 24)
}

// Age accumulates open balances into overdue buckets as of the given date.
// Residuals keep their sign; a credit residual reduces its bucket and the
// grand total.
func Age(items []OpenItem, asOf time.Time) AgingReport {
	rep := AgingReport{AsOf: asOf}
	for _, it := range items {
		b := BucketFor(it.DaysOverdue(asOf))
		rep.Cents[int(b)] += it.Residual
		rep.TotalCents += it.Residual
	}
	return rep
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

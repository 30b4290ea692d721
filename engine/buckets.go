package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// BUCKETS — Fixed-width, left-inclusive intervals over a measure
// ============================================================================
// [Low, Low+Width), [Low+Width, Low+2·Width), … up to High (exclusive).
// Values outside [Low, High) get no bucket.
// ============================================================================

// Buckets partitions a numeric range into equal half-open intervals.
type Buckets struct {
	Low   int
	High  int
	Width int
}

// NewBuckets builds a partition of [low, high) into intervals of width.
func NewBuckets(low, high, width int) (Buckets, error) {
	if width <= 0 {
		return Buckets{}, fmt.Errorf("bucket width must be positive, got %d", width)
	}
	if high <= low {
		return Buckets{}, fmt.Errorf("bucket range [%d, %d) is empty", low, high)
	}
	if (high-low)%width != 0 {
		return Buckets{}, fmt.Errorf("bucket range [%d, %d) is not a multiple of width %d", low, high, width)
	}
	return Buckets{Low: low, High: high, Width: width}, nil
}

// Len returns the number of intervals.
func (b Buckets) Len() int {
	return (b.High - b.Low) / b.Width
}

// Labels returns every interval label in ascending order ("15-20", "20-25", …).
func (b Buckets) Labels() []string {
	labels := make([]string, 0, b.Len())
	for lo := b.Low; lo < b.High; lo += b.Width {
		labels = append(labels, bucketLabel(lo, lo+b.Width))
	}
	return labels
}

// Label returns the label of the interval containing v.
// ok is false when v falls outside [Low, High) or is NaN.
func (b Buckets) Label(v float64) (string, bool) {
	if math.IsNaN(v) || v < float64(b.Low) || v >= float64(b.High) {
		return "", false
	}
	idx := int(math.Floor((v - float64(b.Low)) / float64(b.Width)))
	lo := b.Low + idx*b.Width
	return bucketLabel(lo, lo+b.Width), true
}

// View exposes the bucket of measure as the virtual dimension key.
// Rows without a bucket read as "".
func (b Buckets) View(parent RecordView, measure, key string) RecordView {
	return WithDimension(parent, key, func(view RecordView, i int) string {
		label, _ := b.Label(view.Measure(i, measure))
		return label
	})
}

func bucketLabel(lo, hi int) string {
	return fmt.Sprintf("%d-%d", lo, hi)
}

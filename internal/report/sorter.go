package report

import (
	"sort"

	"github.com/alexanderramin/tally/internal/domain"
)

// CanonicalSort orders buckets for display:
// 1. Hours: higher first
// 2. Key: byte-wise ascending
func CanonicalSort(buckets []domain.Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		a, b := buckets[i], buckets[j]
		if a.Hours != b.Hours {
			return a.Hours > b.Hours
		}
		return a.Key < b.Key
	})
}

// ChronologicalSort orders date buckets (keys in YYYY-MM-DD) oldest first.
func ChronologicalSort(buckets []domain.Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
}

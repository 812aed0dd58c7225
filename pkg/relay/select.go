package relay

import (
	"cmp"
	"slices"
)

// SelectLargest deduplicates same-content photo variants by keeping only
// the largest fifth of them by byte size, ordered largest first.
//
// The platform attaches the same photo at several resolutions; only the
// high-resolution variants are worth forwarding. floor(n/5) is zero for
// fewer than five variants, so short inputs select nothing.
func SelectLargest(images []Attachment) []Attachment {
	keep := len(images) / 5
	if keep == 0 {
		return []Attachment{}
	}

	ordered := slices.Clone(images)
	slices.SortStableFunc(ordered, func(a, b Attachment) int {
		return cmp.Compare(a.Size(), b.Size())
	})

	selected := make([]Attachment, 0, keep)
	for i := len(ordered) - 1; i >= len(ordered)-keep; i-- {
		selected = append(selected, ordered[i])
	}

	return selected
}

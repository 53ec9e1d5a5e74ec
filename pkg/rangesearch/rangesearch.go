// Package rangesearch locates the maximal contiguous run of indices
// matching a prefix comparator within an ordered sequence, without
// requiring the sequence to be materialized as a slice.
package rangesearch

// BinarySearchBy mimics Rust's slice::binary_search_by: f(i) reports how
// element i compares to the sought value (negative: element is less;
// positive: element is greater; zero: found). Returns the index and true if
// found, otherwise the insertion point that keeps the implied order and
// false.
func BinarySearchBy(n int, f func(i int) int) (int, bool) {
	lo, hi := 0, n

	for lo < hi {
		mid := int(uint(lo+hi) >> 1)

		switch c := f(mid); {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			return mid, true
		}
	}

	return lo, false
}

// ExponentialSearchBy performs best when the matching run is short relative
// to n: it doubles a bound while f stays negative, then binary-searches the
// bracketed range.
func ExponentialSearchBy(n int, f func(i int) int) (int, bool) {
	if n == 0 {
		return 0, false
	}

	bound := 1
	for bound < n && f(bound) < 0 {
		bound <<= 1
	}

	start := bound >> 1
	end := min(n, bound+1)

	lo, hi := start, end

	for lo < hi {
		mid := int(uint(lo+hi) >> 1)

		switch c := f(mid); {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			return mid, true
		}
	}

	return lo, false
}

// LocateRange finds the maximal contiguous [start, end) range of indices in
// [0, n) for which cmp reports equal, using a single binary search
// (comparator maps Equal to Greater, locating the left end) followed by an
// exponential search from there (comparator maps Equal to Less, locating
// the right end). Returns a zero-length range at the insertion point when
// nothing matches.
func LocateRange(n int, cmp func(i int) int) (start, end int) {
	leftCmp := func(i int) int {
		if c := cmp(i); c != 0 {
			return c
		}

		return 1
	}

	pos, found := BinarySearchBy(n, leftCmp)
	if found {
		panic("rangesearch: comparator that never returns Equal reported a match")
	}

	if pos >= n || cmp(pos) != 0 {
		return pos, pos
	}

	rightCmp := func(i int) int {
		if c := cmp(pos + i); c != 0 {
			return c
		}

		return -1
	}

	offset, found := ExponentialSearchBy(n-pos, rightCmp)
	if found {
		panic("rangesearch: comparator that never returns Equal reported a match")
	}

	return pos, min(n, pos+offset)
}

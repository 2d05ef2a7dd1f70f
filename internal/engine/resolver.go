package engine

// pointQuery asks the active oracle for the raw category at a single
// column of the line being resolved. It is assumed expensive, which is
// why resolution is O(log n) probes instead of a linear scan.
type pointQuery func(col int) (string, error)

// resolveRange finds the maximal contiguous run of columns around col
// that the oracle reports as category. Both boundaries are located by
// independent binary searches: the left search finds the smallest
// column whose suffix up to col matches, the right search the largest
// column whose prefix from col matches.
//
// Working assumption: the category forms one contiguous run on this
// line. Two same-named regions separated by a different nested
// category inside the probed interval can fool the search into an
// over-wide span, and the search itself cannot notice: a probe that
// disagrees always narrows the interval away from itself, so no
// disagreeing probe ever lands inside the final span. With rescan
// enabled the resolved span is therefore re-probed column by column;
// the first interior disagreement triggers a linear walk outward from
// col, trading oracle calls for exactness. Off by default.
func resolveRange(query pointQuery, col int, category string, lineLen int, rescan bool) (int, int, error) {
	start, err := searchLeft(query, col, category)
	if err != nil {
		return 0, 0, err
	}
	end, err := searchRight(query, col, category, lineLen)
	if err != nil {
		return 0, 0, err
	}

	if rescan {
		contiguous, err := verifySpan(query, start, end, category)
		if err != nil {
			return 0, 0, err
		}
		if !contiguous {
			return linearScan(query, col, category, lineLen)
		}
	}
	return start, end, nil
}

// searchLeft halves [0, col] looking for the leftmost column still
// reporting category.
func searchLeft(query pointQuery, col int, category string) (int, error) {
	lo, hi := 0, col
	for lo < hi {
		mid := (lo + hi) / 2
		cat, err := query(mid)
		if err != nil {
			return 0, err
		}
		if cat == category {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, nil
}

// searchRight halves [col, lineLen-1] looking for the rightmost column
// still reporting category.
func searchRight(query pointQuery, col int, category string, lineLen int) (int, error) {
	lo, hi := col, lineLen-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		cat, err := query(mid)
		if err != nil {
			return 0, err
		}
		if cat == category {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// verifySpan re-probes every column of the resolved span. Any
// interior column reporting a different category is a probe
// disagreement: the contiguous-run assumption did not hold.
func verifySpan(query pointQuery, start, end int, category string) (bool, error) {
	for col := start; col <= end; col++ {
		cat, err := query(col)
		if err != nil {
			return false, err
		}
		if cat != category {
			return false, nil
		}
	}
	return true, nil
}

// linearScan walks outward from col one column at a time, stopping at
// the first non-matching column in each direction.
func linearScan(query pointQuery, col int, category string, lineLen int) (int, int, error) {
	start := col
	for start > 0 {
		cat, err := query(start - 1)
		if err != nil {
			return 0, 0, err
		}
		if cat != category {
			break
		}
		start--
	}
	end := col
	for end < lineLen-1 {
		cat, err := query(end + 1)
		if err != nil {
			return 0, 0, err
		}
		if cat != category {
			break
		}
		end++
	}
	return start, end, nil
}

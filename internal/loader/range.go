package loader

import "fmt"

// PageRange selects pages by zero-based index. Start is inclusive. End is
// exclusive when non-negative; a negative End counts from the end of the
// document, so -1 keeps the last page and -2 drops it.
type PageRange struct {
	Start int `json:"start_page"`
	End   int `json:"end_page"`
}

// AllPages is the full-document range.
var AllPages = PageRange{Start: 0, End: -1}

// Resolve maps the range onto a document with total pages and returns the
// concrete [start, end) interval.
func (r PageRange) Resolve(total int) (int, int, error) {
	if r.Start < 0 {
		return 0, 0, fmt.Errorf("%w: start page %d is negative", ErrInvalidRange, r.Start)
	}
	if r.Start >= total {
		return 0, 0, fmt.Errorf("%w: start page %d is beyond the last page (%d pages)", ErrInvalidRange, r.Start, total)
	}

	end := r.End
	if end < 0 {
		end = total + end + 1
	} else if end > total {
		end = total
	}
	if r.Start >= end {
		return 0, 0, fmt.Errorf("%w: start page %d is not before end page %d (resolved %d of %d pages)", ErrInvalidRange, r.Start, r.End, end, total)
	}
	return r.Start, end, nil
}

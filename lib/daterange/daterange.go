package daterange

import (
	"fmt"
	"time"

	"gaafix-backend/lib/timezone"
)

var ErrInvalidRange = fmt.Errorf("date range starts after it ends")

// Range is an inclusive run of calendar days. Start and End sit at
// midnight.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

// Days returns every calendar day of the range in order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for current := r.Start; !current.After(r.End); current = current.AddDate(0, 0, 1) {
		days = append(days, current)
	}
	return days
}

// Len is the number of calendar days the range covers.
func (r Range) Len() int {
	return len(r.Days())
}

// Split cuts [start, end] into contiguous sub-ranges of at most
// batchDays days each. The last sub-range may be shorter. The upstream
// misbehaves on wide date windows, so collection always goes through
// these batches.
//
// start == end yields a single one-day range. ErrInvalidRange is
// returned when start is after end, and batch sizes below one day are
// rejected the same way.
func Split(start, end time.Time, batchDays int) ([]Range, error) {
	start = timezone.Midnight(start)
	end = timezone.Midnight(end)

	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s",
			ErrInvalidRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if batchDays < 1 {
		return nil, fmt.Errorf("%w: batch size %d is below one day", ErrInvalidRange, batchDays)
	}

	var batches []Range
	for current := start; !current.After(end); {
		batchEnd := current.AddDate(0, 0, batchDays-1)
		if batchEnd.After(end) {
			batchEnd = end
		}
		batches = append(batches, Range{Start: current, End: batchEnd})
		current = batchEnd.AddDate(0, 0, 1)
	}
	return batches, nil
}

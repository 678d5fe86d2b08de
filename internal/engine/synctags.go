package engine

import "sort"

// TagType identifies a family of synchronization tags, e.g. humanoid gait.
type TagType uint32

// Tag marks a named phase of a motion cycle.
type Tag struct {
	Type           TagType
	NormalizedTime float64 // in [0, 1]
	State          int
}

// SyncRatio locates a normalized time between two consecutive tags.
// Start and End are the states of the bracketing tags and Ratio is the
// fraction of the way from Start to End. Valid is false when the motion
// carries no tags.
type SyncRatio struct {
	Start int
	End   int
	Ratio float64
	Valid bool
}

// TagsSorted reports whether tags are ordered by normalized time.
func TagsSorted(tags []Tag) bool {
	return sort.SliceIsSorted(tags, func(i, j int) bool {
		return tags[i].NormalizedTime < tags[j].NormalizedTime
	})
}

// indexTagPast returns the number of leading tags whose time lies strictly
// before t. Tags must be sorted.
func indexTagPast(t float64, tags []Tag) int {
	idx := 0
	for idx < len(tags) && tags[idx].NormalizedTime < t {
		idx++
	}
	return idx
}

// SyncRatioAt returns the bracketing tag pair of normalized time t and the
// position of t between them. Times before the first or after the last tag
// bracket the pair that wraps across the end of the cycle.
func SyncRatioAt(t float64, tags []Tag) SyncRatio {
	if len(tags) == 0 {
		return SyncRatio{}
	}

	t = Wrap(t)
	idx := indexTagPast(t, tags)
	first, last := tags[0], tags[len(tags)-1]

	if idx == 0 || idx == len(tags) {
		span := (1 - last.NormalizedTime) + first.NormalizedTime
		elapsed := t - last.NormalizedTime
		if idx == 0 {
			elapsed = t + 1 - last.NormalizedTime
		}
		return SyncRatio{
			Start: last.State,
			End:   first.State,
			Ratio: safeRatio(elapsed, span),
			Valid: true,
		}
	}

	prev, next := tags[idx-1], tags[idx]
	return SyncRatio{
		Start: prev.State,
		End:   next.State,
		Ratio: safeRatio(t-prev.NormalizedTime, next.NormalizedTime-prev.NormalizedTime),
		Valid: true,
	}
}

// SyncTime maps ratio onto the first matching (Start, End) tag pair of a
// motion, searching forward from its current time t. When no pair matches,
// or ratio is invalid, the motion advances naively by deltaRatio.
// The result is not wrapped.
func SyncTime(ratio SyncRatio, t, deltaRatio float64, tags []Tag) float64 {
	n := len(tags)
	if !ratio.Valid || n == 0 {
		return t + deltaRatio
	}

	idx := indexTagPast(Wrap(t), tags)
	if idx == n {
		idx = 0
	}

	cmp := idx
	for {
		if tags[cmp].State == ratio.End {
			prev := cmp - 1
			if prev < 0 {
				prev = n - 1
			}
			if tags[prev].State == ratio.Start {
				start := tags[prev].NormalizedTime
				var span float64
				if prev < cmp {
					span = tags[cmp].NormalizedTime - start
				} else {
					span = 1 - start + tags[cmp].NormalizedTime
				}
				return ratio.Ratio*span + start
			}
		}

		cmp++
		if cmp == n {
			cmp = 0
		}
		if cmp == idx {
			break
		}
	}

	return t + deltaRatio
}

// WrappedDelta returns the forward distance travelled from prevTime to nextTime on the
// unit cycle. Both values are wrapped first; a smaller nextTime means the
// timer passed the end of the cycle.
func WrappedDelta(prevTime, nextTime float64) float64 {
	cur, prev := Wrap(nextTime), Wrap(prevTime)
	if prev > cur {
		return 1 + cur - prev
	}
	return cur - prev
}

func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

package timedataset

// TrainRatio is the fraction of the series assigned to the training prefix
// of a back-test split.
const TrainRatio = 0.8

// Split is a chronological partition of a series into a training prefix and
// a held-out test suffix. The invariant Train.Len() + Test.Len() == full
// series length always holds.
type Split struct {
	Train *TimeSeries
	Test  *TimeSeries
}

// TrainTestSplit partitions the series by position at TrainRatio. The split
// is deterministic and order preserving. The cut point shrinks by one when
// the tail would otherwise be empty so the test suffix keeps at least one
// point whenever the series has two or more.
func (ts *TimeSeries) TrainTestSplit() Split {
	n := ts.Len()
	cut := int(float64(n) * TrainRatio)
	if cut == n && n >= 2 {
		cut = n - 1
	}
	if cut < 1 {
		// too short to hold anything back; evaluation is skipped downstream
		cut = n
	}
	return Split{
		Train: ts.Slice(0, cut),
		Test:  ts.Slice(cut, n),
	}
}

// Evaluable reports whether the split has both a non-empty training prefix
// and a non-empty test suffix to score against.
func (s Split) Evaluable() bool {
	return s.Train.Len() > 0 && s.Test.Len() > 0
}

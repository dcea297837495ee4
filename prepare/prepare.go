// Package prepare turns an uploaded tabular dataset into the regular time
// series the forecasting models require. It validates the user-selected
// column roles, parses and buckets timestamps, aggregates duplicate and
// categorized rows, and resamples onto the calendar grid of the requested
// frequency.
package prepare

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quantfold/tsforecast/timedataset"
	"github.com/sirupsen/logrus"
)

// DefaultMinHistory is the floor on prepared series length. Anything
// shorter cannot support a meaningful back-test.
const DefaultMinHistory = 10

// SeriesSpec names the column roles selected by the caller. AggColumn is
// optional; when set, rows are summed per (timestamp, category) before
// collapsing across categories.
type SeriesSpec struct {
	DateColumn  string
	ValueColumn string
	AggColumn   string
}

// Options configures the preparer.
type Options struct {
	// FrequencyTable maps the caller-facing frequency labels onto calendar
	// steps. Labels are matched lowercase; an unknown label is a
	// SchemaError, never a silent default.
	FrequencyTable map[string]timedataset.Frequency

	// MinHistory is the minimum prepared series length.
	MinHistory int

	Logger *logrus.Logger
}

func NewDefaultOptions() *Options {
	return &Options{
		FrequencyTable: DefaultFrequencyTable(),
		MinHistory:     DefaultMinHistory,
		Logger:         logrus.StandardLogger(),
	}
}

// DefaultFrequencyTable returns the five supported frequency labels.
func DefaultFrequencyTable() map[string]timedataset.Frequency {
	return map[string]timedataset.Frequency{
		"daily":     timedataset.Daily,
		"weekly":    timedataset.Weekly,
		"monthly":   timedataset.Monthly,
		"quarterly": timedataset.Quarterly,
		"yearly":    timedataset.Yearly,
	}
}

// dateLayouts are tried in order when parsing the date column. The first
// layout matching a row is tried first on subsequent rows.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01",
	"2006",
}

// Prepare validates the spec against the table, parses and coerces the
// referenced columns, aggregates, and resamples onto a regular calendar
// grid at the requested frequency. Periods with no source rows are filled
// with zero: absence of data is read as zero demand, a deliberate policy of
// the resampler. Rows whose value fails numeric coercion are dropped rather
// than failing the request.
func Prepare(table *RawTable, spec SeriesSpec, freqLabel string, horizon int, opt *Options) (*timedataset.TimeSeries, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.FrequencyTable == nil {
		opt.FrequencyTable = DefaultFrequencyTable()
	}
	if opt.MinHistory <= 0 {
		opt.MinHistory = DefaultMinHistory
	}
	logger := opt.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	freq, ok := opt.FrequencyTable[strings.ToLower(strings.TrimSpace(freqLabel))]
	if !ok {
		return nil, newUnknownFrequencyError(freqLabel)
	}
	if horizon < 1 {
		return nil, &DataError{Msg: "horizon must be a positive integer"}
	}

	dateIdx := table.ColumnIndex(spec.DateColumn)
	if dateIdx < 0 {
		return nil, newMissingColumnError(spec.DateColumn)
	}
	valueIdx := table.ColumnIndex(spec.ValueColumn)
	if valueIdx < 0 {
		return nil, newMissingColumnError(spec.ValueColumn)
	}
	aggIdx := -1
	if spec.AggColumn != "" {
		aggIdx = table.ColumnIndex(spec.AggColumn)
		if aggIdx < 0 {
			return nil, newMissingColumnError(spec.AggColumn)
		}
	}

	type groupKey struct {
		bucket time.Time
		agg    string
	}
	grouped := make(map[groupKey]float64)

	var dropped int
	layout := ""
	for _, row := range table.Rows {
		if dateIdx >= len(row) || valueIdx >= len(row) || (aggIdx >= 0 && aggIdx >= len(row)) {
			dropped++
			continue
		}

		parsed, matched, err := parseDate(row[dateIdx], layout)
		if err != nil {
			return nil, &FormatError{Column: spec.DateColumn, Value: row[dateIdx]}
		}
		layout = matched

		value, err := strconv.ParseFloat(strings.TrimSpace(row[valueIdx]), 64)
		if err != nil {
			dropped++
			continue
		}

		bucket, err := freq.Truncate(parsed)
		if err != nil {
			return nil, newUnknownFrequencyError(freqLabel)
		}

		key := groupKey{bucket: bucket}
		if aggIdx >= 0 {
			key.agg = row[aggIdx]
		}
		grouped[key] += value
	}
	if dropped > 0 {
		logger.WithFields(logrus.Fields{
			"dropped": dropped,
			"column":  spec.ValueColumn,
		}).Debug("dropped rows failing numeric coercion")
	}

	// collapse across aggregation categories by summing per bucket
	collapsed := make(map[time.Time]float64)
	for key, value := range grouped {
		collapsed[key.bucket] += value
	}
	if len(collapsed) == 0 {
		return nil, &DataError{Msg: "no usable rows after parsing and coercion"}
	}

	buckets := make([]time.Time, 0, len(collapsed))
	for bucket := range collapsed {
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })

	t, y, err := resample(collapsed, buckets[0], buckets[len(buckets)-1], freq)
	if err != nil {
		return nil, err
	}

	if len(t) < opt.MinHistory {
		return nil, &DataError{Msg: "insufficient history: need at least " +
			strconv.Itoa(opt.MinHistory) + " periods, have " + strconv.Itoa(len(t))}
	}
	if horizon >= len(t) {
		return nil, &DataError{Msg: "horizon of " + strconv.Itoa(horizon) +
			" exceeds available history of " + strconv.Itoa(len(t)) + " periods"}
	}

	return timedataset.NewTimeSeries(t, y, freq)
}

// resample walks the calendar grid from first to last inclusive, summing
// observed bucket values and inserting an explicit zero for every period
// with no source data.
func resample(collapsed map[time.Time]float64, first, last time.Time, freq timedataset.Frequency) ([]time.Time, []float64, error) {
	var t []time.Time
	var y []float64
	for curr := first; !curr.After(last); {
		t = append(t, curr)
		y = append(y, collapsed[curr])
		next, err := freq.Next(curr)
		if err != nil {
			return nil, nil, err
		}
		curr = next
	}
	return t, y, nil
}

// parseDate tries the hinted layout first and falls back to scanning the
// supported layouts.
func parseDate(value, hint string) (time.Time, string, error) {
	value = strings.TrimSpace(value)
	if hint != "" {
		if parsed, err := time.Parse(hint, value); err == nil {
			return parsed, hint, nil
		}
	}
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, layout, nil
		}
		lastErr = err
	}
	return time.Time{}, "", lastErr
}

// Package stats derives income and popularity summaries from the record
// set. Every call recomputes from the current repository state; the only
// memoization is a month-income cache that is purged on every mutation.
package stats

import (
	"sort"
	"time"

	"agenda/internal/cache"
	"agenda/internal/core"
)

// recentMonths caps the monthly report to the latest buckets.
const recentMonths = 6

// Source is the read access the engine needs from the repository.
type Source interface {
	Records() []core.Record
	RecordsForDate(date string) []core.Record
	DisplayService(id string) core.Service
}

// Bucket is one aggregation group: a year or a YYYY-MM month.
type Bucket struct {
	Key          string
	Income       float64
	TopServiceID string // "" when the bucket has no records
}

type Engine struct {
	src    Source
	months cache.Cache[float64]
}

func NewEngine(src Source) *Engine {
	return &Engine{
		src:    src,
		months: cache.NewLRU[float64](recentMonths*4, time.Hour),
	}
}

// Invalidate drops memoized summaries. Wired to the collection-changed
// signal so derived numbers never survive a mutation.
func (e *Engine) Invalidate() {
	e.months.Purge()
}

// DayIncome sums the referenced service prices over one day. Dangling
// references count as zero via the price sentinel.
func (e *Engine) DayIncome(date string) float64 {
	var sum float64
	for _, r := range e.src.RecordsForDate(date) {
		sum += e.src.DisplayService(r.ServiceID).Price
	}
	return sum
}

// DayRecords returns the day's records sorted by time, untimed last,
// stored order preserved among equals.
func (e *Engine) DayRecords(date string) []core.Record {
	records := e.src.RecordsForDate(date)
	core.SortRecordsByTime(records)
	return records
}

// MonthIncome sums prices over all records whose date carries the given
// YYYY-MM prefix.
func (e *Engine) MonthIncome(yearMonth string) float64 {
	if income, ok := e.months.Get(yearMonth); ok {
		return income
	}

	var sum float64
	for _, r := range e.src.Records() {
		if core.YearMonth(r.Date) == yearMonth {
			sum += e.src.DisplayService(r.ServiceID).Price
		}
	}
	e.months.Set(yearMonth, sum)
	return sum
}

// MonthlyReport returns the six most recent month buckets, newest first.
func (e *Engine) MonthlyReport() []Bucket {
	monthly, _ := e.buildBuckets()
	if len(monthly) > recentMonths {
		monthly = monthly[:recentMonths]
	}
	return monthly
}

// YearlyReport returns every year bucket, newest first.
func (e *Engine) YearlyReport() []Bucket {
	_, yearly := e.buildBuckets()
	return yearly
}

// MostPopularService returns the service referenced by the most records
// over the whole ledger. Ties go to the service first seen in stored
// record order. ok is false when there are no records.
func (e *Engine) MostPopularService() (id string, count int, ok bool) {
	a := newAccumulator()
	for _, r := range e.src.Records() {
		a.add(r.ServiceID, 0)
	}
	id, count = a.top()
	return id, count, count > 0
}

// accumulator gathers one bucket during the single pass over the records.
// firstSeen preserves the order service ids were first encountered in, so
// popularity ties resolve to the earliest one.
type accumulator struct {
	income    float64
	counts    map[string]int
	firstSeen []string
}

func newAccumulator() *accumulator {
	return &accumulator{counts: make(map[string]int)}
}

func (a *accumulator) add(serviceID string, price float64) {
	a.income += price
	if _, seen := a.counts[serviceID]; !seen {
		a.firstSeen = append(a.firstSeen, serviceID)
	}
	a.counts[serviceID]++
}

// top returns the most counted service id; strict > keeps the first-seen
// one on ties.
func (a *accumulator) top() (string, int) {
	var id string
	var max int
	for _, candidate := range a.firstSeen {
		if a.counts[candidate] > max {
			max = a.counts[candidate]
			id = candidate
		}
	}
	return id, max
}

// buildBuckets makes one pass over all records and produces both report
// granularities, each sorted descending by bucket key.
func (e *Engine) buildBuckets() (monthly, yearly []Bucket) {
	monthAcc := make(map[string]*accumulator)
	yearAcc := make(map[string]*accumulator)

	for _, r := range e.src.Records() {
		ym := core.YearMonth(r.Date)
		y := core.Year(r.Date)
		if ym == "" || y == "" {
			continue
		}
		price := e.src.DisplayService(r.ServiceID).Price

		bucketFor(monthAcc, ym).add(r.ServiceID, price)
		bucketFor(yearAcc, y).add(r.ServiceID, price)
	}

	return collect(monthAcc), collect(yearAcc)
}

func bucketFor(m map[string]*accumulator, key string) *accumulator {
	a, ok := m[key]
	if !ok {
		a = newAccumulator()
		m[key] = a
	}
	return a
}

func collect(m map[string]*accumulator) []Bucket {
	out := make([]Bucket, 0, len(m))
	for key, a := range m {
		topID, _ := a.top()
		out = append(out, Bucket{Key: key, Income: a.income, TopServiceID: topID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out
}

// Package dashboard derives the spending overview from a bulk expense
// fetch and the backend-computed period totals.
//
// Everything here is a full recomputation over small in-memory data;
// at the expected volumes a memoized recompute is cheaper to maintain
// than incremental bookkeeping, so that is all the aggregator does.
package dashboard

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"outlai/internal/cache"
	"outlai/internal/core"
	"outlai/internal/log"
	"outlai/internal/services"
)

const statsCacheKey = "stats"

// ExpenseReader is the slice of the expense service the aggregator
// needs.
type ExpenseReader interface {
	List(ctx context.Context, page, limit int, category string) (services.ExpensePage, error)
	TotalsByPeriod(ctx context.Context, startDate, endDate string) (map[string]float64, error)
}

type (
	// CategoryTotal is one slice of the category breakdown.
	CategoryTotal struct {
		Name  string
		Color string
		Total float64
	}

	// TrendPoint is one month bucket of the spending trend.
	TrendPoint struct {
		Month time.Time
		Key   string
		Total float64
	}

	// Stats is the derived dashboard view.
	Stats struct {
		CurrentTotal     float64
		LastTotal        float64
		PercentageChange float64
		ByCategory       []CategoryTotal
		Recent           []core.Expense
		Trend            []TrendPoint
	}
)

// Options configures the aggregator's fetch window.
type Options struct {
	// BulkLimit is the page size of the "all recent expenses" fetch.
	BulkLimit int
	// TrendMonths is how far back the totals fetch and trend go.
	TrendMonths int
	// CacheTTL bounds how stale a memoized Stats may get.
	CacheTTL time.Duration
}

// Aggregator computes dashboard stats on demand and memoizes the
// result until invalidated or expired.
type Aggregator struct {
	api    ExpenseReader
	logger *log.Logger
	opts   Options
	cache  *cache.LRUCache[Stats]
	now    func() time.Time
}

func NewAggregator(api ExpenseReader, opts Options, logger *log.Logger) *Aggregator {
	if opts.BulkLimit < 1 {
		opts.BulkLimit = 1000
	}
	if opts.TrendMonths < 1 {
		opts.TrendMonths = 12
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentDashboard)
	}
	return &Aggregator{
		api:    api,
		logger: logger,
		opts:   opts,
		cache:  cache.NewLRU[Stats](1, opts.CacheTTL),
		now:    time.Now,
	}
}

// Load returns the dashboard stats, recomputing them when the memoized
// copy is missing or expired. The two backend fetches run concurrently.
func (a *Aggregator) Load(ctx context.Context) (Stats, error) {
	if stats, ok := a.cache.Get(statsCacheKey); ok {
		return stats, nil
	}

	now := a.now()
	startDate := now.AddDate(0, -a.opts.TrendMonths, 0).Format("2006-01-02")
	endDate := now.Format("2006-01-02")

	var (
		page   services.ExpensePage
		totals map[string]float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = a.api.List(gctx, 1, a.opts.BulkLimit, services.CategoryAll)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = a.api.TotalsByPeriod(gctx, startDate, endDate)
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.ErrorContext(ctx, "Failed to load dashboard data",
			log.FieldOperation, log.OpAggregate,
			log.FieldError, err.Error())
		return Stats{}, err
	}

	stats := compute(page.Data, totals, now, a.opts.TrendMonths)
	a.cache.Set(statsCacheKey, stats)
	return stats, nil
}

// Invalidate drops the memoized stats so the next Load recomputes.
// Call it after any expense mutation.
func (a *Aggregator) Invalidate() {
	a.cache.Delete(statsCacheKey)
}

// PercentChange implements the month-over-month change policy: with a
// zero previous month, any spending counts as a 100% increase and no
// spending as 0%, so the figure stays finite and meaningful.
func PercentChange(current, last float64) float64 {
	if last == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - last) / last * 100
}

// TrendTail narrows a trend series to its most recent months. The
// series is already zero-filled, so a shorter viewing range is just
// the tail of the full one.
func TrendTail(points []TrendPoint, months int) []TrendPoint {
	if months < 1 || months >= len(points) {
		return points
	}
	return points[len(points)-months:]
}

func compute(expenses []core.Expense, totals map[string]float64, now time.Time, trendMonths int) Stats {
	currentTotal := totals[core.MonthKey(now)]
	lastTotal := totals[core.PrevMonthKey(now)]

	return Stats{
		CurrentTotal:     currentTotal,
		LastTotal:        lastTotal,
		PercentageChange: PercentChange(currentTotal, lastTotal),
		ByCategory:       categoryBreakdown(expenses, now),
		Recent:           mostRecent(expenses, 5),
		Trend:            trend(totals, now, trendMonths),
	}
}

// categoryBreakdown sums the current calendar month per category,
// excluding categories with nothing in them.
func categoryBreakdown(expenses []core.Expense, now time.Time) []CategoryTotal {
	sums := map[string]float64{}
	for _, e := range expenses {
		if e.Date.SameMonth(now.Year(), now.Month()) {
			sums[e.Category] += e.Amount
		}
	}

	out := []CategoryTotal{}
	for _, cat := range core.Categories() {
		if total := sums[cat.ID]; total > 0 {
			out = append(out, CategoryTotal{Name: cat.Name, Color: cat.Color, Total: total})
		}
	}
	return out
}

// mostRecent returns the n most recent expenses by descending date.
func mostRecent(expenses []core.Expense, n int) []core.Expense {
	sorted := make([]core.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// trend builds zero-filled month buckets from trendMonths-1 months ago
// through the current month.
func trend(totals map[string]float64, now time.Time, trendMonths int) []TrendPoint {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)

	out := make([]TrendPoint, 0, trendMonths)
	for i := 0; i < trendMonths; i++ {
		month := first.AddDate(0, i, 0)
		key := core.MonthKey(month)
		out = append(out, TrendPoint{Month: month, Key: key, Total: totals[key]})
	}
	return out
}

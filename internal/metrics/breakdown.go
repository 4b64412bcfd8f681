//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-salesmetrics/internal/sales"
)

// GroupRevenue is revenue and order count for one group.
type GroupRevenue struct {
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// ScoreCount is the number of reviewed orders with one score.
type ScoreCount struct {
	Score  int   `json:"score"`
	Orders int   `json:"orders"`
	Share  Ratio `json:"share"`
}

// DeliveryReview is the average review score of one delivery category.
type DeliveryReview struct {
	Category     sales.DeliveryCategory `json:"category"`
	Orders       int                    `json:"orders"`
	AverageScore Ratio                  `json:"average_score"`
}

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status string `json:"status"`
	Orders int    `json:"orders"`
}

// Breakdowns groups the analysis-year aggregates shown by the report.
type Breakdowns struct {
	Categories     []GroupRevenue   `json:"revenue_by_category"`
	States         []GroupRevenue   `json:"revenue_by_state"`
	ReviewScores   []ScoreCount     `json:"review_score_distribution"`
	DeliveryReview []DeliveryReview `json:"review_by_delivery_speed"`
	OrderStatus    []StatusCount    `json:"order_status_distribution"`
}

// Breakdowns computes every grouped aggregate for the analysis year. The
// status distribution reads orders, which are not filtered by status.
func (e *Engine) Breakdowns(t sales.Table, orders sales.Orders, topN int) Breakdowns {
	return Breakdowns{
		Categories:     e.RevenueByCategory(t, topN),
		States:         e.RevenueByState(t),
		ReviewScores:   e.ReviewScoreDistribution(t),
		DeliveryReview: e.AverageReviewByDeliverySpeed(t),
		OrderStatus:    e.OrderStatusDistribution(orders, e.cfg.AnalysisYear),
	}
}

// RevenueByCategory ranks product categories by analysis-year revenue,
// keeping the first topN (all when topN <= 0). Records without a category
// are skipped.
func (e *Engine) RevenueByCategory(t sales.Table, topN int) []GroupRevenue {
	out := e.groupRevenue(t, func(r sales.Record) (string, bool) {
		return r.CategoryName.V, r.CategoryName.Valid
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// RevenueByState ranks customer states by analysis-year revenue. Records
// without a state are skipped.
func (e *Engine) RevenueByState(t sales.Table) []GroupRevenue {
	return e.groupRevenue(t, func(r sales.Record) (string, bool) {
		return r.CustomerState.V, r.CustomerState.Valid
	})
}

func (e *Engine) groupRevenue(t sales.Table, key func(sales.Record) (string, bool)) []GroupRevenue {
	revenue := make(map[string]decimal.Decimal)
	orders := make(map[string]map[string]struct{})
	for _, r := range t {
		if r.Year() != e.cfg.AnalysisYear {
			continue
		}
		name, ok := key(r)
		if !ok {
			continue
		}
		if _, seen := orders[name]; !seen {
			revenue[name] = decimal.Zero
			orders[name] = make(map[string]struct{})
		}
		revenue[name] = revenue[name].Add(r.Price)
		orders[name][r.OrderID] = struct{}{}
	}

	out := make([]GroupRevenue, 0, len(revenue))
	for name, rev := range revenue {
		out = append(out, GroupRevenue{Name: name, Revenue: rev, Orders: len(orders[name])})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// orderFacts is the per-order view used by order-level distributions. Every
// line item of an order shares its delivery speed and review score.
type orderFacts struct {
	speed  sales.DeliveryCategory
	score  int
	scored bool
}

func (e *Engine) ordersOf(t sales.Table, year int) map[string]orderFacts {
	out := make(map[string]orderFacts)
	for _, r := range t {
		if r.Year() != year {
			continue
		}
		if _, ok := out[r.OrderID]; ok {
			continue
		}
		out[r.OrderID] = orderFacts{
			speed:  sales.CategorizeDeliverySpeed(r.DeliverySpeedDays),
			score:  r.ReviewScore.V,
			scored: r.ReviewScore.Valid,
		}
	}
	return out
}

// ReviewScoreDistribution counts analysis-year reviewed orders per score,
// scores 1 to 5 in order. Share is undefined when no order is reviewed.
func (e *Engine) ReviewScoreDistribution(t sales.Table) []ScoreCount {
	var counts [6]int
	total := 0
	for _, o := range e.ordersOf(t, e.cfg.AnalysisYear) {
		if !o.scored || o.score < 1 || o.score > 5 {
			continue
		}
		counts[o.score]++
		total++
	}

	out := make([]ScoreCount, 0, 5)
	for score := 1; score <= 5; score++ {
		sc := ScoreCount{Score: score, Orders: counts[score]}
		if total > 0 {
			sc.Share = Defined(float64(counts[score]) / float64(total))
		}
		out = append(out, sc)
	}
	return out
}

// AverageReviewByDeliverySpeed averages analysis-year review scores per
// delivery category, in category order. A category without reviewed orders
// has an undefined average.
func (e *Engine) AverageReviewByDeliverySpeed(t sales.Table) []DeliveryReview {
	sums := make(map[sales.DeliveryCategory]int)
	counts := make(map[sales.DeliveryCategory]int)
	for _, o := range e.ordersOf(t, e.cfg.AnalysisYear) {
		if !o.scored {
			continue
		}
		sums[o.speed] += o.score
		counts[o.speed]++
	}

	out := make([]DeliveryReview, 0, len(sales.DeliveryCategories))
	for _, c := range sales.DeliveryCategories {
		dr := DeliveryReview{Category: c, Orders: counts[c]}
		if counts[c] > 0 {
			dr.AverageScore = Defined(float64(sums[c]) / float64(counts[c]))
		}
		out = append(out, dr)
	}
	return out
}

// OrderStatusDistribution counts distinct orders per status in year, largest
// first.
func (e *Engine) OrderStatusDistribution(orders sales.Orders, year int) []StatusCount {
	counts := make(map[string]int)
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders.ForYear(year) {
		if _, ok := seen[o.OrderID]; ok {
			continue
		}
		seen[o.OrderID] = struct{}{}
		counts[o.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{Status: status, Orders: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		return out[i].Status < out[j].Status
	})
	return out
}

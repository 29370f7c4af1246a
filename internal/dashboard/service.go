// Package dashboard computes the manager home page: totals per collection, the
// payment verification queue and promotions about to expire.
package dashboard

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/pages/articles"
	"github.com/halocare/halocare-admin/internal/pages/banners"
	"github.com/halocare/halocare-admin/internal/pages/categories"
	"github.com/halocare/halocare-admin/internal/pages/doctors"
	"github.com/halocare/halocare-admin/internal/pages/feedback"
	"github.com/halocare/halocare-admin/internal/pages/packages"
	"github.com/halocare/halocare-admin/internal/pages/promotions"
	"github.com/halocare/halocare-admin/internal/pages/transactions"
)

const (
	latestTransactions = 5
	endingSoonWindow   = 7 * 24 * time.Hour
)

// Sources are the collections the summary is computed from. Nil sources count
// as empty.
type Sources struct {
	Articles     listing.Source[articles.Article]
	Banners      listing.Source[banners.Banner]
	Categories   listing.Source[categories.Category]
	Doctors      listing.Source[doctors.Doctor]
	Feedback     listing.Source[feedback.Feedback]
	Packages     listing.Source[packages.ServicePackage]
	Promotions   listing.Source[promotions.Promotion]
	Transactions listing.Source[transactions.Transaction]
}

// EntityCount is the size of one collection broken down by status.
type EntityCount struct {
	Name     string         `json:"name"`
	Title    string         `json:"title"`
	Path     string         `json:"path"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// TransactionDigest is a row of the latest transactions table.
type TransactionDigest struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	PatientName   string          `json:"patientName"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	TransferredAt time.Time       `json:"transferredAt"`
}

// PromotionDigest is a promotion ending soon.
type PromotionDigest struct {
	ID      string    `json:"id"`
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	EndDate time.Time `json:"endDate"`
}

// Summary is the dashboard payload.
type Summary struct {
	GeneratedAt        time.Time           `json:"generatedAt"`
	Entities           []EntityCount       `json:"entities"`
	PendingTransfers   int                 `json:"pendingTransfers"`
	PendingAmount      decimal.Decimal     `json:"pendingAmount"`
	MonthRevenue       decimal.Decimal     `json:"monthRevenue"`
	AverageRating      float64             `json:"averageRating"`
	RatingCount        int                 `json:"ratingCount"`
	ActivePromotions   int                 `json:"activePromotions"`
	EndingSoon         []PromotionDigest   `json:"endingSoon"`
	LatestTransactions []TransactionDigest `json:"latestTransactions"`
}

// Service builds and caches the summary.
type Service struct {
	sources  Sources
	cache    *Cache
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the sources with a Cache helper.
func NewService(sources Sources, cache *Cache, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{sources: sources, cache: cache, location: loc, logger: logger, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Summary returns the cached summary, building it on a miss.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "summary")
	if err != nil {
		s.logger.Warn("dashboard cache unavailable", slog.Any("error", err))
		return s.Build(ctx)
	}
	var out Summary
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.Build(ctx)
	})
	if err != nil {
		return Summary{}, err
	}
	return out, nil
}

// Refresh rebuilds the summary and stores it under the current version.
func (s *Service) Refresh(ctx context.Context) (Summary, error) {
	sum, err := s.Build(ctx)
	if err != nil {
		return Summary{}, err
	}
	key, err := s.cache.BuildKey(ctx, "dashboard", "summary")
	if err != nil {
		return Summary{}, err
	}
	if err := s.cache.Store(ctx, key, sum); err != nil {
		return Summary{}, fmt.Errorf("dashboard: store summary: %w", err)
	}
	return sum, nil
}

// Bump invalidates the cached summary.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

type collections struct {
	articles     []articles.Article
	banners      []banners.Banner
	categories   []categories.Category
	doctors      []doctors.Doctor
	feedback     []feedback.Feedback
	packages     []packages.ServicePackage
	promotions   []promotions.Promotion
	transactions []transactions.Transaction
}

// Build loads every collection concurrently and computes a fresh summary.
func (s *Service) Build(ctx context.Context) (Summary, error) {
	var c collections
	g, gctx := errgroup.WithContext(ctx)
	fetch(gctx, g, s.sources.Articles, &c.articles)
	fetch(gctx, g, s.sources.Banners, &c.banners)
	fetch(gctx, g, s.sources.Categories, &c.categories)
	fetch(gctx, g, s.sources.Doctors, &c.doctors)
	fetch(gctx, g, s.sources.Feedback, &c.feedback)
	fetch(gctx, g, s.sources.Packages, &c.packages)
	fetch(gctx, g, s.sources.Promotions, &c.promotions)
	fetch(gctx, g, s.sources.Transactions, &c.transactions)
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("dashboard: load collections: %w", err)
	}
	return summarize(c, s.now().In(s.location)), nil
}

func fetch[T any](ctx context.Context, g *errgroup.Group, src listing.Source[T], dst *[]T) {
	if src == nil {
		return
	}
	g.Go(func() error {
		items, err := src.All(ctx)
		if err != nil {
			return err
		}
		*dst = items
		return nil
	})
}

func summarize(c collections, now time.Time) Summary {
	sum := Summary{
		GeneratedAt: now,
		Entities: []EntityCount{
			countBy(doctors.Name, "Doctors", "/doctors", c.doctors, func(d doctors.Doctor) string { return d.Status }),
			countBy(packages.Name, "Service packages", "/packages", c.packages, func(p packages.ServicePackage) string { return p.Status }),
			countBy(transactions.Name, "Transactions", "/transactions", c.transactions, func(t transactions.Transaction) string { return t.Status }),
			countBy(promotions.Name, "Promotions", "/promotions", c.promotions, func(p promotions.Promotion) string { return p.Status }),
			countBy(banners.Name, "Banners", "/banners", c.banners, func(b banners.Banner) string { return b.Status }),
			countBy(articles.Name, "Articles", "/articles", c.articles, func(a articles.Article) string { return a.Status }),
			countBy(categories.Name, "Categories", "/categories", c.categories, func(x categories.Category) string { return x.Status }),
			countBy(feedback.Name, "Feedback", "/feedback", c.feedback, func(f feedback.Feedback) string { return f.Status }),
		},
		PendingAmount:      decimal.Zero,
		MonthRevenue:       decimal.Zero,
		EndingSoon:         []PromotionDigest{},
		LatestTransactions: []TransactionDigest{},
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	for _, t := range c.transactions {
		switch t.Status {
		case transactions.StatusPending:
			sum.PendingTransfers++
			sum.PendingAmount = sum.PendingAmount.Add(t.Amount)
		case transactions.StatusConfirmed:
			if !t.TransferredAt.Before(monthStart) && t.TransferredAt.Before(monthEnd) {
				sum.MonthRevenue = sum.MonthRevenue.Add(t.Amount)
			}
		}
	}

	latest := slices.Clone(c.transactions)
	slices.SortStableFunc(latest, func(a, b transactions.Transaction) int {
		return b.TransferredAt.Compare(a.TransferredAt)
	})
	for _, t := range latest[:min(len(latest), latestTransactions)] {
		sum.LatestTransactions = append(sum.LatestTransactions, TransactionDigest{
			ID:            t.ID,
			Reference:     t.Reference,
			PatientName:   t.PatientName,
			Amount:        t.Amount,
			Status:        t.Status,
			TransferredAt: t.TransferredAt,
		})
	}

	total := 0
	for _, f := range c.feedback {
		if f.Rating < 1 || f.Status == feedback.StatusHidden {
			continue
		}
		total += f.Rating
		sum.RatingCount++
	}
	if sum.RatingCount > 0 {
		sum.AverageRating = math.Round(float64(total)/float64(sum.RatingCount)*100) / 100
	}

	for _, p := range c.promotions {
		if p.Status == promotions.StatusActive {
			sum.ActivePromotions++
		}
		if p.EndsWithin(now, endingSoonWindow) {
			sum.EndingSoon = append(sum.EndingSoon, PromotionDigest{ID: p.ID, Code: p.Code, Name: p.Name, EndDate: p.EndDate})
		}
	}
	slices.SortFunc(sum.EndingSoon, func(a, b PromotionDigest) int {
		return cmp.Or(a.EndDate.Compare(b.EndDate), cmp.Compare(a.Code, b.Code))
	})
	return sum
}

func countBy[T any](name, title, path string, items []T, status func(T) string) EntityCount {
	ec := EntityCount{Name: name, Title: title, Path: path, Total: len(items), ByStatus: map[string]int{}}
	for _, item := range items {
		ec.ByStatus[status(item)]++
	}
	return ec
}

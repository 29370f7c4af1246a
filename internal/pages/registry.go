// Package pages registers the entity pages of the dashboard.
package pages

import (
	"fmt"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/backend"
	"github.com/halocare/halocare-admin/internal/dashboard"
	"github.com/halocare/halocare-admin/internal/pages/articles"
	"github.com/halocare/halocare-admin/internal/pages/banners"
	"github.com/halocare/halocare-admin/internal/pages/categories"
	"github.com/halocare/halocare-admin/internal/pages/doctors"
	"github.com/halocare/halocare-admin/internal/pages/feedback"
	"github.com/halocare/halocare-admin/internal/pages/packages"
	"github.com/halocare/halocare-admin/internal/pages/promotions"
	"github.com/halocare/halocare-admin/internal/pages/transactions"
	"github.com/halocare/halocare-admin/internal/view"
)

// Resources are the backend collections behind every page.
type Resources struct {
	Articles     *backend.Resource[articles.Article]
	Banners      *backend.Resource[banners.Banner]
	Categories   *backend.Resource[categories.Category]
	Doctors      *backend.Resource[doctors.Doctor]
	Feedback     *backend.Resource[feedback.Feedback]
	Packages     *backend.Resource[packages.ServicePackage]
	Promotions   *backend.Resource[promotions.Promotion]
	Transactions *backend.Resource[transactions.Transaction]
}

// NewResources binds every collection to client.
func NewResources(client *backend.Client) Resources {
	return Resources{
		Articles:     backend.NewResource[articles.Article](client, articles.Name, "/articles"),
		Banners:      backend.NewResource[banners.Banner](client, banners.Name, "/banners"),
		Categories:   backend.NewResource[categories.Category](client, categories.Name, "/categories"),
		Doctors:      backend.NewResource[doctors.Doctor](client, doctors.Name, "/doctors"),
		Feedback:     backend.NewResource[feedback.Feedback](client, feedback.Name, "/feedback"),
		Packages:     backend.NewResource[packages.ServicePackage](client, packages.Name, "/service-packages"),
		Promotions:   backend.NewResource[promotions.Promotion](client, promotions.Name, "/promotions"),
		Transactions: backend.NewResource[transactions.Transaction](client, transactions.Name, "/transactions"),
	}
}

// Sources exposes the collections to the dashboard summary.
func (r Resources) Sources() dashboard.Sources {
	return dashboard.Sources{
		Articles:     r.Articles,
		Banners:      r.Banners,
		Categories:   r.Categories,
		Doctors:      r.Doctors,
		Feedback:     r.Feedback,
		Packages:     r.Packages,
		Promotions:   r.Promotions,
		Transactions: r.Transactions,
	}
}

// Build constructs every page in sidebar order and registers its nav entry.
func Build(res Resources, format *view.Formatter, deps admin.Deps) ([]admin.Module, error) {
	var (
		modules []admin.Module
		errs    []error
	)
	add := func(m admin.Module, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		modules = append(modules, m)
	}
	add(admin.NewPage(doctors.Config(res.Doctors, format), deps))
	add(admin.NewPage(packages.Config(res.Packages, format), deps))
	add(admin.NewPage(transactions.Config(res.Transactions, format), deps))
	add(admin.NewPage(promotions.Config(res.Promotions, format), deps))
	add(admin.NewPage(banners.Config(res.Banners, format), deps))
	add(admin.NewPage(articles.Config(res.Articles, format), deps))
	add(admin.NewPage(categories.Config(res.Categories, format), deps))
	add(admin.NewPage(feedback.Config(res.Feedback, format), deps))
	if len(errs) > 0 {
		return nil, fmt.Errorf("pages: %w", errs[0])
	}
	if deps.Renderer != nil {
		for _, m := range modules {
			deps.Renderer.AddNav(m.Title(), m.BasePath(), m.ViewPermission())
		}
	}
	return modules, nil
}

// Find returns the module registered under name.
func Find(modules []admin.Module, name string) (admin.Module, bool) {
	for _, m := range modules {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ListResult is the list envelope returned by the API. Total is optional.
type ListResult[T any] struct {
	Items []T  `json:"items"`
	Total *int `json:"total,omitempty"`
}

// Count returns Total, falling back to the number of items.
func (r ListResult[T]) Count() int {
	if r.Total != nil {
		return *r.Total
	}
	return len(r.Items)
}

// Resource is the data service of one entity collection.
type Resource[T any] struct {
	client *Client
	name   string
	path   string
}

// NewResource binds a collection path such as "/doctors" to a Client.
func NewResource[T any](client *Client, name, path string) *Resource[T] {
	return &Resource[T]{client: client, name: name, path: "/" + strings.Trim(path, "/")}
}

// Name identifies the resource in logs and metrics.
func (r *Resource[T]) Name() string { return r.name }

// List fetches the collection, optionally narrowed by API-side filters.
func (r *Resource[T]) List(ctx context.Context, params url.Values) (ListResult[T], error) {
	var out ListResult[T]
	if err := r.client.do(ctx, r.name, http.MethodGet, r.path, params, nil, &out); err != nil {
		return ListResult[T]{}, err
	}
	if out.Items == nil {
		out.Items = []T{}
	}
	return out, nil
}

// All fetches the full collection.
func (r *Resource[T]) All(ctx context.Context) ([]T, error) {
	res, err := r.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Get fetches one record.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.client.do(ctx, r.name, http.MethodGet, r.itemPath(id), nil, nil, &out)
	return out, err
}

// Create posts a new record.
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var out T
	err := r.client.do(ctx, r.name, http.MethodPost, r.path, nil, payload, &out)
	return out, err
}

// Update replaces a record.
func (r *Resource[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	var out T
	err := r.client.do(ctx, r.name, http.MethodPut, r.itemPath(id), nil, payload, &out)
	return out, err
}

// SetStatus changes the lifecycle status of a record.
func (r *Resource[T]) SetStatus(ctx context.Context, id, status string) (T, error) {
	var out T
	err := r.client.do(ctx, r.name, http.MethodPatch, r.itemPath(id)+"/status", nil, map[string]string{"status": status}, &out)
	return out, err
}

// Remove deletes a record.
func (r *Resource[T]) Remove(ctx context.Context, id string) error {
	return r.client.do(ctx, r.name, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ping-crm/dashboard/pkg/envelope"
)

// Fields is a partial entity keyed by JSON field name. Only the keys present
// are sent, so an update leaves every other stored field untouched.
type Fields map[string]any

// Resource is the CRUD surface of one API endpoint (e.g. /api/organizations).
// T is the flat entity the envelope decodes into.
type Resource[T any] struct {
	client   *Client
	endpoint string
	singular string
	plural   string
}

// NewResource creates a resource. singular and plural name the entity in
// fallback error messages ("Failed to fetch contacts").
func NewResource[T any](client *Client, endpoint, singular, plural string) *Resource[T] {
	return &Resource[T]{client: client, endpoint: endpoint, singular: singular, plural: plural}
}

// List fetches the whole collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.Search(ctx, "")
}

// Search fetches the collection filtered upstream by term. An empty term lists everything.
func (r *Resource[T]) Search(ctx context.Context, term string) ([]T, error) {
	path := r.endpoint
	if term != "" {
		path += "?" + url.Values{"search": {term}}.Encode()
	}
	resp, err := r.client.Do(ctx, http.MethodGet, path, nil, "Failed to fetch "+r.plural)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeCollection[T](resp.Body)
}

// Get fetches one entity.
func (r *Resource[T]) Get(ctx context.Context, id int) (*T, error) {
	resp, err := r.client.Do(ctx, http.MethodGet, r.itemPath(id), nil, "Failed to fetch "+r.singular)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](resp.Body)
}

// Create posts a new entity; the API answers 201 with the stored entity.
func (r *Resource[T]) Create(ctx context.Context, in Fields) (*T, error) {
	resp, err := r.client.Do(ctx, http.MethodPost, r.endpoint, in, "Failed to create "+r.singular)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](resp.Body)
}

// Update changes the fields in carries and returns the stored entity.
func (r *Resource[T]) Update(ctx context.Context, id int, in Fields) (*T, error) {
	resp, err := r.client.Do(ctx, http.MethodPut, r.itemPath(id), in, "Failed to update "+r.singular)
	if err != nil {
		return nil, err
	}
	return decodeOne[T](resp.Body)
}

// Delete removes an entity.
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	_, err := r.client.Do(ctx, http.MethodDelete, r.itemPath(id), nil, "Failed to delete "+r.singular)
	return err
}

func (r *Resource[T]) itemPath(id int) string {
	return r.endpoint + "/" + strconv.Itoa(id)
}

func decodeOne[T any](body []byte) (*T, error) {
	v, err := envelope.DecodeOne[T](body)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

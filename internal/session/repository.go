package session

import (
	"context"
	"net/url"
)

// ParamStore persists the parameter bag of each session so a shopper can
// come back to the same view.
type ParamStore interface {
	Load(ctx context.Context, id string) (url.Values, bool, error)
	Save(ctx context.Context, id string, params url.Values) error
	Delete(ctx context.Context, id string) error
}

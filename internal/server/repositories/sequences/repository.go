// Package sequences issues monotonically increasing ids per entity kind.
package sequences

import "context"

// Kind names an entity whose ids come from the shared counter row.
type Kind string

const (
	KindUser    Kind = "user"
	KindMessage Kind = "message"
)

// Repository hands out ids. Next returns 1 on the first call for a kind and
// the previous value plus one afterwards; no two callers get the same id.
type Repository interface {
	Next(ctx context.Context, kind Kind) (int64, error)
}

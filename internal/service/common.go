package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/woodfy/workshop-api/internal/store"
)

// Clock returns the current time. Services take one so tests can pin dates.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}

// commit runs fn as one store mutation and maps its failure onto service errors
func commit(ctx context.Context, st *store.Store, fn func(tx *store.Tx) error) (store.Commit, error) {
	c, err := st.Mutate(ctx, fn)
	return c, translateError(err)
}

func newID() string {
	return uuid.NewString()
}

// isoDate formats t as the YYYY-MM-DD form every entity date uses
func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

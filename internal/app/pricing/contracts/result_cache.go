package contracts

import "context"

// ResultCache stores derived results keyed by product and history content.
// Get reports found=false on a miss; callers treat errors as misses.
type ResultCache interface {
	Get(ctx context.Context, key string, dst any) (found bool, err error)
	Set(ctx context.Context, key string, value any) error
}

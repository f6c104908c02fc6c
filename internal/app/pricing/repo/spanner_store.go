package repo

import (
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/priceopt-service/internal/pkg/committer"
)

// SpannerStore is the production HistoryStore.
type SpannerStore struct {
	*HistoryRepo
	*ReadModelImpl
}

// NewSpannerStore wires the Spanner repositories around one client.
func NewSpannerStore(client *spanner.Client, comm *committer.Committer) *SpannerStore {
	return &SpannerStore{
		HistoryRepo:   NewHistoryRepo(client, comm),
		ReadModelImpl: NewReadModel(client),
	}
}

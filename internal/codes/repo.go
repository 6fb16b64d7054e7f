package codes

import "context"

// Repo defines read-only lookup of display labels for stored codes.
type Repo interface {
	// Label resolves a single (division, detail_id) pair.
	Label(ctx context.Context, division, detailID string) (string, error)

	// Labels resolves a batch of detail ids within one division in a single
	// query. Unknown ids are simply absent from the result map.
	Labels(ctx context.Context, division string, detailIDs []string) (map[string]string, error)
}

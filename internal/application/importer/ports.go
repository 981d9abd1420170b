package importer

import (
	"context"

	"github.com/ftsampaio/sales-import/internal/domain/sale"
)

// Fetcher retrieves one page of sales from the marketplace per call. An empty
// cursor requests the first page; an empty NextCursor in the returned page
// ends the pagination.
type Fetcher interface {
	NextPage(ctx context.Context, cursor string) (sale.Page, error)
}

// Upserter persists a reconciled sale and its items idempotently, keyed by
// the sale's external identifier. Re-running against unchanged source data
// must overwrite rather than duplicate.
type Upserter interface {
	Upsert(ctx context.Context, record sale.SaleRecord, items []sale.SaleItem) error
}

// CategoryLookup loads the full category reference table. It is read once at
// the start of each run.
type CategoryLookup interface {
	LoadAll(ctx context.Context) (map[string]string, error)
}

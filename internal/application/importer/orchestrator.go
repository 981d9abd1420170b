package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ftsampaio/sales-import/internal/domain/importjob"
	"github.com/ftsampaio/sales-import/internal/domain/sale"
)

// Config tunes the orchestrator's run loop.
type Config struct {
	// FeeRate is the standard marketplace fee rate used to compute the
	// expected fee and the discount per sale.
	FeeRate decimal.Decimal

	// CallTimeout bounds each individual fetch and upsert call.
	CallTimeout time.Duration

	// EntityTypes lists the entity types that may be imported.
	EntityTypes []string
}

// Orchestrator owns one import job slot per entity type. Start claims a slot
// and drives the fetch, reconcile, persist loop on its own goroutine; Status
// is a non-blocking read of the slot's progress.
type Orchestrator struct {
	fetcher    Fetcher
	upserter   Upserter
	categories CategoryLookup
	cfg        Config
	logger     *zap.Logger

	// base is the lifetime context for run loops; cancelling it interrupts
	// in-flight runs between items.
	base context.Context

	mu   sync.Mutex
	jobs map[string]*tracker
}

func NewOrchestrator(base context.Context, fetcher Fetcher, upserter Upserter, categories CategoryLookup, cfg Config, logger *zap.Logger) *Orchestrator {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if len(cfg.EntityTypes) == 0 {
		cfg.EntityTypes = []string{"sales"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		fetcher:    fetcher,
		upserter:   upserter,
		categories: categories,
		cfg:        cfg,
		logger:     logger,
		base:       base,
		jobs:       make(map[string]*tracker),
	}
}

// Start claims the entity type's job slot and spawns the run loop. It returns
// before any work happens. A second call while the slot is running gets
// importjob.ErrAlreadyRunning and causes no side effects.
func (o *Orchestrator) Start(entityType string) (string, error) {
	if !o.supported(entityType) {
		return "", importjob.ErrUnsupportedEntityType
	}

	t := o.trackerFor(entityType)
	runID := uuid.NewString()
	if !t.begin(runID) {
		return "", importjob.ErrAlreadyRunning
	}

	o.logger.Info("import started",
		zap.String("entity_type", entityType),
		zap.String("run_id", runID),
	)
	go o.run(entityType, runID, t)
	return runID, nil
}

// Status reports the current job snapshot for an entity type. It never
// blocks and returns an idle snapshot when no job ever ran.
func (o *Orchestrator) Status(entityType string) importjob.Snapshot {
	o.mu.Lock()
	t, ok := o.jobs[entityType]
	o.mu.Unlock()

	if !ok {
		return importjob.Snapshot{EntityType: entityType, State: importjob.StateIdle}
	}
	return t.snapshot()
}

func (o *Orchestrator) supported(entityType string) bool {
	for _, candidate := range o.cfg.EntityTypes {
		if candidate == entityType {
			return true
		}
	}
	return false
}

func (o *Orchestrator) trackerFor(entityType string) *tracker {
	o.mu.Lock()
	defer o.mu.Unlock()

	t, ok := o.jobs[entityType]
	if !ok {
		t = newTracker(entityType)
		o.jobs[entityType] = t
	}
	return t
}

func (o *Orchestrator) run(entityType, runID string, t *tracker) {
	log := o.logger.With(
		zap.String("entity_type", entityType),
		zap.String("run_id", runID),
	)

	names, err := o.loadCategories()
	if err != nil {
		log.Error("category reference load failed", zap.Error(err))
		t.fail(fmt.Sprintf("load category references: %v", err))
		return
	}
	resolver := sale.NewResolver(names)

	cursor := ""
	for {
		if err := o.base.Err(); err != nil {
			log.Warn("import interrupted", zap.Error(err))
			t.fail("import interrupted by shutdown")
			return
		}

		page, err := o.fetchPage(cursor)
		if err != nil {
			log.Error("page fetch failed", zap.String("cursor", cursor), zap.Error(err))
			t.fail(err.Error())
			return
		}
		if page.Total > 0 {
			t.setTotal(page.Total)
		}
		log.Debug("page fetched",
			zap.String("cursor", cursor),
			zap.Int("sales", len(page.Sales)),
		)

		for _, raw := range page.Sales {
			o.processSale(raw, resolver, t, log)
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	t.complete()
	snap := t.snapshot()
	log.Info("import completed",
		zap.Int("processed", snap.Processed),
		zap.Int("succeeded", snap.Succeeded),
		zap.Int("failed", snap.Failed),
		zap.Int("unresolved_categories", snap.UnresolvedCategories),
	)
}

func (o *Orchestrator) processSale(raw sale.RawSale, resolver *sale.Resolver, t *tracker, log *zap.Logger) {
	record, items, err := o.reconcile(raw, resolver, t, log)
	if err != nil {
		log.Warn("sale skipped",
			zap.String("external_id", raw.ExternalID),
			zap.Error(err),
		)
		t.failure(raw.ExternalID, err.Error())
		return
	}

	if err := o.upsertWithRetry(record, items); err != nil {
		log.Warn("sale persistence failed",
			zap.String("external_id", raw.ExternalID),
			zap.Error(err),
		)
		t.failure(raw.ExternalID, err.Error())
		return
	}

	t.success()
}

// reconcile turns a raw marketplace sale into the persistable record,
// computing the financial breakdown and resolving category names.
func (o *Orchestrator) reconcile(raw sale.RawSale, resolver *sale.Resolver, t *tracker, log *zap.Logger) (sale.SaleRecord, []sale.SaleItem, error) {
	if raw.ExternalID == "" {
		return sale.SaleRecord{}, nil, sale.ErrEmptyExternalID
	}

	gross, err := sale.ParseAmount(raw.GrossValue)
	if err != nil {
		return sale.SaleRecord{}, nil, fmt.Errorf("gross value %q: %w", raw.GrossValue, err)
	}
	fee, err := sale.ParseOptionalAmount(raw.PlatformFee)
	if err != nil {
		return sale.SaleRecord{}, nil, fmt.Errorf("platform fee %q: %w", raw.PlatformFee, err)
	}
	shipping, err := sale.ParseOptionalAmount(raw.ShippingTotal)
	if err != nil {
		return sale.SaleRecord{}, nil, fmt.Errorf("shipping total %q: %w", raw.ShippingTotal, err)
	}

	breakdown, err := sale.ComputeBreakdown(gross, fee, shipping, o.cfg.FeeRate)
	if err != nil {
		return sale.SaleRecord{}, nil, fmt.Errorf("gross value %q: %w", raw.GrossValue, err)
	}

	items := make([]sale.SaleItem, 0, len(raw.Items))
	for position, rawItem := range raw.Items {
		name, known := resolver.Resolve(rawItem.CategoryCode)
		if !known {
			t.unresolvedCategory()
			log.Debug("category code without reference",
				zap.String("external_id", raw.ExternalID),
				zap.String("category_code", rawItem.CategoryCode),
			)
		}

		unitPrice, err := sale.ParseOptionalAmount(rawItem.UnitPrice)
		if err != nil {
			return sale.SaleRecord{}, nil, fmt.Errorf("item %d unit price %q: %w", position, rawItem.UnitPrice, err)
		}

		items = append(items, sale.SaleItem{
			Position:     position,
			ProductRef:   rawItem.ProductRef,
			CategoryCode: rawItem.CategoryCode,
			CategoryName: name,
			Quantity:     rawItem.Quantity,
			UnitPrice:    unitPrice,
			Financials:   breakdown,
		})
	}

	record := sale.SaleRecord{
		ExternalID:    raw.ExternalID,
		BuyerRef:      raw.BuyerRef,
		GrossValue:    gross,
		PlatformFee:   fee,
		ShippingTotal: shipping,
		ApprovedAt:    raw.ApprovedAt,
		Observation:   raw.Observation,
	}
	return record, items, nil
}

func (o *Orchestrator) loadCategories() (map[string]string, error) {
	ctx, cancel := context.WithTimeout(o.base, o.cfg.CallTimeout)
	defer cancel()
	return o.categories.LoadAll(ctx)
}

func (o *Orchestrator) fetchPage(cursor string) (sale.Page, error) {
	ctx, cancel := context.WithTimeout(o.base, o.cfg.CallTimeout)
	defer cancel()
	return o.fetcher.NextPage(ctx, cursor)
}

// upsertWithRetry gives the store a single second chance before the sale is
// counted as an error. Persistence failures never abort the run.
func (o *Orchestrator) upsertWithRetry(record sale.SaleRecord, items []sale.SaleItem) error {
	if err := o.upsert(record, items); err == nil {
		return nil
	}

	if err := o.upsert(record, items); err != nil {
		return fmt.Errorf("upsert after retry: %w", err)
	}
	return nil
}

func (o *Orchestrator) upsert(record sale.SaleRecord, items []sale.SaleItem) error {
	ctx, cancel := context.WithTimeout(o.base, o.cfg.CallTimeout)
	defer cancel()
	return o.upserter.Upsert(ctx, record, items)
}

// Package worker holds the background jobs of the forwarding service: the
// periodic Elasticsearch reindex of recently updated shipments and the
// reconciliation that recomputes accounting entry totals from their charge
// lines.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/internal/metrics"
	"example.com/freightdesk/services/forwarding/internal/repositories"
	"example.com/freightdesk/services/forwarding/internal/rules"
	"example.com/freightdesk/services/forwarding/internal/search"
)

// reindexBatchSize bounds one reindex pass.
const reindexBatchSize = 500

// Reconciler runs the periodic maintenance jobs.
type Reconciler struct {
	jobs    *repositories.JobRepository
	houses  *repositories.HouseRepository
	entries *repositories.AccountingEntryRepository
	elastic *search.ElasticClient
	metrics *metrics.Metrics

	mu        sync.Mutex
	lastIndex time.Time
}

// NewReconciler creates a new reconciler
func NewReconciler(jobs *repositories.JobRepository, houses *repositories.HouseRepository, entries *repositories.AccountingEntryRepository, elastic *search.ElasticClient, m *metrics.Metrics) *Reconciler {
	return &Reconciler{
		jobs:    jobs,
		houses:  houses,
		entries: entries,
		elastic: elastic,
		metrics: m,
	}
}

// ReindexShipments pushes jobs and house bills updated since the previous run
// into the shipment index. Document IDs are entity IDs, so re-running over
// the same rows is harmless.
func (r *Reconciler) ReindexShipments(ctx context.Context) error {
	if r.elastic == nil {
		return nil
	}

	r.mu.Lock()
	since := r.lastIndex
	runStart := time.Now()
	r.mu.Unlock()

	jobs, err := r.jobs.ListUpdatedSince(ctx, since, reindexBatchSize)
	if err != nil {
		r.metrics.RecordError("worker.reindex")
		return errors.Wrap(err, "failed to load updated jobs")
	}
	houses, err := r.houses.ListUpdatedSince(ctx, since, reindexBatchSize)
	if err != nil {
		r.metrics.RecordError("worker.reindex")
		return errors.Wrap(err, "failed to load updated houses")
	}

	indexed := 0
	for i := range jobs {
		if err := r.elastic.IndexJob(ctx, &jobs[i]); err != nil {
			log.Warn().Err(err).Str("job_no", jobs[i].JobNo).Msg("Failed to index job")
			continue
		}
		indexed++
	}
	for i := range houses {
		if err := r.elastic.IndexHouse(ctx, &houses[i]); err != nil {
			log.Warn().Err(err).Str("hawb_no", houses[i].HawbNo).Msg("Failed to index house")
			continue
		}
		indexed++
	}

	r.mu.Lock()
	r.lastIndex = runStart
	r.mu.Unlock()

	r.metrics.RecordSuccess("worker.reindex")
	if indexed > 0 {
		log.Info().Int("indexed", indexed).Msg("Shipment reindex pass complete")
	}
	return nil
}

// ReconcileEntryTotals recomputes every entry's charge lines and totals and
// writes back the ones that drifted from their stored values.
func (r *Reconciler) ReconcileEntryTotals(ctx context.Context) error {
	entries, err := r.entries.ListAll(ctx, reindexBatchSize)
	if err != nil {
		r.metrics.RecordError("worker.reconcile_totals")
		return errors.Wrap(err, "failed to load accounting entries")
	}

	fixed := 0
	for i := range entries {
		entry := entries[i]
		stored := [3]float64{entry.SubTotal, entry.TaxTotal, entry.GrandTotal}
		rules.ComputeEntryTotals(&entry)
		if stored == [3]float64{entry.SubTotal, entry.TaxTotal, entry.GrandTotal} {
			continue
		}

		if err := r.entries.UpdateTotals(ctx, &entry); err != nil {
			log.Warn().Err(err).Str("invoice_no", entry.InvoiceNo).Msg("Failed to update entry totals")
			continue
		}
		fixed++
		log.Info().
			Str("invoice_no", entry.InvoiceNo).
			Float64("grand_total", entry.GrandTotal).
			Msg("Reconciled accounting entry totals")
	}

	r.metrics.RecordSuccess("worker.reconcile_totals")
	r.metrics.SetGauge("worker.totals_drift_fixed", int64(fixed))
	return nil
}

package stock

import (
	"fmt"

	"picking/internal/allocation"
	"picking/internal/repository"
	custom_error "picking/pkg/errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BundleRepository persists tracking bundles: the record grouping the exact
// serials or batches consumed by one outward movement.
type BundleRepository struct {
	db repository.Queryable
}

func NewBundleRepository(r *repository.Repository) *BundleRepository {
	return &BundleRepository{db: r.GoquDBWrapper}
}

func (r *BundleRepository) WithTx(tx *goqu.TxDatabase) *BundleRepository {
	return &BundleRepository{db: tx}
}

// BuildOutwardBundle creates a draft bundle for an outward movement and
// returns its reference. Drafts left unused by the allocation run are
// discarded when the pick list locations are replaced.
func (r *BundleRepository) BuildOutwardBundle(bundle allocation.OutwardBundle) (string, error) {
	name := "TB-" + uuid.NewString()

	var bundleID int
	insert := r.db.Insert("tracking_bundles").
		Rows(goqu.Record{
			"name":         name,
			"item_code":    bundle.ItemCode,
			"warehouse":    bundle.Warehouse,
			"total_qty":    bundle.Qty.Neg(),
			"transaction":  "Outward",
			"voucher_type": "Pick List",
			"company":      bundle.Company,
			"is_draft":     true,
		}).
		Returning("id")

	if _, err := insert.Executor().ScanVal(&bundleID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return "", custom_error.WrapDBError("Duplicate tracking bundle", string(pqErr.Code))
		}
		return "", fmt.Errorf("failed to insert tracking bundle record: %w", err)
	}

	var entries []interface{}
	for _, serialNo := range bundle.SerialNos {
		entries = append(entries, goqu.Record{
			"bundle_id": bundleID,
			"serial_no": serialNo,
			"qty":       -1,
		})
	}
	for batchNo, qty := range bundle.Batches {
		entries = append(entries, goqu.Record{
			"bundle_id": bundleID,
			"batch_no":  batchNo,
			"qty":       qty.Neg(),
		})
	}

	if len(entries) > 0 {
		if _, err := r.db.Insert("tracking_bundle_entries").Rows(entries...).Executor().Exec(); err != nil {
			return "", fmt.Errorf("failed to insert tracking bundle entries: %w", err)
		}
	}

	return name, nil
}

// SubmitBundles marks draft bundles as submitted when their pick list is.
func (r *BundleRepository) SubmitBundles(tx *goqu.TxDatabase, refs []string) error {
	if len(refs) == 0 {
		return nil
	}

	query := tx.Update("tracking_bundles").
		Set(goqu.Record{"is_draft": false}).
		Where(goqu.C("name").In(refs))

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to submit tracking bundles: %w", err)
	}

	return nil
}

// DelinkBundles cancels the bundles of a cancelled pick list and clears
// their voucher reference.
func (r *BundleRepository) DelinkBundles(tx *goqu.TxDatabase, refs []string) error {
	if len(refs) == 0 {
		return nil
	}

	query := tx.Update("tracking_bundles").
		Set(goqu.Record{"is_cancelled": true, "voucher_no": ""}).
		Where(goqu.C("name").In(refs))

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to delink tracking bundles: %w", err)
	}

	return nil
}

// DeleteDraftBundles removes draft bundles that were speculatively built
// for rows replaced by a newer allocation run.
func (r *BundleRepository) DeleteDraftBundles(tx *goqu.TxDatabase, refs []string) error {
	if len(refs) == 0 {
		return nil
	}

	deleteEntries := tx.Delete("tracking_bundle_entries").
		Where(goqu.C("bundle_id").In(
			tx.From("tracking_bundles").Select("id").
				Where(goqu.C("name").In(refs), goqu.C("is_draft").IsTrue()),
		))
	if _, err := deleteEntries.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to remove draft tracking bundle entries: %w", err)
	}

	deleteBundles := tx.Delete("tracking_bundles").
		Where(goqu.C("name").In(refs), goqu.C("is_draft").IsTrue())
	if _, err := deleteBundles.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to remove draft tracking bundles: %w", err)
	}

	return nil
}

package picklist

import (
	"picking/internal/allocation"
	"picking/internal/items"
	"picking/internal/repository"
	"picking/internal/stock"
	custom_error "picking/pkg/errors"
	"picking/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PickListService drives the pick list lifecycle: create, reallocate,
// submit, cancel. Every state change runs in a single transaction so the
// locking reads of the allocation engine cover the writes they protect.
type PickListService struct {
	repo       *repository.Repository
	pickLists  *PickListRepository
	stock      *stock.StockRepository
	bundles    *stock.BundleRepository
	warehouses *stock.WarehouseRepository
	items      *items.ItemRepository
	cfg        allocation.Config
	log        *zap.Logger
}

func NewPickListService(
	repo *repository.Repository,
	pickLists *PickListRepository,
	stockRepo *stock.StockRepository,
	bundles *stock.BundleRepository,
	warehouses *stock.WarehouseRepository,
	itemRepo *items.ItemRepository,
	cfg allocation.Config,
	log *zap.Logger,
) *PickListService {
	return &PickListService{
		repo:       repo,
		pickLists:  pickLists,
		stock:      stockRepo,
		bundles:    bundles,
		warehouses: warehouses,
		items:      itemRepo,
		cfg:        cfg,
		log:        log,
	}
}

func (s *PickListService) CreatePickList(request CreatePickListRequest) (*models.PickList, []allocation.Diagnostic, error) {
	pickList := &models.PickList{
		Name:            "PICK-" + uuid.NewString(),
		Company:         request.Company,
		Purpose:         request.Purpose,
		ParentWarehouse: request.ParentWarehouse,
		ForQty:          request.ForQty,
		ScanMode:        request.ScanMode,
		Status:          models.StatusDraft,
	}
	if pickList.Purpose == "" {
		pickList.Purpose = models.PurposeDelivery
	}

	if err := s.validateForQty(pickList); err != nil {
		return nil, nil, err
	}

	lines := request.toLines()

	var diagnostics []allocation.Diagnostic
	err := repository.WithTransaction(s.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		id, err := s.pickLists.WithTx(tx).Insert(pickList)
		if err != nil {
			return err
		}
		pickList.ID = id

		diagnostics, err = s.allocate(tx, pickList, lines)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return pickList, diagnostics, nil
}

func (s *PickListService) GetPickList(id int) (*models.PickList, error) {
	return s.pickLists.GetPickList(id)
}

func (s *PickListService) GetPickListsBy(conditions repository.QueryBuilder) ([]models.PickList, error) {
	return s.pickLists.GetPickListsBy(conditions)
}

// RecomputeLocations reruns the allocation for an existing pick list,
// rebuilding its locations from the currently stored requirement rows.
func (s *PickListService) RecomputeLocations(id int) (*models.PickList, []allocation.Diagnostic, error) {
	pickList, err := s.pickLists.GetPickList(id)
	if err != nil {
		return nil, nil, err
	}
	if pickList.Status == models.StatusCancelled {
		return nil, nil, custom_error.NewValidationError("pick list %s is cancelled", pickList.Name)
	}

	lines := linesFromLocations(pickList.Locations)

	var diagnostics []allocation.Diagnostic
	err = repository.WithTransaction(s.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		diagnostics, err = s.allocate(tx, pickList, lines)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return pickList, diagnostics, nil
}

// Submit finalizes a draft pick list: picked quantities default to the
// allocated stock, tracking bundles are submitted and the referenced order
// rows are updated.
func (s *PickListService) Submit(id int) (*models.PickList, error) {
	pickList, err := s.pickLists.GetPickList(id)
	if err != nil {
		return nil, err
	}
	if pickList.Status != models.StatusDraft {
		return nil, custom_error.NewValidationError("pick list %s is already submitted", pickList.Name)
	}

	if err := s.applyPickedDefaults(pickList); err != nil {
		return nil, err
	}

	err = repository.WithTransaction(s.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		pickLists := s.pickLists.WithTx(tx)

		if err := pickLists.ReplaceLocations(pickList.ID, pickList.Locations); err != nil {
			return err
		}
		if err := s.bundles.WithTx(tx).SubmitBundles(tx, bundleRefs(pickList.Locations)); err != nil {
			return err
		}
		// the rollup only counts submitted pick lists, so flip the status first
		if err := pickLists.UpdateStatus(pickList.ID, models.StatusOpen); err != nil {
			return err
		}
		return s.updateReferenceQty(pickLists, pickList, 1)
	})
	if err != nil {
		return nil, err
	}

	pickList.Status = models.StatusOpen
	s.log.Info("pick list submitted",
		zap.String("name", pickList.Name),
		zap.Int("locations", len(pickList.Locations)))

	return pickList, nil
}

// Cancel voids a submitted pick list, releasing its claims and rolling back
// the picked quantities on the referenced order rows.
func (s *PickListService) Cancel(id int) (*models.PickList, error) {
	pickList, err := s.pickLists.GetPickList(id)
	if err != nil {
		return nil, err
	}
	if pickList.Status == models.StatusCancelled {
		return nil, custom_error.NewValidationError("pick list %s is already cancelled", pickList.Name)
	}

	err = repository.WithTransaction(s.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		pickLists := s.pickLists.WithTx(tx)

		if err := pickLists.UpdateStatus(pickList.ID, models.StatusCancelled); err != nil {
			return err
		}
		if pickList.IsFinal() {
			if err := s.updateReferenceQty(pickLists, pickList, -1); err != nil {
				return err
			}
		}
		return s.bundles.WithTx(tx).DelinkBundles(tx, bundleRefs(pickList.Locations))
	})
	if err != nil {
		return nil, err
	}

	pickList.Status = models.StatusCancelled
	s.log.Info("pick list cancelled", zap.String("name", pickList.Name))

	return pickList, nil
}

// GroupSimilarItems collapses rows of the same item and warehouse into one,
// for print layouts that do not care about batch or serial detail.
func GroupSimilarItems(locations []models.ResultLocation) []models.ResultLocation {
	type groupKey struct {
		itemCode  string
		warehouse string
	}

	indexByKey := map[groupKey]int{}
	var grouped []models.ResultLocation
	for _, location := range locations {
		key := groupKey{itemCode: location.ItemCode, warehouse: location.Warehouse}
		if i, ok := indexByKey[key]; ok {
			grouped[i].Qty = grouped[i].Qty.Add(location.Qty)
			grouped[i].StockQty = grouped[i].StockQty.Add(location.StockQty)
			grouped[i].PickedQty = grouped[i].PickedQty.Add(location.PickedQty)
			continue
		}
		indexByKey[key] = len(grouped)
		row := location
		row.BatchNo = ""
		row.SerialNo = ""
		grouped = append(grouped, row)
	}

	return grouped
}

func (s *PickListService) allocate(tx *goqu.TxDatabase, pickList *models.PickList, lines []models.RequirementLine) ([]allocation.Diagnostic, error) {
	var fromWarehouses []string
	if pickList.ParentWarehouse != "" {
		descendants, err := s.warehouses.Descendants(pickList.ParentWarehouse)
		if err != nil {
			return nil, err
		}
		fromWarehouses = descendants
	}

	pickLists := s.pickLists.WithTx(tx)

	// draft bundles built for the rows being replaced are now orphaned
	previous, err := pickLists.GetLocations(pickList.ID)
	if err != nil {
		return nil, err
	}
	if err := s.bundles.WithTx(tx).DeleteDraftBundles(tx, bundleRefs(previous)); err != nil {
		return nil, err
	}

	engine := allocation.NewEngine(
		s.stock.WithTx(tx),
		s.bundles.WithTx(tx),
		pickLists,
		s.items.WithTx(tx),
		s.cfg,
		s.log,
	)

	out, err := engine.ComputeAllocation(allocation.Input{
		Lines:          lines,
		FromWarehouses: fromWarehouses,
		Company:        pickList.Company,
		PickListName:   pickList.Name,
		DocFinal:       pickList.IsFinal(),
	})
	if err != nil {
		return nil, err
	}

	if err := pickLists.ReplaceLocations(pickList.ID, out.Locations); err != nil {
		return nil, err
	}
	pickList.Locations = out.Locations

	return out.Diagnostics, nil
}

// applyPickedDefaults fills unpicked rows with their allocated stock qty.
// In scan mode nothing is assumed: every row must have been scanned in
// full before submission.
func (s *PickListService) applyPickedDefaults(pickList *models.PickList) error {
	for i := range pickList.Locations {
		location := &pickList.Locations[i]
		if pickList.ScanMode {
			if location.PickedQty.LessThan(location.StockQty) {
				return custom_error.NewValidationError(
					"row #%d: picked qty %s does not match stock qty %s for item %s, scan the remaining stock",
					i+1, location.PickedQty.String(), location.StockQty.String(), location.ItemCode)
			}
			continue
		}
		if location.PickedQty.IsZero() {
			location.PickedQty = location.StockQty
		}
	}
	return nil
}

// updateReferenceQty rolls the picked quantities of this pick list up to
// the order rows it references. Bundle parents move by whole bundles
// derived from their cheapest fully picked component.
func (s *PickListService) updateReferenceQty(pickLists *PickListRepository, pickList *models.PickList, direction int) error {
	bundleRefSet := map[string]bool{}
	orderRefSet := map[string]bool{}
	for _, location := range pickList.Locations {
		if location.BundleItem != "" {
			bundleRefSet[location.BundleItem] = true
		} else if location.OrderItem != "" {
			orderRefSet[location.OrderItem] = true
		}
	}

	if len(bundleRefSet) > 0 {
		refs := make([]string, 0, len(bundleRefSet))
		for ref := range bundleRefSet {
			refs = append(refs, ref)
		}

		itemCodes, err := pickLists.GetOrderItemCodes(refs)
		if err != nil {
			return err
		}

		bundleMaps := map[string]models.BundleComponentMap{}
		for ref, itemCode := range itemCodes {
			components, err := s.items.BundleComponents(itemCode)
			if err != nil {
				return err
			}
			bundleMaps[ref] = components
		}

		deltas := allocation.ComputeBundleDelta(pickList.Locations, bundleMaps, direction, s.cfg.QtyPrecision)
		for ref, delta := range deltas {
			if delta == 0 {
				continue
			}
			if err := pickLists.IncrementOrderItemPicked(ref, delta); err != nil {
				return err
			}
		}
	}

	if len(orderRefSet) == 0 {
		return nil
	}

	refs := make([]string, 0, len(orderRefSet))
	for ref := range orderRefSet {
		refs = append(refs, ref)
	}

	totals, err := pickLists.PickedTotalsByOrderItem(refs)
	if err != nil {
		return err
	}

	factor := decimal.NewFromInt(1).Add(s.cfg.AllowancePercent.Div(decimal.NewFromInt(100)))
	for _, total := range totals {
		if direction > 0 && total.StockQty.IsPositive() {
			if total.PickedQty.GreaterThan(total.StockQty.Mul(factor)) {
				return &custom_error.OverAllocationError{
					ItemCode:  total.ItemCode,
					Reference: total.OrderItem,
					PickedQty: total.PickedQty,
					LimitQty:  total.StockQty.Mul(factor),
				}
			}
		}
		if err := pickLists.SetOrderItemPicked(total.OrderItem, total.PickedQty); err != nil {
			return err
		}
	}

	return nil
}

func (s *PickListService) validateForQty(pickList *models.PickList) error {
	if pickList.Purpose == models.PurposeManufacture && !pickList.ForQty.IsPositive() {
		return custom_error.NewValidationError("qty of finished goods item should be greater than 0")
	}
	return nil
}

func bundleRefs(locations []models.ResultLocation) []string {
	var refs []string
	for _, location := range locations {
		if location.BundleRef != "" {
			refs = append(refs, location.BundleRef)
		}
	}
	return refs
}

func linesFromLocations(locations []models.ResultLocation) []models.RequirementLine {
	lines := make([]models.RequirementLine, 0, len(locations))
	for _, location := range locations {
		lines = append(lines, models.RequirementLine{
			ItemCode:         location.ItemCode,
			UOM:              location.UOM,
			StockUOM:         location.StockUOM,
			ConversionFactor: location.ConversionFactor,
			Qty:              location.Qty,
			StockQty:         location.StockQty,
			PickedQty:        location.PickedQty,
			Warehouse:        location.Warehouse,
			BatchNo:          location.BatchNo,
			SerialNo:         location.SerialNo,
			OrderItem:        location.OrderItem,
			RequestItem:      location.RequestItem,
			BundleItem:       location.BundleItem,
		})
	}
	return lines
}

package allocation

import (
	"fmt"

	"picking/pkg/models"

	"github.com/shopspring/decimal"
)

// providerResult carries the candidate queue content for one item together
// with the quantity that was available before the already-picked discount,
// so the engine can tell "not enough stock" from "stock taken by others".
type providerResult struct {
	candidates   []models.LocationCandidate
	availableQty decimal.Decimal
}

// candidateProvider enumerates available stock for one tracking type.
// Implementations return candidates in stock creation order (FIFO) with the
// already-picked discount applied.
type candidateProvider interface {
	candidates(item models.ItemInfo, warehouses []string, company string, requiredQty decimal.Decimal, claims models.ItemClaims) (providerResult, error)
}

// fetchLimit caps the stock read at the required quantity plus whatever other
// pick lists already claimed. An optimization, not a correctness requirement.
func fetchLimit(requiredQty, claimedQty decimal.Decimal) int {
	limit := requiredQty.Add(claimedQty).Ceil().IntPart()
	if limit < 0 {
		return 0
	}
	return int(limit)
}

type serializedProvider struct {
	stock   StockReader
	bundles BundleBuilder
}

func (p *serializedProvider) candidates(item models.ItemInfo, warehouses []string, company string, requiredQty decimal.Decimal, claims models.ItemClaims) (providerResult, error) {
	limit := fetchLimit(requiredQty, claims.TotalPicked())
	records, err := p.stock.SerialNumbers(item.Code, warehouses, company, limit)
	if err != nil {
		return providerResult{}, fmt.Errorf("failed to fetch serial numbers for %s: %w", item.Code, err)
	}

	available := decimal.NewFromInt(int64(len(records)))
	if available.GreaterThan(requiredQty) {
		available = requiredQty
	}

	// Group serials per warehouse, oldest first, skipping serials consumed
	// by other open pick lists, until the requirement is covered.
	remaining := requiredQty
	warehouseOrder := []string{}
	serialsByWarehouse := map[string][]string{}
	for _, record := range records {
		if !remaining.IsPositive() {
			break
		}
		if claims.HasSerialNo(record.SerialNo) {
			continue
		}
		if _, seen := serialsByWarehouse[record.Warehouse]; !seen {
			warehouseOrder = append(warehouseOrder, record.Warehouse)
		}
		serialsByWarehouse[record.Warehouse] = append(serialsByWarehouse[record.Warehouse], record.SerialNo)
		remaining = remaining.Sub(decimal.NewFromInt(1))
	}

	result := providerResult{availableQty: available}
	for _, warehouse := range warehouseOrder {
		serialNos := serialsByWarehouse[warehouse]
		qty := decimal.NewFromInt(int64(len(serialNos)))

		bundleRef, err := p.bundles.BuildOutwardBundle(OutwardBundle{
			ItemCode:  item.Code,
			Warehouse: warehouse,
			Qty:       qty,
			SerialNos: serialNos,
			Company:   company,
		})
		if err != nil {
			return providerResult{}, fmt.Errorf("failed to build tracking bundle for %s at %s: %w", item.Code, warehouse, err)
		}

		result.candidates = append(result.candidates, models.LocationCandidate{
			Warehouse: warehouse,
			Qty:       qty,
			SerialNos: serialNos,
			BundleRef: bundleRef,
		})
	}

	return result, nil
}

type batchedProvider struct {
	stock   StockReader
	bundles BundleBuilder
}

func (p *batchedProvider) candidates(item models.ItemInfo, warehouses []string, company string, requiredQty decimal.Decimal, claims models.ItemClaims) (providerResult, error) {
	limit := fetchLimit(requiredQty, claims.TotalPicked())
	records, err := p.stock.BatchQuantities(item.Code, warehouses, company, limit)
	if err != nil {
		return providerResult{}, fmt.Errorf("failed to fetch batch quantities for %s: %w", item.Code, err)
	}

	available := decimal.Zero
	warehouseOrder := []string{}
	batchesByWarehouse := map[string]map[string]decimal.Decimal{}
	for _, record := range records {
		available = available.Add(record.Qty)
		if _, seen := batchesByWarehouse[record.Warehouse]; !seen {
			warehouseOrder = append(warehouseOrder, record.Warehouse)
			batchesByWarehouse[record.Warehouse] = map[string]decimal.Decimal{}
		}
		batches := batchesByWarehouse[record.Warehouse]
		batches[record.BatchNo] = batches[record.BatchNo].Add(record.Qty)
	}

	result := providerResult{availableQty: available}
	for _, warehouse := range warehouseOrder {
		batches := batchesByWarehouse[warehouse]
		qty := decimal.Zero
		for batchNo := range batches {
			claimed := claims[models.ClaimKey{Warehouse: warehouse, BatchNo: batchNo}].PickedQty
			left := batches[batchNo].Sub(claimed)
			if !left.IsPositive() {
				delete(batches, batchNo)
				continue
			}
			batches[batchNo] = left
			qty = qty.Add(left)
		}
		if len(claims) > 0 && qty.LessThan(decimal.NewFromInt(1)) {
			continue
		}
		if !qty.IsPositive() {
			continue
		}

		bundleRef, err := p.bundles.BuildOutwardBundle(OutwardBundle{
			ItemCode:  item.Code,
			Warehouse: warehouse,
			Qty:       qty,
			Batches:   batches,
			Company:   company,
		})
		if err != nil {
			return providerResult{}, fmt.Errorf("failed to build tracking bundle for %s at %s: %w", item.Code, warehouse, err)
		}

		result.candidates = append(result.candidates, models.LocationCandidate{
			Warehouse: warehouse,
			Qty:       qty,
			Batches:   batches,
			BundleRef: bundleRef,
		})
	}

	return result, nil
}

type untrackedProvider struct {
	stock StockReader
}

func (p *untrackedProvider) candidates(item models.ItemInfo, warehouses []string, company string, requiredQty decimal.Decimal, claims models.ItemClaims) (providerResult, error) {
	limit := fetchLimit(requiredQty, claims.TotalPicked())
	records, err := p.stock.BinBalances(item.Code, warehouses, company, limit)
	if err != nil {
		return providerResult{}, fmt.Errorf("failed to fetch bin balances for %s: %w", item.Code, err)
	}

	result := providerResult{availableQty: decimal.Zero}
	for _, record := range records {
		result.availableQty = result.availableQty.Add(record.Qty)

		qty := record.Qty.Sub(claims[models.ClaimKey{Warehouse: record.Warehouse}].PickedQty)
		if len(claims) > 0 && qty.LessThan(decimal.NewFromInt(1)) {
			continue
		}
		if !qty.IsPositive() {
			continue
		}

		result.candidates = append(result.candidates, models.LocationCandidate{
			Warehouse: record.Warehouse,
			Qty:       qty,
		})
	}

	return result, nil
}

package stock

import (
	"fmt"

	"picking/internal/repository"
)

type WarehouseRepository struct {
	repository *repository.Repository
}

func NewWarehouseRepository(r *repository.Repository) *WarehouseRepository {
	return &WarehouseRepository{repository: r}
}

// Descendants walks the warehouse tree and returns every warehouse under
// the given parent, excluding the parent itself.
func (r *WarehouseRepository) Descendants(parentWarehouse string) ([]string, error) {
	query := `
		WITH RECURSIVE warehouse_tree AS (
			SELECT name, parent_warehouse FROM warehouses WHERE name = $1
			UNION ALL
			SELECT w.name, w.parent_warehouse
			FROM warehouses w
			INNER JOIN warehouse_tree t ON w.parent_warehouse = t.name
		)
		SELECT name FROM warehouse_tree WHERE name != $1
	`

	rows, err := r.repository.DB.Query(query, parentWarehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch descendants of warehouse %s: %w", parentWarehouse, err)
	}
	defer rows.Close()

	var warehouses []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse name: %w", err)
		}
		warehouses = append(warehouses, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read warehouse tree: %w", err)
	}

	return warehouses, nil
}

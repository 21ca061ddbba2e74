package container

import (
	"database/sql"
	"log"
	"os"

	"picking/internal/allocation"
	auditLogRepo "picking/internal/auditlog"
	"picking/internal/core/logger"
	"picking/internal/items"
	"picking/internal/picklist"
	"picking/internal/repository"
	"picking/internal/stock"
	"picking/pkg/auditlog"

	"github.com/shopspring/decimal"
)

type Container struct {
	Repository      *repository.Repository
	AuditLog        *auditlog.Auditlog
	AuditLogs       *auditLogRepo.AuditLogRepository
	PickListService *picklist.PickListService
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	auditLogs := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditLogs)

	pickListRepo := picklist.NewRepository(repo)
	stockRepo := stock.NewRepository(repo)
	bundleRepo := stock.NewBundleRepository(repo)
	warehouseRepo := stock.NewWarehouseRepository(repo)
	itemRepo := items.NewRepository(repo)

	pickListService := picklist.NewPickListService(
		repo,
		pickListRepo,
		stockRepo,
		bundleRepo,
		warehouseRepo,
		itemRepo,
		allocationConfig(),
		logger.NewLogger(),
	)

	return &Container{
		Repository:      repo,
		AuditLog:        auditLog,
		AuditLogs:       auditLogs,
		PickListService: pickListService,
	}
}

func allocationConfig() allocation.Config {
	cfg := allocation.Config{}

	if allowance := os.Getenv("OVER_PICKING_ALLOWANCE"); allowance != "" {
		parsed, err := decimal.NewFromString(allowance)
		if err != nil {
			log.Printf("Warning: invalid OVER_PICKING_ALLOWANCE %q, using 0.\n", allowance)
		} else {
			cfg.AllowancePercent = parsed
		}
	}

	return cfg
}

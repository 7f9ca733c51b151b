package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/saebakery/backend/internal/infrastructure/config"
	"github.com/saebakery/backend/internal/infrastructure/logger"
	"github.com/saebakery/backend/internal/infrastructure/persistence"
)

// reprice corrects the unit cost of an existing ledger batch in place.
// Consumptions already drawn from the batch keep the cost they were charged
// at; only the remaining quantity is revalued. Use after a data-entry mistake
// on a purchase receipt.
func main() {
	var (
		batchIDStr  string
		unitCostStr string
		dryRun      bool
	)

	flag.StringVar(&batchIDStr, "batch", "", "Batch ID to reprice (required)")
	flag.StringVar(&unitCostStr, "unit-cost", "", "Corrected unit cost (required)")
	flag.BoolVar(&dryRun, "dry-run", false, "Show the change without applying it")
	flag.Parse()

	if batchIDStr == "" || unitCostStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: reprice -batch <uuid> -unit-cost <value> [-dry-run]")
		os.Exit(1)
	}

	batchID, err := uuid.Parse(batchIDStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid batch id: %v\n", err)
		os.Exit(1)
	}
	unitCost, err := decimal.NewFromString(unitCostStr)
	if err != nil || unitCost.IsNegative() {
		fmt.Fprintln(os.Stderr, "Unit cost must be a non-negative decimal")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	repo := persistence.NewGormBatchRepository(db.DB)

	batch, err := repo.FindByID(ctx, batchID)
	if err != nil {
		log.Fatal("Batch not found", zap.String("batch_id", batchID.String()), zap.Error(err))
	}

	oldValue := batch.RemainingValue()
	newValue := batch.QtyRemaining.Mul(unitCost)

	log.Info("Reprice batch",
		zap.String("batch_id", batch.ID.String()),
		zap.String("batch_label", batch.BatchLabel),
		zap.String("product_id", batch.ProductID.String()),
		zap.String("qty_remaining", batch.QtyRemaining.String()),
		zap.String("old_unit_cost", batch.UnitCost.String()),
		zap.String("new_unit_cost", unitCost.String()),
		zap.String("old_remaining_value", oldValue.String()),
		zap.String("new_remaining_value", newValue.String()),
		zap.Bool("dry_run", dryRun),
	)

	if dryRun {
		log.Info("Dry run, no change applied")
		return
	}

	batch.UnitCost = unitCost
	if err := repo.Save(ctx, batch); err != nil {
		log.Fatal("Failed to save batch", zap.Error(err))
	}
	log.Info("Batch repriced")
}

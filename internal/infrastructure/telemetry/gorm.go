package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// InstrumentGorm registers the otelgorm plugin on db and flags slow
// queries on their span and in the log
func InstrumentGorm(db *gorm.DB, dbName string, slowThreshold time.Duration, logger *zap.Logger) error {
	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName(dbName),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		slowQuery(tx, slowThreshold, logger)
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("shop:timing_create", before),
		cb.Query().Before("gorm:query").Register("shop:timing_query", before),
		cb.Update().Before("gorm:update").Register("shop:timing_update", before),
		cb.Delete().Before("gorm:delete").Register("shop:timing_delete", before),
		cb.Raw().Before("gorm:raw").Register("shop:timing_raw", before),
		cb.Create().After("gorm:create").Register("shop:slow_create", after),
		cb.Query().After("gorm:query").Register("shop:slow_query", after),
		cb.Update().After("gorm:update").Register("shop:slow_update", after),
		cb.Delete().After("gorm:delete").Register("shop:slow_delete", after),
		cb.Raw().After("gorm:raw").Register("shop:slow_raw", after),
	)
}

func slowQuery(tx *gorm.DB, threshold time.Duration, logger *zap.Logger) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) && span.IsRecording() {
		span.SetStatus(codes.Error, tx.Error.Error())
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed < threshold {
		return
	}
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
	logger.Warn("Slow query",
		zap.String("table", tx.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", tx.Statement.RowsAffected),
	)
}

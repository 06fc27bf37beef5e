package exporter

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "olistcli/internal/errors"
	"olistcli/internal/features"
)

const sqliteBatchSize = 500

// TrainingRowRecord is the persisted form of a training row
type TrainingRowRecord struct {
	ID                     uint    `gorm:"primaryKey;autoIncrement"`
	OrderID                string  `gorm:"column:order_id;index;not null"`
	WaitTime               float64 `gorm:"not null"`
	ExpectedWaitTime       float64 `gorm:"not null"`
	DelayVsExpected        float64 `gorm:"not null"`
	OrderStatus            string  `gorm:"not null"`
	DimIsFiveStar          int     `gorm:"not null"`
	DimIsOneStar           int     `gorm:"not null"`
	ReviewScore            int64   `gorm:"not null"`
	NumberOfProducts       int     `gorm:"not null"`
	NumberOfSellers        int     `gorm:"not null"`
	Price                  float64 `gorm:"not null"`
	FreightValue           float64 `gorm:"not null"`
	DistanceSellerCustomer *float64
}

// TableName overrides the gorm table name
func (TrainingRowRecord) TableName() string { return "training_rows" }

// SQLiteWriter stores the training table in a SQLite database
type SQLiteWriter struct {
	path   string
	db     *gorm.DB
	logger *slog.Logger
}

// NewSQLiteWriter creates a writer for the database file at path
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{path: path, logger: slog.Default()}
}

// NewSQLiteWriterWithDB writes through an already open connection
func NewSQLiteWriterWithDB(db *gorm.DB) *SQLiteWriter {
	return &SQLiteWriter{db: db, logger: slog.Default()}
}

func (w *SQLiteWriter) open() (*gorm.DB, func(), error) {
	if w.db != nil {
		return w.db, func() {}, nil
	}
	if _, err := outputs.PrepareOutput(w.path); err != nil {
		return nil, nil, apperrors.NewStorageError("failed to prepare output", err).WithContext("file", w.path)
	}
	db, err := gorm.Open(sqlite.Open(w.path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to open database", err).WithContext("file", w.path)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}

// Write replaces the contents of training_rows with table
func (w *SQLiteWriter) Write(ctx context.Context, table *features.TrainingTable) (Result, error) {
	start := time.Now()
	w.logger.InfoContext(ctx, "Writing SQLite table",
		slog.String("file_path", w.path),
		slog.String("table", TrainingRowRecord{}.TableName()),
		slog.Int("record_count", table.Len()))

	db, closeFn, err := w.open()
	if err != nil {
		return Result{}, err
	}
	defer closeFn()

	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&TrainingRowRecord{}); err != nil {
		return Result{}, apperrors.NewStorageError("failed to migrate training_rows", err)
	}

	records := toRecords(table)
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&TrainingRowRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, sqliteBatchSize).Error
	})
	if err != nil {
		return Result{}, apperrors.NewStorageError("failed to store training rows", err)
	}

	return Result{
		Format:      FormatSQLite,
		Path:        w.path,
		RecordCount: len(records),
		Duration:    time.Since(start),
	}, nil
}

func toRecords(table *features.TrainingTable) []TrainingRowRecord {
	out := make([]TrainingRowRecord, len(table.Rows))
	for i, r := range table.Rows {
		rec := TrainingRowRecord{
			OrderID:          r.OrderID,
			WaitTime:         r.WaitTime,
			ExpectedWaitTime: r.ExpectedWaitTime,
			DelayVsExpected:  r.DelayVsExpected,
			OrderStatus:      r.OrderStatus,
			DimIsFiveStar:    boolToInt(r.DimIsFiveStar),
			DimIsOneStar:     boolToInt(r.DimIsOneStar),
			ReviewScore:      r.ReviewScore,
			NumberOfProducts: r.NumberOfProducts,
			NumberOfSellers:  r.NumberOfSellers,
			Price:            r.Price,
			FreightValue:     r.FreightValue,
		}
		if table.WithDistance {
			d := r.DistanceSellerCustomer
			rec.DistanceSellerCustomer = &d
		}
		out[i] = rec
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

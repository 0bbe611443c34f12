package db

import (
	"fmt"
	"time"

	"restaurant/internal/config"
	"restaurant/internal/domain/model"
	"restaurant/internal/logging"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。SQLログはzapに流す
func Connect(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsDev() {
		level = logger.Info
	}

	gormLogger := logger.New(
		logging.StdLog(log, "gorm"),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := gdb.Exec(`SET TIME ZONE 'UTC'`).Error; err != nil {
		log.Warn("set_timezone_failed", zap.Error(err))
	}
	return gdb, nil
}

// Migrate はテーブルを作る。参照される側から順に
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Material{},
		&model.StockEntry{},
		&model.Food{},
		&model.FoodMaterial{},
		&model.Order{},
		&model.OrderedProduct{},
		&model.AuditLog{},
	)
}

// Close は接続プールを閉じる
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

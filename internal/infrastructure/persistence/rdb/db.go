// Package rdb 关系数据库仓储实现(GORM)，同一套代码支持MySQL与PostgreSQL
package rdb

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

// NewDB 创建数据库连接
//  1. 按database.driver选择方言
//  2. 配置连接池参数
//  3. 开发环境打印SQL，生产环境关闭
//  4. auto_migrate开启时自动迁移表结构
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector(cfg.Database), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now() },
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	logger.L().Info("数据库连接成功", "driver", cfg.Database.Driver, "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

	// 生产环境应使用版本化的迁移脚本
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

func dialector(cfg config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == "postgres" {
		return postgres.Open(cfg.DSN())
	}
	return mysql.Open(cfg.DSN())
}

// AutoMigrate 迁移表结构
// 顺序按外键依赖：被引用的表在前
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&ProfileModel{},
		&AuthorModel{},
		&CategoryModel{},
		&BookModel{},
		&LoanModel{},
	)
}

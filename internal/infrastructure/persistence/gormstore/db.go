package gormstore

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，驱动由storage.driver决定（mysql | sqlite）
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移books表
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// 把驱动的唯一索引冲突翻译成gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Storage.Driver == config.DriverSQLite {
		// SQLite同一时间只允许一个写连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("driver", cfg.Storage.Driver))

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.Database.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.Database.SQLitePath), nil
	default:
		return nil, fmt.Errorf("存储驱动%q不需要数据库连接", cfg.Storage.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&BookModel{}); err != nil {
		return err
	}
	if db.Dialector.Name() == "mysql" {
		return binaryTitleKey(db)
	}
	return nil
}

// titleKeyDDL title_key改为二进制排序规则
// MySQL 8默认utf8mb4_0900_ai_ci会把Café和Cafe、Straße和Strasse当成同一个值,
// 唯一索引必须和领域层的小写字节比较一致。SQLite默认就是BINARY,不需要处理
const titleKeyDDL = "ALTER TABLE `books` MODIFY `title_key` VARCHAR(150) " +
	"CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL COMMENT '小写书名(唯一)'"

// binaryTitleKey 每次启动都执行,已存在的表也会被修正
func binaryTitleKey(db *gorm.DB) error {
	if err := db.Exec(titleKeyDDL).Error; err != nil {
		return fmt.Errorf("修改title_key排序规则失败: %w", err)
	}
	return nil
}

// BookModel GORM图书模型
// 设计说明:
// 1. domain层的Book不带任何tag,由仓储负责两者转换
// 2. TitleKey保存小写书名并加唯一索引,作为书名查重在数据库层的兜底
// 3. 没有DeletedAt,删除是物理删除;主键自增,删除后的ID不会复用
type BookModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"size:100;not null;comment:书名"`
	TitleKey  string    `gorm:"uniqueIndex;size:150;not null;comment:小写书名(唯一)"`
	Author    string    `gorm:"index;size:100;not null;comment:作者"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

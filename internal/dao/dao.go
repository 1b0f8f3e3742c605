// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chronoverse/evcs/global"
	"github.com/chronoverse/evcs/pkg/fileurl"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Dao 数据访问容器
type Dao struct {
	db     *gorm.DB
	logger *zap.Logger
	prefix string

	// 迁移幂等控制，按表名记录
	migrated    sync.Map
	lockMigrate sync.Once
}

// New 创建 Dao 实例
func New(db *gorm.DB, lg *zap.Logger, tablePrefix string) *Dao {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Dao{db: db, logger: lg, prefix: tablePrefix}
}

// DB 获取底层数据库连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// Logger 获取日志器
func (d *Dao) Logger() *zap.Logger {
	return d.logger
}

// VersionTable 计算实体类型对应的版本表名
func (d *Dao) VersionTable(entityType string) string {
	return d.prefix + entityType + "_version"
}

// NewDBEngine 创建数据库引擎
// 支持 sqlite / mysql / postgres 三种类型
func NewDBEngine(c global.Database) (*gorm.DB, error) {

	dialector, err := dbDialector(c)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true, // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}
	if global.Config != nil && global.Config.Server.RunMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	}

	// 获取通用数据库对象 sql.DB，配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Minute * 10)

	return db, nil
}

func dbDialector(c global.Database) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		)), nil
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s",
			c.Host,
			c.UserName,
			c.Password,
			c.Name,
		)), nil
	case "sqlite":
		if c.Path != ":memory:" && !fileurl.IsExist(c.Path) {
			if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", c.Type)
}

// 时钟单调护栏，在微秒截断后保证相邻读数严格递增
// 同一微秒内落库的两次变更否则会关闭出 end == start 的零长度区间
var (
	clockMu sync.Mutex
	lastNow time.Time
)

// serverNow 获取存储层权威时钟
// 区间时间戳必须来自存储层时钟而非各调用方的本地时钟，
// 以保证并发与分布式调用方下的单调排序
// sqlite 为嵌入式存储，其服务端时钟即本进程时钟
func serverNow(ctx context.Context, db *gorm.DB) (time.Time, error) {
	var now time.Time
	switch db.Dialector.Name() {
	case "mysql":
		if err := db.WithContext(ctx).Raw("SELECT NOW(6)").Scan(&now).Error; err != nil {
			return time.Time{}, err
		}
	case "postgres":
		if err := db.WithContext(ctx).Raw("SELECT now()").Scan(&now).Error; err != nil {
			return time.Time{}, err
		}
	default:
		now = time.Now()
	}
	now = now.Truncate(time.Microsecond)

	clockMu.Lock()
	if !now.After(lastNow) {
		now = lastNow.Add(time.Microsecond)
	}
	lastNow = now
	clockMu.Unlock()
	return now, nil
}

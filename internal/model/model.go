// Package model 定义数据库行模型
package model

import (
	"time"

	"github.com/chronoverse/evcs/pkg/timex"

	"gorm.io/gorm"
)

// Version 版本记录行模型
// 每行一个不可变快照；行创建后唯一允许的修改是关闭开放区间端点
type Version struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`                      // 自增主键
	VersionID       string     `gorm:"column:version_id;type:varchar(36);uniqueIndex;not null"` // 快照唯一标识
	EntityID        string     `gorm:"column:entity_id;type:varchar(36);index:idx_entity_branch;not null"`  // 实体根ID
	Branch          string     `gorm:"column:branch;type:varchar(100);index:idx_entity_branch;not null"`    // 分支名称
	VersionSeq      int64      `gorm:"column:version_seq;not null;default:1"`                   // 分支内顺序号
	ValidTimeStart  time.Time  `gorm:"column:valid_time_start;index:idx_valid_range;not null"`  // 业务有效期开始
	ValidTimeEnd    *time.Time `gorm:"column:valid_time_end;index:idx_valid_range"`             // 业务有效期结束，NULL 表示开放
	TxTimeStart     time.Time  `gorm:"column:transaction_time_start;index:idx_tx_range;not null"` // 记录期开始
	TxTimeEnd       *time.Time `gorm:"column:transaction_time_end;index:idx_tx_range"`          // 记录期结束，NULL 表示开放
	DeletedAt       *time.Time `gorm:"column:deleted_at"`                                       // 软删除标记
	ParentID        *string    `gorm:"column:parent_id;type:varchar(36);index"`                 // 父版本ID（DAG 边）
	MergeFromBranch *string    `gorm:"column:merge_from_branch;type:varchar(100)"`              // 合并来源分支
	CreatedBy       string     `gorm:"column:created_by;type:varchar(191)"`                     // 操作者审计信息
	Payload         []byte     `gorm:"column:payload;type:blob"`                                // 实体负载（JSON）
}

// BranchLock 分支锁行模型
type BranchLock struct {
	ID       int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EntityID string    `gorm:"column:entity_id;type:varchar(36);uniqueIndex:idx_lock_entity_branch;not null"`
	Branch   string    `gorm:"column:branch;type:varchar(100);uniqueIndex:idx_lock_entity_branch;not null"`
	LockedBy string     `gorm:"column:locked_by;type:varchar(191)"`
	LockedAt timex.Time `gorm:"column:locked_at;type:datetime;not null"`
}

// TableName 分支锁表名
func (BranchLock) TableName() string {
	return "branch_lock"
}

// AutoMigrate 迁移指定实体类型的版本表
// 并为 sqlite / postgres 追加部分唯一索引，
// 强制不变式：每个 (entity_id, branch) 至多一行两端开放且未删除
func AutoMigrate(db *gorm.DB, table string) error {
	if err := db.Table(table).AutoMigrate(&Version{}); err != nil {
		return err
	}

	// mysql 不支持部分索引，该方言下唯一性仅由守卫更新保证
	switch db.Dialector.Name() {
	case "sqlite", "postgres":
		stmt := "CREATE UNIQUE INDEX IF NOT EXISTS uq_" + table + "_current ON " + table +
			" (entity_id, branch) WHERE valid_time_end IS NULL AND transaction_time_end IS NULL AND deleted_at IS NULL"
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// AutoMigrateLocks 迁移分支锁表
func AutoMigrateLocks(db *gorm.DB) error {
	return db.AutoMigrate(&BranchLock{})
}

package domain

import (
	"context"
	"time"
)

// VersionRepository 版本仓储接口（持久化协作者）
// 核心对存储层的全部要求：事务范围、服务端时钟、区间包含查询
// 行仅在关闭开放区间端点时被修改，其余一律追加
type VersionRepository interface {
	// Now 获取存储层权威时钟
	// 所有 valid_time / transaction_time 赋值必须源自该时钟，每事务调用一次
	Now(ctx context.Context) (time.Time, error)

	// GetCurrent 获取当前版本（两个维度开放且未删除），不存在时返回 nil
	GetCurrent(ctx context.Context, entityID, branch string) (*Version, error)

	// GetLatest 获取最新开放版本，包含软删除标记行，不存在时返回 nil
	GetLatest(ctx context.Context, entityID, branch string) (*Version, error)

	// GetByID 根据版本ID获取快照，不存在时返回 nil
	GetByID(ctx context.Context, versionID string) (*Version, error)

	// GetAsOf 时间旅行查询：获取业务有效期包含 at 时刻的版本
	GetAsOf(ctx context.Context, entityID, branch string, at time.Time) (*Version, error)

	// GetHistory 获取分支全部版本，按 valid_time_start 升序
	GetHistory(ctx context.Context, entityID, branch string) ([]*Version, error)

	// GetFirstOnBranch 获取分支上最早的版本（分叉点追溯用），不存在时返回 nil
	GetFirstOnBranch(ctx context.Context, entityID, branch string) (*Version, error)

	// ListBranches 枚举实体上存在开放版本的分支名
	ListBranches(ctx context.Context, entityID string) ([]string, error)

	// Insert 插入新版本行
	Insert(ctx context.Context, v *Version) error

	// Close 关闭版本的开放区间端点（valid_time_end 与 transaction_time_end）
	// 带守卫条件：仅当两端仍开放时生效；返回 false 表示已被并发写入者关闭
	Close(ctx context.Context, versionID string, at time.Time) (bool, error)

	// Transaction 在单个存储事务中执行 fn，fn 返回错误时整体回滚
	Transaction(ctx context.Context, fn func(repo VersionRepository) error) error
}

// LockChecker 分支锁谓词
// 由调用方提供，Update / MergeBranch 修改目标分支前咨询
type LockChecker interface {
	// IsLocked 判断实体分支是否被锁定
	IsLocked(ctx context.Context, entityID, branch string) (bool, error)
}

// BranchLockRepository 分支锁仓储接口
type BranchLockRepository interface {
	LockChecker

	// Lock 锁定分支，重复锁定返回已有锁信息
	Lock(ctx context.Context, entityID, branch, lockedBy string) (*BranchLock, error)

	// Unlock 解锁分支，未锁定时为空操作
	Unlock(ctx context.Context, entityID, branch string) error

	// Get 获取分支锁，未锁定时返回 nil
	Get(ctx context.Context, entityID, branch string) (*BranchLock, error)
}

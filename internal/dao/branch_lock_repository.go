package dao

import (
	"context"

	"github.com/chronoverse/evcs/internal/domain"
	"github.com/chronoverse/evcs/internal/model"
	"github.com/chronoverse/evcs/pkg/timex"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// branchLockRepository 实现 domain.BranchLockRepository 接口
// 锁是建议性标志，独立于版本模型存储
type branchLockRepository struct {
	dao *Dao
	db  *gorm.DB
}

// NewBranchLockRepository 创建分支锁仓储
func NewBranchLockRepository(d *Dao) (domain.BranchLockRepository, error) {
	var err error
	d.lockMigrate.Do(func() {
		err = model.AutoMigrateLocks(d.DB())
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "migrate branch lock table")
	}
	return &branchLockRepository{dao: d, db: d.DB()}, nil
}

// toDomain 将行模型转换为领域模型
func (r *branchLockRepository) toDomain(m *model.BranchLock) *domain.BranchLock {
	if m == nil {
		return nil
	}
	return &domain.BranchLock{
		ID:       m.ID,
		EntityID: m.EntityID,
		Branch:   m.Branch,
		LockedBy: m.LockedBy,
		LockedAt: m.LockedAt.Time(),
	}
}

// Get 获取分支锁
func (r *branchLockRepository) Get(ctx context.Context, entityID, branch string) (*domain.BranchLock, error) {
	var m model.BranchLock
	err := r.db.WithContext(ctx).
		Where("entity_id = ? AND branch = ?", entityID, branch).
		Take(&m).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "query branch lock")
	}
	return r.toDomain(&m), nil
}

// IsLocked 判断分支是否被锁定
func (r *branchLockRepository) IsLocked(ctx context.Context, entityID, branch string) (bool, error) {
	lock, err := r.Get(ctx, entityID, branch)
	if err != nil {
		return false, err
	}
	return lock != nil, nil
}

// Lock 锁定分支
// 唯一索引保证同一分支只有一把锁，竞争插入时返回已有锁
func (r *branchLockRepository) Lock(ctx context.Context, entityID, branch, lockedBy string) (*domain.BranchLock, error) {
	existing, err := r.Get(ctx, entityID, branch)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now, err := serverNow(ctx, r.db)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "lock branch")
	}
	m := &model.BranchLock{
		EntityID: entityID,
		Branch:   branch,
		LockedBy: lockedBy,
		LockedAt: timex.Time(now),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		// 竞争插入，读取胜者
		if existing, getErr := r.Get(ctx, entityID, branch); getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(err, "lock branch")
	}
	return r.toDomain(m), nil
}

// Unlock 解锁分支
func (r *branchLockRepository) Unlock(ctx context.Context, entityID, branch string) error {
	err := r.db.WithContext(ctx).
		Where("entity_id = ? AND branch = ?", entityID, branch).
		Delete(&model.BranchLock{}).Error
	if err != nil {
		return pkgerrors.Wrap(err, "unlock branch")
	}
	return nil
}

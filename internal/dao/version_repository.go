package dao

import (
	"context"
	"time"

	"github.com/chronoverse/evcs/internal/domain"
	"github.com/chronoverse/evcs/internal/model"
	"github.com/chronoverse/evcs/pkg/convert"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// versionRepository 实现 domain.VersionRepository 接口
// 一个实例绑定一个实体类型的版本表
type versionRepository struct {
	dao   *Dao
	db    *gorm.DB
	table string
}

// NewVersionRepository 创建指定实体类型的版本仓储
// 首次使用时自动迁移对应的版本表
func NewVersionRepository(d *Dao, entityType string) (domain.VersionRepository, error) {
	table := d.VersionTable(entityType)
	if _, done := d.migrated.Load(table); !done {
		if err := model.AutoMigrate(d.DB(), table); err != nil {
			return nil, pkgerrors.Wrapf(err, "migrate version table %s", table)
		}
		d.migrated.Store(table, struct{}{})
	}
	return &versionRepository{dao: d, db: d.DB(), table: table}, nil
}

// rows 获取绑定版本表的查询对象
func (r *versionRepository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

// toDomain 将行模型转换为领域模型
func (r *versionRepository) toDomain(m *model.Version) *domain.Version {
	if m == nil {
		return nil
	}
	v := &domain.Version{}
	convert.StructAssign(m, v)
	return v
}

// toModel 将领域模型转换为行模型
func (r *versionRepository) toModel(v *domain.Version) *model.Version {
	m := &model.Version{}
	convert.StructAssign(v, m)
	return m
}

// wrap 包装存储层错误，区分超时与其他失败
func (r *versionRepository) wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.Is(err, context.DeadlineExceeded) || pkgerrors.Is(err, context.Canceled) {
		return &domain.TimeoutError{Op: op, Cause: err}
	}
	return pkgerrors.Wrap(err, op)
}

// Now 获取存储层权威时钟
func (r *versionRepository) Now(ctx context.Context) (time.Time, error) {
	now, err := serverNow(ctx, r.db)
	if err != nil {
		return time.Time{}, r.wrap(err, "now")
	}
	return now, nil
}

// GetCurrent 获取当前版本
// "当前"始终是谓词查询的结果（两端开放且未删除），而非单独维护的头指针
func (r *versionRepository) GetCurrent(ctx context.Context, entityID, branch string) (*domain.Version, error) {
	var m model.Version
	err := r.rows(ctx).
		Where("entity_id = ? AND branch = ?", entityID, branch).
		Where("valid_time_end IS NULL AND transaction_time_end IS NULL AND deleted_at IS NULL").
		Take(&m).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.wrap(err, "query current version")
	}
	return r.toDomain(&m), nil
}

// GetLatest 获取最新开放版本（包含软删除标记行）
func (r *versionRepository) GetLatest(ctx context.Context, entityID, branch string) (*domain.Version, error) {
	var m model.Version
	err := r.rows(ctx).
		Where("entity_id = ? AND branch = ?", entityID, branch).
		Where("valid_time_end IS NULL AND transaction_time_end IS NULL").
		Take(&m).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.wrap(err, "query latest version")
	}
	return r.toDomain(&m), nil
}

// GetByID 根据版本ID获取快照
func (r *versionRepository) GetByID(ctx context.Context, versionID string) (*domain.Version, error) {
	var m model.Version
	err := r.rows(ctx).Where("version_id = ?", versionID).Take(&m).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.wrap(err, "query version by id")
	}
	return r.toDomain(&m), nil
}

// GetAsOf 时间旅行查询
// 业务有效期与记录期都包含 at 时刻的未删除版本
func (r *versionRepository) GetAsOf(ctx context.Context, entityID, branch string, at time.Time) (*domain.Version, error) {
	var m model.Version
	err := r.rows(ctx).
		Where("entity_id = ? AND branch = ?", entityID, branch).
		Where("valid_time_start <= ? AND (valid_time_end IS NULL OR valid_time_end > ?)", at, at).
		Where("transaction_time_start <= ? AND (transaction_time_end IS NULL OR transaction_time_end > ?)", at, at).
		Where("deleted_at IS NULL").
		Order("valid_time_start DESC").
		Take(&m).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.wrap(err, "query version as of")
	}
	return r.toDomain(&m), nil
}

// GetHistory 获取分支全部版本，按业务有效期开始时间升序
func (r *versionRepository) GetHistory(ctx context.Context, entityID, branch string) ([]*domain.Version, error) {
	var ms []model.Version
	err := r.rows(ctx).
		Where("entity_id = ? AND branch = ?", entityID, branch).
		Order("valid_time_start ASC, version_seq ASC").
		Find(&ms).Error
	if err != nil {
		return nil, r.wrap(err, "query version history")
	}
	versions := make([]*domain.Version, 0, len(ms))
	for i := range ms {
		versions = append(versions, r.toDomain(&ms[i]))
	}
	return versions, nil
}

// GetFirstOnBranch 获取分支上最早的版本
func (r *versionRepository) GetFirstOnBranch(ctx context.Context, entityID, branch string) (*domain.Version, error) {
	var m model.Version
	err := r.rows(ctx).
		Where("entity_id = ? AND branch = ?", entityID, branch).
		Order("valid_time_start ASC, version_seq ASC").
		Take(&m).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.wrap(err, "query first version on branch")
	}
	return r.toDomain(&m), nil
}

// ListBranches 枚举实体上存在开放版本的分支名
func (r *versionRepository) ListBranches(ctx context.Context, entityID string) ([]string, error) {
	var branches []string
	err := r.rows(ctx).
		Distinct("branch").
		Where("entity_id = ?", entityID).
		Where("valid_time_end IS NULL AND transaction_time_end IS NULL").
		Order("branch ASC").
		Pluck("branch", &branches).Error
	if err != nil {
		return nil, r.wrap(err, "list branches")
	}
	return branches, nil
}

// Insert 插入新版本行
func (r *versionRepository) Insert(ctx context.Context, v *domain.Version) error {
	if err := r.rows(ctx).Create(r.toModel(v)).Error; err != nil {
		return r.wrap(err, "insert version")
	}
	return nil
}

// Close 关闭版本的开放区间端点
// 守卫更新：WHERE 子句要求两端仍开放，影响行数为 0 即乐观检查失败
func (r *versionRepository) Close(ctx context.Context, versionID string, at time.Time) (bool, error) {
	result := r.rows(ctx).
		Where("version_id = ?", versionID).
		Where("valid_time_end IS NULL AND transaction_time_end IS NULL").
		Updates(map[string]interface{}{
			"valid_time_end":       at,
			"transaction_time_end": at,
		})
	if result.Error != nil {
		return false, r.wrap(result.Error, "close version")
	}
	return result.RowsAffected == 1, nil
}

// Transaction 在单个存储事务中执行 fn
func (r *versionRepository) Transaction(ctx context.Context, fn func(repo domain.VersionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &versionRepository{dao: r.dao, db: tx, table: r.table}
		return fn(txRepo)
	})
}

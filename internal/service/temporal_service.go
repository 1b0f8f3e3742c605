package service

import (
	"context"
	"time"

	"github.com/chronoverse/evcs/internal/command"
	"github.com/chronoverse/evcs/internal/domain"
	"github.com/chronoverse/evcs/internal/dto"
	"github.com/chronoverse/evcs/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemporalService 定义单分支版本生命周期服务接口
// 泛型参数 T 为实体负载类型，负载字段通过 json / validate 标签声明
type TemporalService[T any] interface {
	// Create 创建实体的首个版本
	Create(ctx context.Context, actor domain.Actor, params *dto.CreateRequest, payload *T) (*VersionDTO[T], error)

	// GetCurrent 获取当前版本，不存在时返回 nil
	GetCurrent(ctx context.Context, entityID, branch string) (*VersionDTO[T], error)

	// GetVersion 根据版本ID获取快照
	GetVersion(ctx context.Context, versionID string) (*VersionDTO[T], error)

	// GetAsOf 时间旅行：获取 at 时刻有效的版本，不存在时返回 nil
	GetAsOf(ctx context.Context, entityID, branch string, at time.Time) (*VersionDTO[T], error)

	// GetHistory 获取分支全部版本，最旧在前
	GetHistory(ctx context.Context, entityID, branch string) ([]*VersionDTO[T], error)

	// Update 更新实体，关闭当前版本并产生新版本
	Update(ctx context.Context, actor domain.Actor, params *dto.UpdateRequest) (*VersionDTO[T], error)

	// SoftDelete 软删除实体
	SoftDelete(ctx context.Context, actor domain.Actor, params *dto.DeleteRequest) (*VersionDTO[T], error)

	// Undelete 恢复软删除的实体
	Undelete(ctx context.Context, actor domain.Actor, params *dto.DeleteRequest) (*VersionDTO[T], error)

	// Revert 回退到历史版本，历史行本身不被修改
	Revert(ctx context.Context, actor domain.Actor, params *dto.RevertRequest) (*VersionDTO[T], error)
}

// temporalService 实现 TemporalService 接口
type temporalService[T any] struct {
	repo       domain.VersionRepository
	locks      domain.LockChecker
	logger     *zap.Logger
	entityType string
}

// NewTemporalService 创建单分支版本服务
func NewTemporalService[T any](entityType string, repo domain.VersionRepository, opts Options) TemporalService[T] {
	opts.normalize()
	return &temporalService[T]{
		repo:       repo,
		locks:      opts.Locks,
		logger:     opts.Logger,
		entityType: entityType,
	}
}

// toDTO 将领域版本转换为 DTO
func (s *temporalService[T]) toDTO(v *domain.Version) (*VersionDTO[T], error) {
	if v == nil {
		return nil, nil
	}
	payload, err := decodePayload[T](v.Payload)
	if err != nil {
		return nil, err
	}
	return &VersionDTO[T]{
		VersionID:       v.VersionID,
		EntityID:        v.EntityID,
		Branch:          v.Branch,
		VersionSeq:      v.VersionSeq,
		ValidTimeStart:  v.ValidTimeStart,
		ValidTimeEnd:    v.ValidTimeEnd,
		TxTimeStart:     v.TxTimeStart,
		TxTimeEnd:       v.TxTimeEnd,
		DeletedAt:       v.DeletedAt,
		ParentID:        v.ParentID,
		MergeFromBranch: v.MergeFromBranch,
		CreatedBy:       v.CreatedBy,
		Payload:         payload,
	}, nil
}

// run 在事务内执行命令并记录指标与日志
func (s *temporalService[T]) run(ctx context.Context, cmd command.Command, entityID, branch string) (*VersionDTO[T], error) {
	start := time.Now()
	var result *domain.Version

	err := s.repo.Transaction(ctx, func(repo domain.VersionRepository) error {
		v, execErr := cmd.Execute(ctx, repo)
		if execErr != nil {
			return execErr
		}
		result = v
		return nil
	})

	observeCommand(s.entityType, cmd.Kind(), err, time.Since(start))

	if err != nil {
		s.logger.Warn("command failed",
			zap.String(logger.FieldEntityType, s.entityType),
			zap.String(logger.FieldCommand, string(cmd.Kind())),
			zap.String(logger.FieldEntityID, entityID),
			zap.String(logger.FieldBranch, branch),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("command applied",
		zap.String(logger.FieldEntityType, s.entityType),
		zap.String(logger.FieldCommand, string(cmd.Kind())),
		zap.String(logger.FieldEntityID, entityID),
		zap.String(logger.FieldBranch, branch),
		zap.String(logger.FieldVersionID, result.VersionID),
		zap.Duration(logger.FieldDuration, time.Since(start)),
	)
	return s.toDTO(result)
}

// checkLock 咨询分支锁谓词
func (s *temporalService[T]) checkLock(ctx context.Context, entityID, branch string) error {
	if s.locks == nil {
		return nil
	}
	locked, err := s.locks.IsLocked(ctx, entityID, branch)
	if err != nil {
		return err
	}
	if locked {
		return &domain.BranchLockedError{EntityID: entityID, Branch: branch}
	}
	return nil
}

// Create 创建实体的首个版本
func (s *temporalService[T]) Create(ctx context.Context, actor domain.Actor, params *dto.CreateRequest, payload *T) (*VersionDTO[T], error) {
	if params == nil {
		params = &dto.CreateRequest{}
	}
	if err := validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}
	data, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}

	entityID := params.EntityID
	if entityID == "" {
		entityID = uuid.NewString()
	}
	branch := branchOrMain(params.Branch)

	cmd := &command.CreateCommand{
		EntityID: entityID,
		Branch:   branch,
		Payload:  data,
		Actor:    actor,
	}
	return s.run(ctx, cmd, entityID, branch)
}

// GetCurrent 获取当前版本
// 纯谓词查询：两个时间维度都包含"现在"且未删除，从不依赖存储的头指针
func (s *temporalService[T]) GetCurrent(ctx context.Context, entityID, branch string) (*VersionDTO[T], error) {
	v, err := s.repo.GetCurrent(ctx, entityID, branchOrMain(branch))
	if err != nil {
		return nil, err
	}
	return s.toDTO(v)
}

// GetVersion 根据版本ID获取快照
func (s *temporalService[T]) GetVersion(ctx context.Context, versionID string) (*VersionDTO[T], error) {
	v, err := s.repo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &domain.NotFoundError{VersionID: versionID}
	}
	return s.toDTO(v)
}

// GetAsOf 时间旅行查询
func (s *temporalService[T]) GetAsOf(ctx context.Context, entityID, branch string, at time.Time) (*VersionDTO[T], error) {
	v, err := s.repo.GetAsOf(ctx, entityID, branchOrMain(branch), at)
	if err != nil {
		return nil, err
	}
	return s.toDTO(v)
}

// GetHistory 获取分支全部版本
func (s *temporalService[T]) GetHistory(ctx context.Context, entityID, branch string) ([]*VersionDTO[T], error) {
	versions, err := s.repo.GetHistory(ctx, entityID, branchOrMain(branch))
	if err != nil {
		return nil, err
	}
	dtos := make([]*VersionDTO[T], 0, len(versions))
	for _, v := range versions {
		d, err := s.toDTO(v)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, d)
	}
	return dtos, nil
}

// Update 更新实体
func (s *temporalService[T]) Update(ctx context.Context, actor domain.Actor, params *dto.UpdateRequest) (*VersionDTO[T], error) {
	if err := validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}
	branch := branchOrMain(params.Branch)
	if err := s.checkLock(ctx, params.EntityID, branch); err != nil {
		return nil, err
	}

	cmd := &command.UpdateCommand{
		EntityID:          params.EntityID,
		Branch:            branch,
		ExpectedVersionID: params.ExpectedVersionID,
		Apply: func(current []byte) ([]byte, error) {
			return applyUpdates[T](current, params.Updates)
		},
		Actor: actor,
	}
	return s.run(ctx, cmd, params.EntityID, branch)
}

// SoftDelete 软删除实体
func (s *temporalService[T]) SoftDelete(ctx context.Context, actor domain.Actor, params *dto.DeleteRequest) (*VersionDTO[T], error) {
	if err := validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}
	branch := branchOrMain(params.Branch)

	cmd := &command.SoftDeleteCommand{
		EntityID: params.EntityID,
		Branch:   branch,
		Actor:    actor,
	}
	return s.run(ctx, cmd, params.EntityID, branch)
}

// Undelete 恢复软删除的实体
func (s *temporalService[T]) Undelete(ctx context.Context, actor domain.Actor, params *dto.DeleteRequest) (*VersionDTO[T], error) {
	if err := validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}
	branch := branchOrMain(params.Branch)

	cmd := &command.UndeleteCommand{
		EntityID: params.EntityID,
		Branch:   branch,
		Actor:    actor,
	}
	return s.run(ctx, cmd, params.EntityID, branch)
}

// Revert 回退到历史版本
func (s *temporalService[T]) Revert(ctx context.Context, actor domain.Actor, params *dto.RevertRequest) (*VersionDTO[T], error) {
	if err := validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}
	branch := branchOrMain(params.Branch)

	cmd := &command.RevertCommand{
		EntityID:    params.EntityID,
		Branch:      branch,
		ToVersionID: params.ToVersionID,
		Actor:       actor,
	}
	return s.run(ctx, cmd, params.EntityID, branch)
}

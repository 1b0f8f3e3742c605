package service

import (
	"context"

	"github.com/chronoverse/evcs/internal/command"
	"github.com/chronoverse/evcs/internal/domain"
	"github.com/chronoverse/evcs/internal/dto"
)

// BranchableService 定义跨分支版本服务接口
// 在 TemporalService 基础上增加分支创建、合并与锁管理
type BranchableService[T any] interface {
	TemporalService[T]

	// CreateBranch 从既有分支派生新分支
	CreateBranch(ctx context.Context, actor domain.Actor, params *dto.CreateBranchRequest) (*VersionDTO[T], error)

	// MergeBranch 将源分支合并进目标分支，原子执行
	MergeBranch(ctx context.Context, actor domain.Actor, params *dto.MergeBranchRequest) (*VersionDTO[T], error)

	// ListBranches 枚举实体上存在开放版本的分支
	ListBranches(ctx context.Context, entityID string) ([]string, error)

	// LockBranch 锁定分支（冻结评审或串行化合并）
	LockBranch(ctx context.Context, actor domain.Actor, entityID, branch string) error

	// UnlockBranch 解锁分支
	UnlockBranch(ctx context.Context, entityID, branch string) error
}

// branchableService 实现 BranchableService 接口
type branchableService[T any] struct {
	*temporalService[T]
	lockRepo    domain.BranchLockRepository
	mergePolicy command.MergePolicy
}

// NewBranchableService 创建跨分支版本服务
// lockRepo 同时作为 Update / MergeBranch 的锁谓词；
// 传入 Options.Locks 可叠加调用方自定义谓词
func NewBranchableService[T any](entityType string, repo domain.VersionRepository, lockRepo domain.BranchLockRepository, opts Options) BranchableService[T] {
	opts.normalize()
	if opts.Locks == nil {
		opts.Locks = lockRepo
	}
	base := NewTemporalService[T](entityType, repo, opts).(*temporalService[T])
	return &branchableService[T]{
		temporalService: base,
		lockRepo:        lockRepo,
		mergePolicy:     opts.MergePolicy,
	}
}

// CreateBranch 从既有分支派生新分支
func (s *branchableService[T]) CreateBranch(ctx context.Context, actor domain.Actor, params *dto.CreateBranchRequest) (*VersionDTO[T], error) {
	if err := validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}
	from := branchOrMain(params.FromBranch)
	if params.NewBranch == from {
		return nil, &domain.ValidationError{
			Field:  "newBranch",
			Reason: "new branch must differ from source branch",
		}
	}

	cmd := &command.CreateBranchCommand{
		EntityID:   params.EntityID,
		NewBranch:  params.NewBranch,
		FromBranch: from,
		Actor:      actor,
	}
	return s.run(ctx, cmd, params.EntityID, params.NewBranch)
}

// MergeBranch 将源分支合并进目标分支
// 目标分支被锁定时拒绝；同一目标分支的合并应先 LockBranch 串行化，
// 输掉竞争的一方表现为 ConflictError 而非静默覆盖
func (s *branchableService[T]) MergeBranch(ctx context.Context, actor domain.Actor, params *dto.MergeBranchRequest) (*VersionDTO[T], error) {
	if err := validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}
	target := branchOrMain(params.TargetBranch)
	if params.SourceBranch == target {
		return nil, &domain.ValidationError{
			Field:  "targetBranch",
			Reason: "cannot merge a branch into itself",
		}
	}
	if err := s.checkLock(ctx, params.EntityID, target); err != nil {
		return nil, err
	}

	cmd := &command.MergeBranchCommand{
		EntityID:     params.EntityID,
		SourceBranch: params.SourceBranch,
		TargetBranch: target,
		Policy:       s.mergePolicy,
		Actor:        actor,
	}
	return s.run(ctx, cmd, params.EntityID, target)
}

// ListBranches 枚举实体上存在开放版本的分支
func (s *branchableService[T]) ListBranches(ctx context.Context, entityID string) ([]string, error) {
	return s.repo.ListBranches(ctx, entityID)
}

// LockBranch 锁定分支
func (s *branchableService[T]) LockBranch(ctx context.Context, actor domain.Actor, entityID, branch string) error {
	if s.lockRepo == nil {
		return &domain.ValidationError{Reason: "branch locking is not configured"}
	}
	_, err := s.lockRepo.Lock(ctx, entityID, branchOrMain(branch), actor.String())
	return err
}

// UnlockBranch 解锁分支
func (s *branchableService[T]) UnlockBranch(ctx context.Context, entityID, branch string) error {
	if s.lockRepo == nil {
		return &domain.ValidationError{Reason: "branch locking is not configured"}
	}
	return s.lockRepo.Unlock(ctx, entityID, branchOrMain(branch))
}

package command

import (
	"context"

	"github.com/chronoverse/evcs/internal/domain"
)

// MergePolicy 合并策略
type MergePolicy string

const (
	// MergePolicyReplace 源分支负载整体替换目标分支，不做字段级调和
	MergePolicyReplace MergePolicy = "replace"

	// MergePolicyRejectIfModified 自分叉点后目标分支有过修改则拒绝合并
	MergePolicyRejectIfModified MergePolicy = "reject-if-modified"
)

// MergeBranchCommand 将源分支合并进目标分支
// 前置条件：源分支存在当前版本，目标分支存在当前版本且未被锁定
// （锁检查由服务层在命令执行前完成）
type MergeBranchCommand struct {
	EntityID     string
	SourceBranch string
	TargetBranch string
	Policy       MergePolicy
	Actor        domain.Actor
}

// Kind 返回命令类型
func (c *MergeBranchCommand) Kind() Kind { return KindMergeBranch }

// Execute 关闭目标分支当前版本，插入承载源分支负载的新版本
// 新版本 parent_id 指向合并前的目标版本（保持目标分支自身血统），
// merge_from_branch 记录来源分支作为出处标记
func (c *MergeBranchCommand) Execute(ctx context.Context, repo domain.VersionRepository) (*domain.Version, error) {
	source, err := repo.GetCurrent(ctx, c.EntityID, c.SourceBranch)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, &domain.NotFoundError{EntityID: c.EntityID, Branch: c.SourceBranch}
	}

	target, err := repo.GetCurrent(ctx, c.EntityID, c.TargetBranch)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, &domain.NotFoundError{EntityID: c.EntityID, Branch: c.TargetBranch}
	}

	if c.Policy == MergePolicyRejectIfModified {
		if err := c.checkUnmodifiedSinceFork(ctx, repo, target); err != nil {
			return nil, err
		}
	}

	now, err := repo.Now(ctx)
	if err != nil {
		return nil, err
	}
	if err := closeCurrent(ctx, repo, target, now); err != nil {
		return nil, err
	}

	v := newVersion(c.EntityID, c.TargetBranch, target.VersionSeq+1, source.ClonePayload(), c.Actor, now)
	v.ParentID = strptr(target.VersionID)
	v.MergeFromBranch = strptr(c.SourceBranch)
	if err := repo.Insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// checkUnmodifiedSinceFork 校验目标分支自分叉点后未被修改
// 分叉点 = 源分支最早版本的 parent_id（CreateBranch 写入的来源版本）
// 目标当前版本不再是分叉点版本即说明目标分支有并行修改
func (c *MergeBranchCommand) checkUnmodifiedSinceFork(ctx context.Context, repo domain.VersionRepository, target *domain.Version) error {
	first, err := repo.GetFirstOnBranch(ctx, c.EntityID, c.SourceBranch)
	if err != nil {
		return err
	}
	if first == nil || first.ParentID == nil {
		// 源分支并非从目标分支派生，无法追溯分叉点，按策略拒绝
		return &domain.ConflictError{
			EntityID:  c.EntityID,
			Branch:    c.TargetBranch,
			VersionID: target.VersionID,
		}
	}
	if *first.ParentID != target.VersionID {
		return &domain.ConflictError{
			EntityID:  c.EntityID,
			Branch:    c.TargetBranch,
			VersionID: target.VersionID,
		}
	}
	return nil
}

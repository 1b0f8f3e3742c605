package command

import (
	"context"

	"github.com/chronoverse/evcs/internal/domain"
)

// CreateBranchCommand 从既有分支派生新分支
// 前置条件：from_branch 上存在当前版本，new_branch 上尚无当前版本
type CreateBranchCommand struct {
	EntityID   string
	NewBranch  string
	FromBranch string
	Actor      domain.Actor
}

// Kind 返回命令类型
func (c *CreateBranchCommand) Kind() Kind { return KindCreateBranch }

// Execute 将源分支当前负载克隆到新分支
// 新行时间区间全新开放，parent_id 指向源版本；源分支不发生任何写入
func (c *CreateBranchCommand) Execute(ctx context.Context, repo domain.VersionRepository) (*domain.Version, error) {
	source, err := repo.GetCurrent(ctx, c.EntityID, c.FromBranch)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, &domain.NotFoundError{EntityID: c.EntityID, Branch: c.FromBranch}
	}

	existing, err := repo.GetCurrent(ctx, c.EntityID, c.NewBranch)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.AlreadyExistsError{EntityID: c.EntityID, Branch: c.NewBranch}
	}

	now, err := repo.Now(ctx)
	if err != nil {
		return nil, err
	}

	v := newVersion(c.EntityID, c.NewBranch, 1, source.ClonePayload(), c.Actor, now)
	v.ParentID = strptr(source.VersionID)
	if err := repo.Insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

package command

import (
	"context"

	"github.com/chronoverse/evcs/internal/domain"
)

// UndeleteCommand 恢复软删除的实体
// 前置条件：分支上最新开放版本是软删除标记行
type UndeleteCommand struct {
	EntityID string
	Branch   string
	Actor    domain.Actor
}

// Kind 返回命令类型
func (c *UndeleteCommand) Kind() Kind { return KindUndelete }

// Execute 关闭删除标记行，插入负载克隆自标记行、deleted_at 为空的新版本
func (c *UndeleteCommand) Execute(ctx context.Context, repo domain.VersionRepository) (*domain.Version, error) {
	latest, err := repo.GetLatest(ctx, c.EntityID, c.Branch)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, &domain.NotFoundError{EntityID: c.EntityID, Branch: c.Branch}
	}
	if !latest.IsDeleted() {
		return nil, &domain.ValidationError{
			Reason: "entity " + c.EntityID + " is not deleted on branch " + c.Branch,
		}
	}

	now, err := repo.Now(ctx)
	if err != nil {
		return nil, err
	}
	if err := closeCurrent(ctx, repo, latest, now); err != nil {
		return nil, err
	}

	v := newVersion(c.EntityID, c.Branch, latest.VersionSeq+1, latest.ClonePayload(), c.Actor, now)
	v.ParentID = strptr(latest.VersionID)
	if err := repo.Insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

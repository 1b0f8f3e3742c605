package command

import (
	"context"

	"github.com/chronoverse/evcs/internal/domain"
)

// SoftDeleteCommand 软删除实体
// 前置条件：当前版本存在
// 关闭当前版本，插入携带 deleted_at 标记的新行，负载原样保留
type SoftDeleteCommand struct {
	EntityID string
	Branch   string
	Actor    domain.Actor
}

// Kind 返回命令类型
func (c *SoftDeleteCommand) Kind() Kind { return KindSoftDelete }

// Execute 执行软删除
// 标记行两个维度开放：它是"实体已删除"这一事实的最新记录，
// 但因 deleted_at 非空，该分支上不再有当前版本
func (c *SoftDeleteCommand) Execute(ctx context.Context, repo domain.VersionRepository) (*domain.Version, error) {
	current, err := repo.GetCurrent(ctx, c.EntityID, c.Branch)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &domain.NotFoundError{EntityID: c.EntityID, Branch: c.Branch}
	}

	now, err := repo.Now(ctx)
	if err != nil {
		return nil, err
	}
	if err := closeCurrent(ctx, repo, current, now); err != nil {
		return nil, err
	}

	v := newVersion(c.EntityID, c.Branch, current.VersionSeq+1, current.ClonePayload(), c.Actor, now)
	v.ParentID = strptr(current.VersionID)
	v.DeletedAt = &now
	if err := repo.Insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

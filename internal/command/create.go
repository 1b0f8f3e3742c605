package command

import (
	"context"

	"github.com/chronoverse/evcs/internal/domain"
)

// CreateCommand 创建实体的首个版本
// 前置条件：(entityID, branch) 上不存在当前版本
type CreateCommand struct {
	EntityID string
	Branch   string
	Payload  []byte
	Actor    domain.Actor
}

// Kind 返回命令类型
func (c *CreateCommand) Kind() Kind { return KindCreate }

// Execute 插入首个版本，parent_id 为空，两个时间维度开放
// 若分支上残留开放的软删除标记行，先关闭它并将新版本挂接其后，
// 保持单分支历史线性
func (c *CreateCommand) Execute(ctx context.Context, repo domain.VersionRepository) (*domain.Version, error) {
	latest, err := repo.GetLatest(ctx, c.EntityID, c.Branch)
	if err != nil {
		return nil, err
	}

	now, err := repo.Now(ctx)
	if err != nil {
		return nil, err
	}

	var seq int64 = 1
	var parentID *string

	if latest != nil {
		if !latest.IsDeleted() {
			return nil, &domain.AlreadyExistsError{EntityID: c.EntityID, Branch: c.Branch}
		}
		if err := closeCurrent(ctx, repo, latest, now); err != nil {
			return nil, err
		}
		seq = latest.VersionSeq + 1
		parentID = strptr(latest.VersionID)
	}

	v := newVersion(c.EntityID, c.Branch, seq, c.Payload, c.Actor, now)
	v.ParentID = parentID
	if err := repo.Insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

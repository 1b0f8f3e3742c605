package command

import (
	"context"

	"github.com/chronoverse/evcs/internal/domain"
)

// PayloadTransform 负载变换函数
// 输入当前版本负载，输出新版本负载；合并字段更新与校验在服务层闭包中完成
type PayloadTransform func(current []byte) ([]byte, error)

// UpdateCommand 更新实体：关闭当前版本并插入新版本
// 前置条件：当前版本存在；指定 ExpectedVersionID 时须与当前版本一致（乐观检查）
type UpdateCommand struct {
	EntityID string
	Branch   string
	// ExpectedVersionID 乐观并发期望值，为空时跳过显式比对
	// 关闭时的守卫更新仍然兜底检测竞争
	ExpectedVersionID string
	Apply             PayloadTransform
	Actor             domain.Actor
}

// Kind 返回命令类型
func (c *UpdateCommand) Kind() Kind { return KindUpdate }

// Execute 关闭当前版本，插入 parent_id 指向它的新版本
func (c *UpdateCommand) Execute(ctx context.Context, repo domain.VersionRepository) (*domain.Version, error) {
	current, err := repo.GetCurrent(ctx, c.EntityID, c.Branch)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &domain.NotFoundError{EntityID: c.EntityID, Branch: c.Branch}
	}
	if c.ExpectedVersionID != "" && c.ExpectedVersionID != current.VersionID {
		return nil, &domain.ConflictError{
			EntityID:  c.EntityID,
			Branch:    c.Branch,
			VersionID: c.ExpectedVersionID,
		}
	}

	payload, err := c.Apply(current.Payload)
	if err != nil {
		return nil, err
	}

	now, err := repo.Now(ctx)
	if err != nil {
		return nil, err
	}
	if err := closeCurrent(ctx, repo, current, now); err != nil {
		return nil, err
	}

	v := newVersion(c.EntityID, c.Branch, current.VersionSeq+1, payload, c.Actor, now)
	v.ParentID = strptr(current.VersionID)
	if err := repo.Insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

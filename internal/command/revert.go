package command

import (
	"context"

	"github.com/chronoverse/evcs/internal/domain"
)

// RevertCommand 回退到历史版本
// 前置条件：当前版本存在；指定 ToVersionID 时目标版本须属于同一实体同一分支，
// 为空时回退到当前版本的直接前驱（parent_id）
type RevertCommand struct {
	EntityID string
	Branch   string
	// ToVersionID 目标历史版本ID，为空表示回退到上一个版本
	ToVersionID string
	Actor       domain.Actor
}

// Kind 返回命令类型
func (c *RevertCommand) Kind() Kind { return KindRevert }

// Execute 关闭当前版本，插入仅克隆目标负载的新版本
// 历史行本身不被重新打开或修改；新版本 parent_id 指向被取代的当前版本，
// 保持分支历史线性
func (c *RevertCommand) Execute(ctx context.Context, repo domain.VersionRepository) (*domain.Version, error) {
	current, err := repo.GetCurrent(ctx, c.EntityID, c.Branch)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &domain.NotFoundError{EntityID: c.EntityID, Branch: c.Branch}
	}

	target, err := c.resolveTarget(ctx, repo, current)
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

	v := newVersion(c.EntityID, c.Branch, current.VersionSeq+1, target.ClonePayload(), c.Actor, now)
	v.ParentID = strptr(current.VersionID)
	if err := repo.Insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// resolveTarget 解析回退目标版本
func (c *RevertCommand) resolveTarget(ctx context.Context, repo domain.VersionRepository, current *domain.Version) (*domain.Version, error) {
	if c.ToVersionID == "" {
		if current.ParentID == nil {
			return nil, &domain.NotFoundError{EntityID: c.EntityID, Branch: c.Branch}
		}
		target, err := repo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, &domain.NotFoundError{VersionID: *current.ParentID}
		}
		return target, nil
	}

	target, err := repo.GetByID(ctx, c.ToVersionID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, &domain.NotFoundError{VersionID: c.ToVersionID}
	}
	if target.EntityID != c.EntityID || target.Branch != c.Branch {
		return nil, &domain.ValidationError{
			Field:  "toVersionId",
			Reason: "version " + c.ToVersionID + " does not belong to entity " + c.EntityID + " on branch " + c.Branch,
		}
	}
	return target, nil
}

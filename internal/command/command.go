// Package command 实现版本状态迁移命令
// 每个命令封装一种变更的前置校验与状态迁移：关闭零或一行 + 插入零或一行
// 命令在服务层开启的事务内执行，时间戳一律取自仓储的服务端时钟
package command

import (
	"context"
	"time"

	"github.com/chronoverse/evcs/internal/domain"

	"github.com/google/uuid"
)

// Kind 命令类型
type Kind string

// 命令类型为封闭集合，服务层按类型分发
const (
	KindCreate       Kind = "create"
	KindUpdate       Kind = "update"
	KindSoftDelete   Kind = "soft_delete"
	KindUndelete     Kind = "undelete"
	KindCreateBranch Kind = "create_branch"
	KindMergeBranch  Kind = "merge_branch"
	KindRevert       Kind = "revert"
)

// Command 版本迁移命令接口
type Command interface {
	// Kind 返回命令类型
	Kind() Kind

	// Execute 执行命令并返回新的当前版本
	// 必须在 repo 提供的事务范围内调用
	Execute(ctx context.Context, repo domain.VersionRepository) (*domain.Version, error)
}

// newVersion 构造一个两端开放的新版本行
// 有意不携带任何来源版本的时间区间：克隆旧区间会让当前版本看起来像历史版本
func newVersion(entityID, branch string, seq int64, payload []byte, actor domain.Actor, now time.Time) *domain.Version {
	return &domain.Version{
		VersionID:      uuid.NewString(),
		EntityID:       entityID,
		Branch:         branch,
		VersionSeq:     seq,
		ValidTimeStart: now,
		TxTimeStart:    now,
		CreatedBy:      actor.String(),
		Payload:        payload,
	}
}

// closeCurrent 以乐观检查关闭版本
// 仓储的 Close 带守卫条件，返回 false 说明其他写入者抢先关闭
func closeCurrent(ctx context.Context, repo domain.VersionRepository, v *domain.Version, now time.Time) error {
	ok, err := repo.Close(ctx, v.VersionID, now)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ConflictError{
			EntityID:  v.EntityID,
			Branch:    v.Branch,
			VersionID: v.VersionID,
		}
	}
	return nil
}

func strptr(s string) *string { return &s }

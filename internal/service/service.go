// Package service 实现业务逻辑层
package service

import (
	"time"

	"github.com/chronoverse/evcs/internal/command"
	"github.com/chronoverse/evcs/internal/domain"

	validatorV10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Options 服务构建选项
type Options struct {
	// Logger 日志器，为空时使用 no-op
	Logger *zap.Logger
	// Locks 分支锁谓词，为空时视为全部未锁定
	Locks domain.LockChecker
	// MergePolicy 合并策略，默认整体替换
	MergePolicy command.MergePolicy
}

func (o *Options) normalize() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.MergePolicy == "" {
		o.MergePolicy = command.MergePolicyReplace
	}
}

// validate 共享的结构体校验器，并发安全
var validate = validatorV10.New(validatorV10.WithRequiredStructEnabled())

// VersionDTO 版本数据传输对象
// 携带版本元数据与解码后的类型化负载
type VersionDTO[T any] struct {
	VersionID       string     `json:"versionId"`
	EntityID        string     `json:"entityId"`
	Branch          string     `json:"branch"`
	VersionSeq      int64      `json:"versionSeq"`
	ValidTimeStart  time.Time  `json:"validTimeStart"`
	ValidTimeEnd    *time.Time `json:"validTimeEnd,omitempty"`
	TxTimeStart     time.Time  `json:"transactionTimeStart"`
	TxTimeEnd       *time.Time `json:"transactionTimeEnd,omitempty"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`
	ParentID        *string    `json:"parentId,omitempty"`
	MergeFromBranch *string    `json:"mergeFromBranch,omitempty"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	Payload         T          `json:"payload"`
}

// IsCurrent 判断是否为当前版本
func (d *VersionDTO[T]) IsCurrent() bool {
	return d.ValidTimeEnd == nil && d.TxTimeEnd == nil && d.DeletedAt == nil
}

// branchOrMain 分支名为空时回落到主干
func branchOrMain(branch string) string {
	if branch == "" {
		return domain.MainBranch
	}
	return branch
}

// Package domain 定义领域模型和接口
package domain

import "time"

// MainBranch 默认主干分支名称
const MainBranch = "main"

// Actor 操作者审计上下文
// 由调用方（如认证层）提供，核心不解析其内容，仅透传记录
type Actor struct {
	ID     string
	Client string
}

// String 返回审计字符串
func (a Actor) String() string {
	if a.Client == "" {
		return a.ID
	}
	return a.ID + "@" + a.Client
}

// Version 版本记录领域模型
// 一条记录对应一个实体在某分支上的一个历史快照，关闭后不可变
type Version struct {
	// VersionID 快照唯一标识
	VersionID string
	// EntityID 逻辑实体根ID，同一实体的所有版本共享
	EntityID string
	// Branch 版本所属分支
	Branch string
	// VersionSeq 分支内顺序号，仅用于诊断展示
	VersionSeq int64
	// ValidTimeStart 业务有效期开始（含）
	ValidTimeStart time.Time
	// ValidTimeEnd 业务有效期结束（不含），nil 表示业务当前快照
	ValidTimeEnd *time.Time
	// TxTimeStart 记录期开始（含），由持久化层时钟赋值
	TxTimeStart time.Time
	// TxTimeEnd 记录期结束（不含），nil 表示最新记录快照
	TxTimeEnd *time.Time
	// DeletedAt 软删除标记，非 nil 时该分支上实体无当前版本
	DeletedAt *time.Time
	// ParentID 被取代或派生自的版本ID，版本间构成 DAG
	ParentID *string
	// MergeFromBranch 仅合并产生的版本携带，记录来源分支
	MergeFromBranch *string
	// CreatedBy 操作者审计信息
	CreatedBy string
	// Payload 实体负载（JSON 序列化）
	Payload []byte
}

// IsOpen 判断两个时间维度是否都未关闭
func (v *Version) IsOpen() bool {
	return v.ValidTimeEnd == nil && v.TxTimeEnd == nil
}

// IsCurrent 判断是否为当前版本（两个维度开放且未删除）
func (v *Version) IsCurrent() bool {
	return v.IsOpen() && v.DeletedAt == nil
}

// IsDeleted 判断是否为软删除标记版本
func (v *Version) IsDeleted() bool {
	return v.DeletedAt != nil
}

// ClonePayload 复制负载字节，克隆出的新版本不得与历史版本共享底层数组
func (v *Version) ClonePayload() []byte {
	if v.Payload == nil {
		return nil
	}
	p := make([]byte, len(v.Payload))
	copy(p, v.Payload)
	return p
}

// BranchLock 分支锁领域模型
// 建议性锁，用于冻结分支或串行化对同一目标分支的合并
type BranchLock struct {
	ID       int64
	EntityID string
	Branch   string
	LockedBy string
	LockedAt time.Time
}

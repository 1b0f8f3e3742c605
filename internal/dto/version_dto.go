// Package dto 定义服务层请求参数
package dto

// CreateRequest 创建实体请求
type CreateRequest struct {
	// EntityID 实体根ID，为空时由服务生成
	EntityID string `json:"entityId" validate:"omitempty,max=36"`
	// Branch 目标分支，为空时使用主干
	Branch string `json:"branch" validate:"omitempty,max=100"`
}

// UpdateRequest 更新实体请求
type UpdateRequest struct {
	EntityID string `json:"entityId" validate:"required,max=36"`
	Branch   string `json:"branch" validate:"omitempty,max=100"`
	// ExpectedVersionID 乐观并发期望的当前版本ID，为空时跳过显式比对
	ExpectedVersionID string `json:"expectedVersionId" validate:"omitempty,max=36"`
	// Updates 按 JSON 字段名给出的变更集
	Updates map[string]interface{} `json:"updates" validate:"required,min=1"`
}

// DeleteRequest 软删除 / 恢复请求
type DeleteRequest struct {
	EntityID string `json:"entityId" validate:"required,max=36"`
	Branch   string `json:"branch" validate:"omitempty,max=100"`
}

// RevertRequest 回退请求
type RevertRequest struct {
	EntityID string `json:"entityId" validate:"required,max=36"`
	Branch   string `json:"branch" validate:"omitempty,max=100"`
	// ToVersionID 目标历史版本ID，为空表示回退到上一个版本
	ToVersionID string `json:"toVersionId" validate:"omitempty,max=36"`
}

// CreateBranchRequest 创建分支请求
type CreateBranchRequest struct {
	EntityID   string `json:"entityId" validate:"required,max=36"`
	NewBranch  string `json:"newBranch" validate:"required,max=100"`
	FromBranch string `json:"fromBranch" validate:"omitempty,max=100"`
}

// MergeBranchRequest 合并分支请求
type MergeBranchRequest struct {
	EntityID     string `json:"entityId" validate:"required,max=36"`
	SourceBranch string `json:"sourceBranch" validate:"required,max=100"`
	TargetBranch string `json:"targetBranch" validate:"omitempty,max=100,nefield=SourceBranch"`
}

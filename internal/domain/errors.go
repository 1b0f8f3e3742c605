package domain

import (
	"errors"
	"fmt"
)

// 错误分类哨兵，配合 errors.Is 使用
var (
	// ErrValidation 负载校验失败，调用方修正输入前不可重试
	ErrValidation = errors.New("validation failed")
	// ErrNotFound 前置条件要求的实体或版本不存在
	ErrNotFound = errors.New("version not found")
	// ErrAlreadyExists 创建目标位置已被占用
	ErrAlreadyExists = errors.New("version already exists")
	// ErrConflict 乐观并发检查失败，可重试
	ErrConflict = errors.New("concurrent modification conflict")
	// ErrBranchLocked 目标分支被锁定，解锁前不可重试
	ErrBranchLocked = errors.New("branch locked")
	// ErrTimeout 存储层超时，瞬态错误，可安全重试
	ErrTimeout = errors.New("storage timeout")
)

// ValidationError 负载校验错误
type ValidationError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on field %q: %s", e.Field, e.Reason)
	}
	return "validation failed: " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Cause }

// NotFoundError 实体或版本不存在错误
type NotFoundError struct {
	EntityID  string
	Branch    string
	VersionID string
}

func (e *NotFoundError) Error() string {
	if e.VersionID != "" {
		return fmt.Sprintf("version %s not found", e.VersionID)
	}
	return fmt.Sprintf("no current version for entity %s on branch %s", e.EntityID, e.Branch)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AlreadyExistsError 目标位置已占用错误
type AlreadyExistsError struct {
	EntityID string
	Branch   string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("entity %s already has a current version on branch %s", e.EntityID, e.Branch)
}

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// ConflictError 乐观并发冲突错误
// 期望关闭的版本在提交前已被其他写入者关闭
type ConflictError struct {
	EntityID  string
	Branch    string
	VersionID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version %s of entity %s on branch %s was closed by a concurrent writer",
		e.VersionID, e.EntityID, e.Branch)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// BranchLockedError 分支锁定错误
type BranchLockedError struct {
	EntityID string
	Branch   string
	LockedBy string
}

func (e *BranchLockedError) Error() string {
	if e.LockedBy != "" {
		return fmt.Sprintf("branch %s of entity %s is locked by %s", e.Branch, e.EntityID, e.LockedBy)
	}
	return fmt.Sprintf("branch %s of entity %s is locked", e.Branch, e.EntityID)
}

func (e *BranchLockedError) Is(target error) bool { return target == ErrBranchLocked }

// TimeoutError 存储层超时错误
type TimeoutError struct {
	Op    string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("storage timeout during %s: %v", e.Op, e.Cause)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func (e *TimeoutError) Unwrap() error { return e.Cause }

// IsRetryable 判断错误是否可直接重试
// 并发冲突和存储超时重试是安全的：每个命令对其前置条件幂等
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrTimeout)
}

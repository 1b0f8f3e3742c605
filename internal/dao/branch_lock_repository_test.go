package dao

import (
	"context"
	"testing"

	"github.com/chronoverse/evcs/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchLockRepository(t *testing.T) {
	locks, err := NewBranchLockRepository(newTestDao(t))
	require.NoError(t, err)
	ctx := context.Background()

	locked, err := locks.IsLocked(ctx, "e1", domain.MainBranch)
	require.NoError(t, err)
	assert.False(t, locked)

	lock, err := locks.Lock(ctx, "e1", domain.MainBranch, "admin@cli")
	require.NoError(t, err)
	require.NotNil(t, lock)
	assert.Equal(t, "admin@cli", lock.LockedBy)
	assert.False(t, lock.LockedAt.IsZero())

	locked, err = locks.IsLocked(ctx, "e1", domain.MainBranch)
	require.NoError(t, err)
	assert.True(t, locked)

	// 重复加锁返回已有锁，持有者不变
	again, err := locks.Lock(ctx, "e1", domain.MainBranch, "other@cli")
	require.NoError(t, err)
	assert.Equal(t, lock.ID, again.ID)
	assert.Equal(t, "admin@cli", again.LockedBy)

	// 锁按 (entity, branch) 隔离
	locked, err = locks.IsLocked(ctx, "e1", "draft")
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, locks.Unlock(ctx, "e1", domain.MainBranch))
	locked, err = locks.IsLocked(ctx, "e1", domain.MainBranch)
	require.NoError(t, err)
	assert.False(t, locked)

	got, err := locks.Get(ctx, "e1", domain.MainBranch)
	require.NoError(t, err)
	assert.Nil(t, got)
}

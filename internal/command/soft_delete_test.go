package command

import (
	"context"
	"testing"

	"github.com/chronoverse/evcs/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftDeleteCommand(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	v1 := mustCreate(t, repo, "e1", domain.MainBranch, []byte(`{"name":"Alice"}`))

	cmd := &SoftDeleteCommand{EntityID: "e1", Branch: domain.MainBranch, Actor: testActor}
	marker, err := cmd.Execute(ctx, repo)
	require.NoError(t, err)

	// 标记行：负载保留、deleted_at 非空、两端开放但不是当前版本
	assert.Equal(t, v1.Payload, marker.Payload)
	assert.NotNil(t, marker.DeletedAt)
	assert.True(t, marker.IsOpen())
	assert.False(t, marker.IsCurrent())
	require.NotNil(t, marker.ParentID)
	assert.Equal(t, v1.VersionID, *marker.ParentID)

	current, err := repo.GetCurrent(ctx, "e1", domain.MainBranch)
	require.NoError(t, err)
	assert.Nil(t, current)

	// 历史完整保留
	history, err := repo.GetHistory(ctx, "e1", domain.MainBranch)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSoftDeleteCommandNotFound(t *testing.T) {
	repo := newMemRepo()

	cmd := &SoftDeleteCommand{EntityID: "missing", Branch: domain.MainBranch, Actor: testActor}
	_, err := cmd.Execute(context.Background(), repo)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUndeleteCommand(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	mustCreate(t, repo, "e1", domain.MainBranch, []byte(`{"name":"Alice"}`))

	del := &SoftDeleteCommand{EntityID: "e1", Branch: domain.MainBranch, Actor: testActor}
	marker, err := del.Execute(ctx, repo)
	require.NoError(t, err)

	undel := &UndeleteCommand{EntityID: "e1", Branch: domain.MainBranch, Actor: testActor}
	restored, err := undel.Execute(ctx, repo)
	require.NoError(t, err)

	// 恢复版本：负载克隆自标记行、deleted_at 为空、版本ID 全新
	assert.Equal(t, []byte(`{"name":"Alice"}`), restored.Payload)
	assert.Nil(t, restored.DeletedAt)
	assert.NotEqual(t, marker.VersionID, restored.VersionID)
	assert.True(t, restored.IsCurrent())
	require.NotNil(t, restored.ParentID)
	assert.Equal(t, marker.VersionID, *restored.ParentID)

	current, err := repo.GetCurrent(ctx, "e1", domain.MainBranch)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, restored.VersionID, current.VersionID)
}

func TestUndeleteCommandNotDeleted(t *testing.T) {
	repo := newMemRepo()
	mustCreate(t, repo, "e1", domain.MainBranch, []byte(`{}`))

	cmd := &UndeleteCommand{EntityID: "e1", Branch: domain.MainBranch, Actor: testActor}
	_, err := cmd.Execute(context.Background(), repo)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUndeleteCommandNotFound(t *testing.T) {
	repo := newMemRepo()

	cmd := &UndeleteCommand{EntityID: "missing", Branch: domain.MainBranch, Actor: testActor}
	_, err := cmd.Execute(context.Background(), repo)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package command

import (
	"context"
	"testing"

	"github.com/chronoverse/evcs/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testActor = domain.Actor{ID: "u1", Client: "test"}

func mustCreate(t *testing.T, repo *memRepo, entityID, branch string, payload []byte) *domain.Version {
	t.Helper()
	cmd := &CreateCommand{EntityID: entityID, Branch: branch, Payload: payload, Actor: testActor}
	v, err := cmd.Execute(context.Background(), repo)
	require.NoError(t, err)
	return v
}

func TestCreateCommand(t *testing.T) {
	repo := newMemRepo()

	v := mustCreate(t, repo, "e1", domain.MainBranch, []byte(`{"name":"Alice"}`))

	// 首个版本：序号 1，无父版本，两端开放
	assert.Equal(t, "e1", v.EntityID)
	assert.Equal(t, domain.MainBranch, v.Branch)
	assert.Equal(t, int64(1), v.VersionSeq)
	assert.Nil(t, v.ParentID)
	assert.True(t, v.IsCurrent())
	assert.Equal(t, "u1@test", v.CreatedBy)
}

func TestCreateCommandAlreadyExists(t *testing.T) {
	repo := newMemRepo()
	mustCreate(t, repo, "e1", domain.MainBranch, []byte(`{}`))

	cmd := &CreateCommand{EntityID: "e1", Branch: domain.MainBranch, Payload: []byte(`{}`), Actor: testActor}
	_, err := cmd.Execute(context.Background(), repo)

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreateCommandAfterSoftDelete(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	v1 := mustCreate(t, repo, "e1", domain.MainBranch, []byte(`{"name":"Alice"}`))

	del := &SoftDeleteCommand{EntityID: "e1", Branch: domain.MainBranch, Actor: testActor}
	marker, err := del.Execute(ctx, repo)
	require.NoError(t, err)

	// 软删除后重新创建：关闭墓碑行并延续血缘
	v2 := mustCreate(t, repo, "e1", domain.MainBranch, []byte(`{"name":"Bob"}`))
	require.NotNil(t, v2.ParentID)
	assert.Equal(t, marker.VersionID, *v2.ParentID)
	assert.Equal(t, marker.VersionSeq+1, v2.VersionSeq)

	closed, err := repo.GetByID(ctx, marker.VersionID)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen())

	history, err := repo.GetHistory(ctx, "e1", domain.MainBranch)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, v1.VersionID, history[0].VersionID)
}

func TestCreateCommandDifferentBranches(t *testing.T) {
	repo := newMemRepo()

	// 同一实体在不同分支各有独立的当前版本
	mustCreate(t, repo, "e1", domain.MainBranch, []byte(`{"v":1}`))
	v := mustCreate(t, repo, "e1", "draft", []byte(`{"v":2}`))

	assert.Equal(t, int64(1), v.VersionSeq)
	assert.Nil(t, v.ParentID)
}

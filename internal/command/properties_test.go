package command

import (
	"context"
	"fmt"
	"testing"

	"github.com/chronoverse/evcs/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// 任意长度的更新序列下，分支历史保持无间隙且恰好一个开放行
func TestPropertyHistoryContiguous(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("history stays contiguous under any update sequence", prop.ForAll(
		func(updates int) bool {
			repo := newMemRepo()
			ctx := context.Background()

			create := &CreateCommand{
				EntityID: "e1",
				Branch:   domain.MainBranch,
				Payload:  []byte(`{"n":0}`),
				Actor:    testActor,
			}
			if _, err := create.Execute(ctx, repo); err != nil {
				t.Logf("create failed: %v", err)
				return false
			}

			for i := 1; i <= updates; i++ {
				payload := []byte(fmt.Sprintf(`{"n":%d}`, i))
				upd := &UpdateCommand{
					EntityID: "e1",
					Branch:   domain.MainBranch,
					Apply:    replaceWith(payload),
					Actor:    testActor,
				}
				if _, err := upd.Execute(ctx, repo); err != nil {
					t.Logf("update %d failed: %v", i, err)
					return false
				}
			}

			history, err := repo.GetHistory(ctx, "e1", domain.MainBranch)
			if err != nil || len(history) != updates+1 {
				t.Logf("history length = %d, want %d", len(history), updates+1)
				return false
			}

			open := 0
			for i, v := range history {
				if v.VersionSeq != int64(i+1) {
					return false
				}
				if v.IsCurrent() {
					open++
				}
				if i == 0 {
					if v.ParentID != nil {
						return false
					}
					continue
				}
				prev := history[i-1]
				if prev.ValidTimeEnd == nil || !prev.ValidTimeEnd.Equal(v.ValidTimeStart) {
					t.Log("gap between consecutive versions")
					return false
				}
				if v.ParentID == nil || *v.ParentID != prev.VersionID {
					t.Log("broken parent chain")
					return false
				}
			}
			return open == 1
		},
		gen.IntRange(0, 12),
	))

	properties.TestingRun(t)
}

// 软删除再恢复后负载逐字节等于删除前
func TestPropertyDeleteUndeletePreservesPayload(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("undelete restores the exact payload", prop.ForAll(
		func(name string) bool {
			repo := newMemRepo()
			ctx := context.Background()

			payload := []byte(fmt.Sprintf(`{"name":%q}`, name))
			create := &CreateCommand{
				EntityID: "e1",
				Branch:   domain.MainBranch,
				Payload:  payload,
				Actor:    testActor,
			}
			if _, err := create.Execute(ctx, repo); err != nil {
				return false
			}

			del := &SoftDeleteCommand{EntityID: "e1", Branch: domain.MainBranch, Actor: testActor}
			if _, err := del.Execute(ctx, repo); err != nil {
				return false
			}

			undel := &UndeleteCommand{EntityID: "e1", Branch: domain.MainBranch, Actor: testActor}
			restored, err := undel.Execute(ctx, repo)
			if err != nil {
				return false
			}
			return string(restored.Payload) == string(payload) && restored.IsCurrent()
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

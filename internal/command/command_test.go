package command

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chronoverse/evcs/internal/domain"
)

// memRepo 内存版仓储，供命令单元测试使用
// Close 与真实实现一样带守卫条件，用于验证乐观并发路径
type memRepo struct {
	mu    sync.Mutex
	rows  []*domain.Version
	clock time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *memRepo) Now(ctx context.Context) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Millisecond)
	return r.clock, nil
}

func copyVersion(v *domain.Version) *domain.Version {
	c := *v
	return &c
}

func (r *memRepo) GetCurrent(ctx context.Context, entityID, branch string) (*domain.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.rows {
		if v.EntityID == entityID && v.Branch == branch && v.IsCurrent() {
			return copyVersion(v), nil
		}
	}
	return nil, nil
}

func (r *memRepo) GetLatest(ctx context.Context, entityID, branch string) (*domain.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.rows {
		if v.EntityID == entityID && v.Branch == branch && v.IsOpen() {
			return copyVersion(v), nil
		}
	}
	return nil, nil
}

func (r *memRepo) GetByID(ctx context.Context, versionID string) (*domain.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.rows {
		if v.VersionID == versionID {
			return copyVersion(v), nil
		}
	}
	return nil, nil
}

func (r *memRepo) GetAsOf(ctx context.Context, entityID, branch string, at time.Time) (*domain.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.rows {
		if v.EntityID != entityID || v.Branch != branch || v.DeletedAt != nil {
			continue
		}
		if v.ValidTimeStart.After(at) {
			continue
		}
		if v.ValidTimeEnd == nil || v.ValidTimeEnd.After(at) {
			return copyVersion(v), nil
		}
	}
	return nil, nil
}

func (r *memRepo) GetHistory(ctx context.Context, entityID, branch string) ([]*domain.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var versions []*domain.Version
	for _, v := range r.rows {
		if v.EntityID == entityID && v.Branch == branch {
			versions = append(versions, copyVersion(v))
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].ValidTimeStart.Before(versions[j].ValidTimeStart)
	})
	return versions, nil
}

func (r *memRepo) GetFirstOnBranch(ctx context.Context, entityID, branch string) (*domain.Version, error) {
	history, err := r.GetHistory(ctx, entityID, branch)
	if err != nil || len(history) == 0 {
		return nil, err
	}
	return history[0], nil
}

func (r *memRepo) ListBranches(ctx context.Context, entityID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var branches []string
	for _, v := range r.rows {
		if v.EntityID == entityID && v.IsOpen() && !seen[v.Branch] {
			seen[v.Branch] = true
			branches = append(branches, v.Branch)
		}
	}
	sort.Strings(branches)
	return branches, nil
}

func (r *memRepo) Insert(ctx context.Context, v *domain.Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, copyVersion(v))
	return nil
}

func (r *memRepo) Close(ctx context.Context, versionID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.rows {
		if v.VersionID == versionID && v.IsOpen() {
			end := at
			v.ValidTimeEnd = &end
			v.TxTimeEnd = &end
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) Transaction(ctx context.Context, fn func(repo domain.VersionRepository) error) error {
	return fn(r)
}

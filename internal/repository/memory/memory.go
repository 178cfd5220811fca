// Package memory provides map-backed repository implementations for tests
// and local development. Semantics match the DynamoDB implementations:
// single-record atomicity, last-writer-wins updates.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"wrfcloud/internal/domain/job"
	"wrfcloud/internal/domain/modelconfig"
	"wrfcloud/internal/domain/user"
	apperrors "wrfcloud/pkg/errors"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]user.User)}
}

func (r *UserRepo) Get(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return &u, nil
}

func (r *UserRepo) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.Email]; exists {
		return apperrors.Conflict("user already exists")
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.Email] = *u
	return nil
}

func (r *UserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.Email]; !exists {
		return apperrors.NotFound("user not found")
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[u.Email] = *u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, email)
	return nil
}

type JobRepo struct {
	mu   sync.RWMutex
	jobs map[string]job.WrfJob
}

func NewJobRepo() *JobRepo {
	return &JobRepo{jobs: make(map[string]job.WrfJob)}
}

func (r *JobRepo) Get(_ context.Context, jobID string) (*job.WrfJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[jobID]
	if !ok {
		return nil, apperrors.NotFound("job not found")
	}
	return &j, nil
}

func (r *JobRepo) List(_ context.Context) ([]job.WrfJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]job.WrfJob, 0, len(r.jobs))
	for _, j := range r.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].JobID < jobs[j].JobID })
	return jobs, nil
}

func (r *JobRepo) Create(_ context.Context, j *job.WrfJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[j.JobID]; exists {
		return apperrors.Conflict("job already exists")
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	r.jobs[j.JobID] = *j
	return nil
}

func (r *JobRepo) Update(_ context.Context, j *job.WrfJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[j.JobID]; !exists {
		return apperrors.NotFound("job not found")
	}
	j.UpdatedAt = time.Now().UTC()
	r.jobs[j.JobID] = *j
	return nil
}

func (r *JobRepo) Delete(_ context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, jobID)
	return nil
}

type ModelConfigRepo struct {
	mu      sync.RWMutex
	configs map[string]modelconfig.ModelConfig
}

func NewModelConfigRepo() *ModelConfigRepo {
	return &ModelConfigRepo{configs: make(map[string]modelconfig.ModelConfig)}
}

func (r *ModelConfigRepo) Get(_ context.Context, name string) (*modelconfig.ModelConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mc, ok := r.configs[name]
	if !ok {
		return nil, apperrors.NotFound("model configuration not found")
	}
	return &mc, nil
}

func (r *ModelConfigRepo) List(_ context.Context) ([]modelconfig.ModelConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	configs := make([]modelconfig.ModelConfig, 0, len(r.configs))
	for _, mc := range r.configs {
		configs = append(configs, mc)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}

func (r *ModelConfigRepo) Create(_ context.Context, mc *modelconfig.ModelConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.configs[mc.Name]; exists {
		return apperrors.Conflict("model configuration already exists")
	}
	now := time.Now().UTC()
	mc.CreatedAt = now
	mc.UpdatedAt = now
	r.configs[mc.Name] = *mc
	return nil
}

func (r *ModelConfigRepo) Update(_ context.Context, mc *modelconfig.ModelConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.configs[mc.Name]; !exists {
		return apperrors.NotFound("model configuration not found")
	}
	mc.UpdatedAt = time.Now().UTC()
	r.configs[mc.Name] = *mc
	return nil
}

func (r *ModelConfigRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.configs, name)
	return nil
}

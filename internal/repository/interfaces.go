package repository

import (
	"context"

	"wrfcloud/internal/domain/job"
	"wrfcloud/internal/domain/modelconfig"
	"wrfcloud/internal/domain/user"
)

// Repository interfaces consumed by the action layer. Implementations
// provide atomic single-record reads and writes with last-writer-wins
// update semantics; nothing here is transactional.

type UserRepository interface {
	Get(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, email string) error
}

type JobRepository interface {
	Get(ctx context.Context, jobID string) (*job.WrfJob, error)
	List(ctx context.Context) ([]job.WrfJob, error)
	Create(ctx context.Context, j *job.WrfJob) error
	Update(ctx context.Context, j *job.WrfJob) error
	Delete(ctx context.Context, jobID string) error
}

type ModelConfigRepository interface {
	Get(ctx context.Context, name string) (*modelconfig.ModelConfig, error)
	List(ctx context.Context) ([]modelconfig.ModelConfig, error)
	Create(ctx context.Context, mc *modelconfig.ModelConfig) error
	Update(ctx context.Context, mc *modelconfig.ModelConfig) error
	Delete(ctx context.Context, name string) error
}

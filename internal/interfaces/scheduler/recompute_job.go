package scheduler

import (
	"context"
	"fmt"
	"strconv"

	"budgetwise/internal/domain/budget"
	"budgetwise/internal/domain/user"
)

// RecomputeJob rebuilds one user's cached spent totals from their
// transactions. Scheduled runs clear any drift left by deleted
// categories or crashed requests.
type RecomputeJob struct {
	userID  int64
	service *budget.Service
}

func NewRecomputeJob(userID int64, service *budget.Service) *RecomputeJob {
	return &RecomputeJob{userID: userID, service: service}
}

func (j *RecomputeJob) Execute(ctx context.Context) error {
	if err := j.service.RecomputeSpent(ctx, j.userID); err != nil {
		return fmt.Errorf("recompute failed: %w", err)
	}
	return nil
}

func (j *RecomputeJob) UserID() string {
	return strconv.FormatInt(j.userID, 10)
}

func (j *RecomputeJob) Description() string {
	return fmt.Sprintf("Spent total recompute for user %d", j.userID)
}

// RecomputeJobProvider builds one recompute job per registered user.
func RecomputeJobProvider(userRepo user.Repository, service *budget.Service) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		ids, err := userRepo.ListIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		jobs := make([]Job, 0, len(ids))
		for _, id := range ids {
			jobs = append(jobs, NewRecomputeJob(id, service))
		}
		return jobs, nil
	}
}

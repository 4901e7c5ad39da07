package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Service handles business logic for budget categories
type Service struct {
	repo   Repository
	logger *logrus.Logger
}

func NewService(repo Repository, logger *logrus.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID int64, params CreateCategoryParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	category, err := s.repo.Create(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget category: %w", err)
	}
	return category, nil
}

func (s *Service) Get(ctx context.Context, userID int64, id string) (*Category, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Category, error) {
	categories, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget categories: %w", err)
	}
	return categories, nil
}

func (s *Service) Update(ctx context.Context, userID int64, id string, params UpdateCategoryParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	category, err := s.repo.Update(ctx, userID, id, params)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) Delete(ctx context.Context, userID int64, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// SeedDefaults creates the stock categories for a new user. Seeding is
// best-effort: a duplicate name means the user already has that category
// and is skipped.
func (s *Service) SeedDefaults(ctx context.Context, userID int64) error {
	for _, params := range DefaultCategories() {
		if _, err := s.repo.Create(ctx, userID, params); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				continue
			}
			return fmt.Errorf("failed to seed category %q: %w", params.Name, err)
		}
	}
	s.logger.WithField("userId", userID).Info("Seeded default budget categories")
	return nil
}

// RecomputeSpent repairs the cached spent totals for a user by summing
// their transactions per category.
func (s *Service) RecomputeSpent(ctx context.Context, userID int64) error {
	if err := s.repo.RecomputeSpent(ctx, userID); err != nil {
		return fmt.Errorf("failed to recompute spent totals: %w", err)
	}
	s.logger.WithField("userId", userID).Info("Recomputed budget spent totals")
	return nil
}

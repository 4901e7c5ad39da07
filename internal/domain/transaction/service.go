package transaction

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"budgetwise/internal/domain/budget"
)

// Service handles business logic for transactions and keeps the cached
// spent totals on budget categories in step with the ledger.
type Service struct {
	repo       Repository
	budgetRepo budget.Repository
	logger     *logrus.Logger
}

func NewService(repo Repository, budgetRepo budget.Repository, logger *logrus.Logger) *Service {
	return &Service{repo: repo, budgetRepo: budgetRepo, logger: logger}
}

// Record inserts a transaction and then increments the spent total of the
// category it references. The increment is a single atomic statement; a
// category that no longer exists makes it a no-op, the transaction stays
// recorded and the drift is repairable via RecomputeSpent.
func (s *Service) Record(ctx context.Context, userID int64, params RecordParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	txn, err := s.repo.Create(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	affected, err := s.budgetRepo.AddSpent(ctx, userID, params.CategoryID, params.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to update spent total: %w", err)
	}
	if affected == 0 {
		s.logger.WithFields(logrus.Fields{
			"userId":        userID,
			"categoryId":    params.CategoryID,
			"transactionId": txn.ID,
		}).Warn("Transaction recorded against missing category, spent total not updated")
	}

	return txn, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Transaction, error) {
	transactions, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (s *Service) Get(ctx context.Context, userID int64, id string) (*Transaction, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Delete removes a transaction and decrements the category's spent total
// by the same amount. Like Record, a missing category is tolerated.
func (s *Service) Delete(ctx context.Context, userID int64, id string) error {
	txn, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := s.budgetRepo.AddSpent(ctx, userID, txn.CategoryID, txn.Amount.Neg())
	if err != nil {
		return fmt.Errorf("failed to update spent total: %w", err)
	}
	if affected == 0 {
		s.logger.WithFields(logrus.Fields{
			"userId":     userID,
			"categoryId": txn.CategoryID,
		}).Warn("Deleted transaction referenced missing category, spent total not updated")
	}

	return nil
}

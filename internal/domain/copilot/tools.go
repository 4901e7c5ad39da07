package copilot

import (
	"context"

	"budgetwise/internal/domain/budget"
	"budgetwise/internal/domain/transaction"
)

// BudgetLister reads a user's budget categories.
type BudgetLister interface {
	List(ctx context.Context, userID int64) ([]*budget.Category, error)
}

// TransactionLister reads a user's transactions.
type TransactionLister interface {
	List(ctx context.Context, userID int64) ([]*transaction.Transaction, error)
}

// LedgerTools builds the co-pilot's toolset scoped to a single user. The
// tools are read-only and parameterless so the model can never reach
// outside the caller's data.
func LedgerTools(userID int64, budgets BudgetLister, transactions TransactionLister) []Tool {
	return []Tool{
		&listBudgetsTool{userID: userID, budgets: budgets},
		&listTransactionsTool{userID: userID, transactions: transactions},
	}
}

type listBudgetsTool struct {
	userID  int64
	budgets BudgetLister
}

func (t *listBudgetsTool) Name() string { return "ListBudgets" }

func (t *listBudgetsTool) Description() string {
	return "Lists the user's budget categories with their limit, amount spent so far and amount remaining."
}

func (t *listBudgetsTool) Call(ctx context.Context) (map[string]any, error) {
	categories, err := t.budgets.List(ctx, t.userID)
	if err != nil {
		return nil, err
	}
	// Plain []any so the payload survives conversion to the provider's
	// structured-value format.
	items := make([]any, 0, len(categories))
	for _, c := range categories {
		items = append(items, map[string]any{
			"id":        c.ID,
			"name":      c.Name,
			"budget":    c.Budget.String(),
			"spent":     c.Spent.String(),
			"remaining": c.Remaining().String(),
		})
	}
	return map[string]any{"budgets": items}, nil
}

type listTransactionsTool struct {
	userID       int64
	transactions TransactionLister
}

func (t *listTransactionsTool) Name() string { return "ListTransactions" }

func (t *listTransactionsTool) Description() string {
	return "Lists the user's transactions, newest first, with description, amount, date and the budget category they belong to."
}

func (t *listTransactionsTool) Call(ctx context.Context) (map[string]any, error) {
	txns, err := t.transactions.List(ctx, t.userID)
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, len(txns))
	for _, txn := range txns {
		items = append(items, map[string]any{
			"id":          txn.ID,
			"categoryId":  txn.CategoryID,
			"description": txn.Description,
			"amount":      txn.Amount.String(),
			"date":        txn.Date.Format("2006-01-02"),
		})
	}
	return map[string]any{"transactions": items}, nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/campushub/event-report-api/internal/models"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
)

// AmountPolicy normalizes a caller-supplied actual-spend value into a
// two-decimal currency amount. The policy only parses; sign validation
// belongs to the ledger.
type AmountPolicy interface {
	Normalize(value interface{}) (decimal.Decimal, error)
}

// LenientAmountPolicy reproduces the legacy hub's form handling: anything
// that does not parse as a number coerces to zero instead of failing the
// whole request.
type LenientAmountPolicy struct{}

// Normalize implements AmountPolicy.
func (LenientAmountPolicy) Normalize(value interface{}) (decimal.Decimal, error) {
	amount, err := parseAmount(value)
	if err != nil {
		return decimal.Zero, nil
	}
	return amount, nil
}

// StrictAmountPolicy rejects non-numeric input. Not the default; wired in
// where stricter validation is wanted without touching the assembler.
type StrictAmountPolicy struct{}

// Normalize implements AmountPolicy.
func (StrictAmountPolicy) Normalize(value interface{}) (decimal.Decimal, error) {
	amount, err := parseAmount(value)
	if err != nil {
		return decimal.Zero, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("amount %v is not numeric", value))
	}
	return amount, nil
}

func parseAmount(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return decimal.Zero, nil
		}
		amount, err := decimal.NewFromString(trimmed)
		if err != nil {
			return decimal.Zero, err
		}
		return amount.Round(2), nil
	case json.Number:
		amount, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, err
		}
		return amount.Round(2), nil
	case float64:
		return decimal.NewFromFloat(v).Round(2), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", value)
	}
}

type costItemStore interface {
	ListByProposal(ctx context.Context, proposalID string) ([]models.CostItem, error)
}

// FinancialTotals are the derived sums over a cost breakdown.
type FinancialTotals struct {
	Budgeted decimal.Decimal
	Actual   decimal.Decimal
	Savings  decimal.Decimal
}

// CostLedger loads the budget line items behind an event's proposal and
// reconciles them against the organizer's reported actual spend.
type CostLedger struct {
	repo   costItemStore
	policy AmountPolicy
	logger *zap.Logger
}

// NewCostLedger constructs a ledger. A nil policy defaults to the lenient
// legacy behaviour.
func NewCostLedger(repo costItemStore, policy AmountPolicy, logger *zap.Logger) *CostLedger {
	if policy == nil {
		policy = LenientAmountPolicy{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostLedger{repo: repo, policy: policy, logger: logger}
}

// LoadItems returns the cost items for a proposal. Events without a proposal,
// or proposals without budget lines, yield an empty list: absence of budget
// is a valid state.
func (l *CostLedger) LoadItems(ctx context.Context, proposalID *string) ([]models.CostItem, error) {
	if proposalID == nil || *proposalID == "" {
		return []models.CostItem{}, nil
	}
	items, err := l.repo.ListByProposal(ctx, *proposalID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load cost items")
	}
	return items, nil
}

// BuildBreakdown pairs each cost item with its reported actual spend and
// computes the derived totals. Items absent from the actuals map count as
// zero spend; negative amounts are rejected.
func (l *CostLedger) BuildBreakdown(items []models.CostItem, actuals map[string]interface{}) (models.CostBreakdown, FinancialTotals, error) {
	breakdown := make(models.CostBreakdown, 0, len(items))
	totals := FinancialTotals{Budgeted: decimal.Zero, Actual: decimal.Zero, Savings: decimal.Zero}

	for _, item := range items {
		actual := decimal.Zero
		if raw, ok := actuals[item.ID]; ok {
			normalized, err := l.policy.Normalize(raw)
			if err != nil {
				return nil, FinancialTotals{}, err
			}
			actual = normalized
		}
		if actual.IsNegative() {
			return nil, FinancialTotals{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("actual amount for %q cannot be negative", item.Name))
		}

		budgeted := item.Budgeted.Round(2)
		line := models.CostLine{
			CostItemID: item.ID,
			Name:       item.Name,
			Budgeted:   budgeted,
			Actual:     actual,
			Difference: budgeted.Sub(actual),
		}
		if item.Comment != nil {
			line.Comments = *item.Comment
		}
		breakdown = append(breakdown, line)

		totals.Budgeted = totals.Budgeted.Add(budgeted)
		totals.Actual = totals.Actual.Add(actual)
	}

	totals.Savings = totals.Budgeted.Sub(totals.Actual)
	return breakdown, totals, nil
}

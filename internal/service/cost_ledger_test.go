package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/event-report-api/internal/models"
	appErrors "github.com/campushub/event-report-api/pkg/errors"
)

type mockCostRepo struct {
	items []models.CostItem
	err   error
	calls int
}

func (m *mockCostRepo) ListByProposal(_ context.Context, _ string) ([]models.CostItem, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func proposalItems() []models.CostItem {
	comment := "deposit paid in advance"
	return []models.CostItem{
		{ID: "ci-1", ProposalID: "prop-1", Name: "Venue", Budgeted: decimal.NewFromInt(200), Comment: &comment},
		{ID: "ci-2", ProposalID: "prop-1", Name: "Catering", Budgeted: decimal.NewFromInt(150)},
		{ID: "ci-3", ProposalID: "prop-1", Name: "Prizes", Budgeted: decimal.NewFromInt(50)},
	}
}

func TestLenientAmountPolicy(t *testing.T) {
	policy := LenientAmountPolicy{}

	cases := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"number", 180.0, "180"},
		{"numeric string", "150.50", "150.5"},
		{"padded string", "  99  ", "99"},
		{"garbage coerces to zero", "n/a", "0"},
		{"empty string", "", "0"},
		{"nil", nil, "0"},
		{"rounded to two places", "10.005", "10.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := policy.Normalize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestStrictAmountPolicyRejectsGarbage(t *testing.T) {
	policy := StrictAmountPolicy{}

	got, err := policy.Normalize("75.25")
	require.NoError(t, err)
	assert.Equal(t, "75.25", got.String())

	_, err = policy.Normalize("lots")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBuildBreakdownComputesTotals(t *testing.T) {
	ledger := NewCostLedger(&mockCostRepo{}, nil, zap.NewNop())

	breakdown, totals, err := ledger.BuildBreakdown(proposalItems(), map[string]interface{}{
		"ci-1": 180.0,
		"ci-2": "150",
		// ci-3 has no reported spend: counts as zero.
	})
	require.NoError(t, err)
	require.Len(t, breakdown, 3)

	assert.Equal(t, "400", totals.Budgeted.String())
	assert.Equal(t, "330", totals.Actual.String())
	assert.Equal(t, "70", totals.Savings.String())

	assert.Equal(t, "20", breakdown[0].Difference.String())
	assert.Equal(t, "deposit paid in advance", breakdown[0].Comments)
	assert.Equal(t, "0", breakdown[1].Difference.String())
	assert.Equal(t, "0", breakdown[2].Actual.String())
	assert.Equal(t, "50", breakdown[2].Difference.String())
}

func TestBuildBreakdownOverspendGoesNegative(t *testing.T) {
	ledger := NewCostLedger(&mockCostRepo{}, nil, zap.NewNop())

	items := []models.CostItem{{ID: "ci-1", Name: "Venue", Budgeted: decimal.NewFromInt(100)}}
	breakdown, totals, err := ledger.BuildBreakdown(items, map[string]interface{}{"ci-1": 130.0})
	require.NoError(t, err)

	assert.Equal(t, "-30", breakdown[0].Difference.String())
	assert.Equal(t, "-30", totals.Savings.String())
}

func TestBuildBreakdownRejectsNegativeActual(t *testing.T) {
	ledger := NewCostLedger(&mockCostRepo{}, nil, zap.NewNop())

	_, _, err := ledger.BuildBreakdown(proposalItems(), map[string]interface{}{"ci-1": -5.0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBuildBreakdownEmptyItems(t *testing.T) {
	ledger := NewCostLedger(&mockCostRepo{}, nil, zap.NewNop())

	breakdown, totals, err := ledger.BuildBreakdown(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, breakdown)
	assert.True(t, totals.Budgeted.IsZero())
	assert.True(t, totals.Actual.IsZero())
	assert.True(t, totals.Savings.IsZero())
}

func TestLoadItemsWithoutProposal(t *testing.T) {
	repo := &mockCostRepo{items: proposalItems()}
	ledger := NewCostLedger(repo, nil, zap.NewNop())

	items, err := ledger.LoadItems(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, repo.calls)

	proposalID := "prop-1"
	items, err = ledger.LoadItems(context.Background(), &proposalID)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 1, repo.calls)
}

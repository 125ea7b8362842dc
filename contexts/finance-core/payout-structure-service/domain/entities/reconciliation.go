package entities

import (
	"errors"

	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"

	"github.com/shopspring/decimal"
)

// Reconciliation is the outcome of one row-level edit. Edited is the field
// the operator changed and Derived the single field recomputed from it.
// Condition is non-nil when Derived could not be computed and was left as is.
type Reconciliation struct {
	RowIndex  int
	Edited    Field
	Derived   Field
	Row       Row
	Condition error
}

func (r Reconciliation) Undefined() bool {
	return errors.Is(r.Condition, domainerrors.ErrUndefinedConversion)
}

// TotalReconciliation is the outcome of a total reward change. Rows holds
// every row after the recompute; Skipped lists rows whose currency amount
// was left unchanged because a source field was not numeric.
type TotalReconciliation struct {
	Previous decimal.Decimal
	Current  decimal.Decimal
	Rows     []Row
	Skipped  []int
}

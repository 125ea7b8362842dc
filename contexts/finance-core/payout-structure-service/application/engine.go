package application

import (
	"fmt"
	"sync"

	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"
	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"

	"github.com/shopspring/decimal"
)

// EngineObserver receives every reconciliation after it has been written.
type EngineObserver interface {
	RowReconciled(rec entities.Reconciliation)
	TotalReconciled(rec entities.TotalReconciliation)
}

type EngineOption func(*Engine)

func WithObserver(observer EngineObserver) EngineOption {
	return func(e *Engine) {
		e.observer = observer
	}
}

// updateRule names the single field an edit recomputes and how.
type updateRule struct {
	derived entities.Field
	derive  func(row entities.Row, total decimal.Decimal) (decimal.Decimal, error)
}

// updateRules is the authoritative-vs-derived policy. The edited field is
// never a derived field of its own rule, so no write can trigger itself.
var updateRules = map[entities.Field]updateRule{
	entities.FieldRecipientCount: {derived: entities.FieldCurrencyAmount, derive: currencyForRow},
	entities.FieldPercentAmount:  {derived: entities.FieldCurrencyAmount, derive: currencyForRow},
	entities.FieldCurrencyAmount: {derived: entities.FieldPercentAmount, derive: percentForRow},
}

// Engine reconciles percentage and currency amounts of one payout structure.
// One mutex covers read, compute and write of every operation, including the
// full-table pass after a total reward change.
//
// The engine subscribes to the total reward store when it is built; the
// store must be mutated only through OnTotalRewardChange.
type Engine struct {
	mu          sync.Mutex
	rows        ports.RowStore
	total       ports.TotalRewardStore
	observer    EngineObserver
	unsubscribe func()
	lastTotal   entities.TotalReconciliation
}

func NewEngine(rows ports.RowStore, total ports.TotalRewardStore, opts ...EngineOption) *Engine {
	e := &Engine{
		rows:  rows,
		total: total,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.unsubscribe = total.Subscribe(e.totalRewardChanged)
	return e
}

// Close detaches the engine from its total reward store.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

func (e *Engine) OnRecipientCountChange(rowIndex int, count decimal.Decimal) (entities.Reconciliation, error) {
	return e.reconcile(rowIndex, entities.FieldRecipientCount, count)
}

func (e *Engine) OnPercentChange(rowIndex int, percent decimal.Decimal) (entities.Reconciliation, error) {
	return e.reconcile(rowIndex, entities.FieldPercentAmount, percent)
}

func (e *Engine) OnCurrencyChange(rowIndex int, currency decimal.Decimal) (entities.Reconciliation, error) {
	return e.reconcile(rowIndex, entities.FieldCurrencyAmount, currency)
}

// OnFieldChange dispatches a row edit by field name.
func (e *Engine) OnFieldChange(rowIndex int, field entities.Field, value decimal.Decimal) (entities.Reconciliation, error) {
	return e.reconcile(rowIndex, field, value)
}

// OnTotalRewardChange stores the new total and recomputes the currency amount
// of every row. Percent amounts are never touched.
func (e *Engine) OnTotalRewardChange(total decimal.Decimal) entities.TotalReconciliation {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastTotal = entities.TotalReconciliation{}
	e.total.Set(total)
	result := e.lastTotal
	e.lastTotal = entities.TotalReconciliation{}

	if e.observer != nil {
		e.observer.TotalReconciled(result)
	}
	return result
}

func (e *Engine) AppendRow(initial entities.Row) (int, entities.Row) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows.Append(initial), initial
}

func (e *Engine) RemoveRow(rowIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows.Remove(rowIndex)
}

// ClearField marks a row field as non-numeric without recomputing anything,
// mirroring an input the operator emptied.
func (e *Engine) ClearField(rowIndex int, field entities.Field) (entities.Row, error) {
	if !field.IsRowField() {
		return entities.Row{}, domainerrors.ErrInvalidField
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.rows.Set(rowIndex, field, decimal.NullDecimal{}); err != nil {
		return entities.Row{}, err
	}
	return e.rows.Get(rowIndex)
}

func (e *Engine) GetRow(rowIndex int) (entities.Row, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows.Get(rowIndex)
}

func (e *Engine) GetAllRows() []entities.Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows.All()
}

func (e *Engine) GetPercentSum() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return entities.PercentSum(e.rows.All())
}

func (e *Engine) TotalReward() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total.Get()
}

// Snapshot returns rows and total as of the same instant.
func (e *Engine) Snapshot() ([]entities.Row, decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows.All(), e.total.Get()
}

func (e *Engine) RowCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows.Len()
}

func (e *Engine) reconcile(rowIndex int, edited entities.Field, value decimal.Decimal) (entities.Reconciliation, error) {
	rule, ok := updateRules[edited]
	if !ok {
		return entities.Reconciliation{}, domainerrors.ErrInvalidField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	row, err := e.rows.Get(rowIndex)
	if err != nil {
		return entities.Reconciliation{}, err
	}

	authoritative := decimal.NewNullDecimal(value)
	if err := e.rows.Set(rowIndex, edited, authoritative); err != nil {
		return entities.Reconciliation{}, err
	}
	_ = row.SetValue(edited, authoritative)

	rec := entities.Reconciliation{
		RowIndex: rowIndex,
		Edited:   edited,
		Derived:  rule.derived,
	}
	derived, err := rule.derive(row, e.total.Get())
	if err != nil {
		rec.Condition = err
	} else {
		next := decimal.NewNullDecimal(derived)
		if err := e.rows.Set(rowIndex, rule.derived, next); err != nil {
			return entities.Reconciliation{}, err
		}
		_ = row.SetValue(rule.derived, next)
	}
	rec.Row = row

	if e.observer != nil {
		e.observer.RowReconciled(rec)
	}
	return rec, nil
}

// totalRewardChanged runs inside OnTotalRewardChange, which already holds mu.
func (e *Engine) totalRewardChanged(previous, current decimal.Decimal) {
	rows := e.rows.All()
	result := entities.TotalReconciliation{
		Previous: previous,
		Current:  current,
		Skipped:  make([]int, 0),
	}
	for i, row := range rows {
		currency, err := currencyForRow(row, current)
		if err != nil {
			result.Skipped = append(result.Skipped, i)
			continue
		}
		next := decimal.NewNullDecimal(currency)
		if err := e.rows.Set(i, entities.FieldCurrencyAmount, next); err != nil {
			result.Skipped = append(result.Skipped, i)
			continue
		}
		rows[i].CurrencyAmount = next
	}
	result.Rows = rows
	e.lastTotal = result
}

func currencyForRow(row entities.Row, total decimal.Decimal) (decimal.Decimal, error) {
	if !row.PercentAmount.Valid {
		return decimal.Zero, fmt.Errorf("%w: percent_amount is not a number", domainerrors.ErrUndefinedConversion)
	}
	if !row.RecipientCount.Valid {
		return decimal.Zero, fmt.Errorf("%w: recipient_count is not a number", domainerrors.ErrUndefinedConversion)
	}
	value, err := entities.CurrencyFromPercent(row.PercentAmount.Decimal, total, row.RecipientCount.Decimal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", domainerrors.ErrUndefinedConversion, err)
	}
	return value, nil
}

func percentForRow(row entities.Row, total decimal.Decimal) (decimal.Decimal, error) {
	if !row.CurrencyAmount.Valid {
		return decimal.Zero, fmt.Errorf("%w: currency_amount is not a number", domainerrors.ErrUndefinedConversion)
	}
	if !row.RecipientCount.Valid {
		return decimal.Zero, fmt.Errorf("%w: recipient_count is not a number", domainerrors.ErrUndefinedConversion)
	}
	if total.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: total reward is zero", domainerrors.ErrUndefinedConversion)
	}
	value, err := entities.PercentFromCurrency(row.CurrencyAmount.Decimal, total, row.RecipientCount.Decimal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", domainerrors.ErrUndefinedConversion, err)
	}
	return value, nil
}

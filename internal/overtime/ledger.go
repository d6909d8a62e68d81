package overtime

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateParams describes one ledger write. BalanceBefore/BalanceAfter are
// normally derived; setting them explicitly is an escape hatch for bulk
// migration only and is accepted even when inconsistent (logged at error
// severity, never silently dropped).
type CreateParams struct {
	UserID        uuid.UUID
	Date          time.Time
	Type          string
	Hours         float64
	Description   string
	ReferenceType *string
	ReferenceID   *uuid.UUID
	CreatedBy     *uuid.UUID

	BalanceBefore *float64
	BalanceAfter  *float64
}

// Ledger owns the append-only overtime_transactions store. Writes are
// idempotent on the natural key (user, date, type, hours±0.01, reference);
// the existence check runs against the same repository scope as the insert,
// so callers who pass a tx-scoped ledger get check and insert in one
// database transaction.
type Ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger ...*zap.Logger) *Ledger {
	l := zap.L().Named("overtime.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overtime.ledger")
	}
	return &Ledger{repo: repo, logger: l}
}

// WithTx returns a ledger whose existence check and insert share the given
// database transaction.
func (l *Ledger) WithTx(tx *sql.Tx) *Ledger {
	return &Ledger{repo: l.repo.WithTx(tx), logger: l.logger}
}

// Create appends one transaction. It returns nil (and no error) when a row
// matching the natural key already exists: the same business event applied
// twice must not produce a duplicate.
func (l *Ledger) Create(ctx context.Context, p CreateParams) (*uuid.UUID, error) {
	var refID *string
	if p.ReferenceID != nil {
		v := p.ReferenceID.String()
		refID = &v
	}

	exists, err := l.repo.TransactionExists(ctx, p.UserID.String(), p.Date, p.Type, p.Hours, p.ReferenceType, refID)
	if err != nil {
		return nil, err
	}
	if exists {
		l.logger.Debug("duplicate ledger write skipped",
			zap.String("user_id", p.UserID.String()),
			zap.String("type", p.Type),
			zap.Float64("hours", p.Hours),
		)
		return nil, nil
	}

	var before float64
	if p.BalanceBefore != nil {
		before = *p.BalanceBefore
	} else {
		before, err = l.repo.LatestBalanceAfter(ctx, p.UserID.String())
		if err != nil {
			return nil, err
		}
	}

	after := round2(before + p.Hours)
	if p.BalanceAfter != nil {
		after = *p.BalanceAfter
	}

	// The ledger trusts explicit overrides but refuses to hide a broken
	// chain.
	if math.Abs(after-(before+p.Hours)) > hoursTolerance {
		l.logger.Error("ledger balance invariant violated, writing as given",
			zap.String("user_id", p.UserID.String()),
			zap.String("type", p.Type),
			zap.Float64("hours", p.Hours),
			zap.Float64("balance_before", before),
			zap.Float64("balance_after", after),
		)
	}

	t := &Transaction{
		ID:            uuid.New(),
		UserID:        p.UserID,
		Date:          p.Date,
		Type:          p.Type,
		Hours:         p.Hours,
		Description:   p.Description,
		ReferenceType: p.ReferenceType,
		ReferenceID:   p.ReferenceID,
		CreatedBy:     p.CreatedBy,
		BalanceBefore: round2(before),
		BalanceAfter:  after,
	}

	if err := l.repo.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return &t.ID, nil
}

// CreateBatch appends transactions in order. Atomicity comes from the caller
// running the batch inside one database transaction (WithTx).
func (l *Ledger) CreateBatch(ctx context.Context, params []CreateParams) ([]*uuid.UUID, error) {
	ids := make([]*uuid.UUID, 0, len(params))
	for _, p := range params {
		id, err := l.Create(ctx, p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DeleteRange wipes transactions for a clean recompute. Ordinary corrections
// never use this; they are new correction rows that preserve history.
func (l *Ledger) DeleteRange(ctx context.Context, userID uuid.UUID, from, to time.Time, types ...string) (int64, error) {
	count, err := l.repo.DeleteTransactionsInRange(ctx, userID.String(), from, to, types)
	if err != nil {
		return 0, err
	}
	l.logger.Info("ledger range deleted",
		zap.String("user_id", userID.String()),
		zap.Int64("count", count),
	)
	return count, nil
}

// DeleteByReference removes every transaction the given business event
// produced. Used when the originating row (an absence) is cancelled.
func (l *Ledger) DeleteByReference(ctx context.Context, refType, refID string) (int64, error) {
	count, err := l.repo.DeleteTransactionsByReference(ctx, refType, refID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		l.logger.Info("ledger reference reversed",
			zap.String("reference_type", refType),
			zap.String("reference_id", refID),
			zap.Int64("count", count),
		)
	}
	return count, nil
}

// InRange returns transactions ordered by date, then insertion order.
func (l *Ledger) InRange(ctx context.Context, userID uuid.UUID, from, to time.Time, types ...string) ([]Transaction, error) {
	return l.repo.TransactionsInRange(ctx, userID.String(), from, to, types)
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

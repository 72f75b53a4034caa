package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateQueryCanceled        = "57014"
)

// classify maps transient PostgreSQL failures onto ConcurrentModification. Anything else is returned as is.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return domain.NewConcurrentModification("", err)
		case sqlStateLockNotAvailable, sqlStateQueryCanceled:
			return domain.NewConcurrentModification(domain.MsgLockTimeout, err)
		}
	}
	return err
}

func execRequiredRows(ctx context.Context, q queryer, notFound error, query string, args ...any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("execute statement: %w", classify(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

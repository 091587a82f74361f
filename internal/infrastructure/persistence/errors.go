package persistence

import (
	"errors"
	"strings"

	"github.com/agrotrace/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// integrityViolationClass is the SQLSTATE class of integrity constraint violations
const integrityViolationClass = "23"

// translateError maps driver errors to domain errors. Missing rows become
// NOT_FOUND and constraint violations become BAD_REQUEST carrying the
// driver's message. Anything else is returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, integrityViolationClass) {
		return shared.NewBadRequestError("%s", pgErr.Message)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return shared.NewBadRequestError("%s", sqliteErr.Error())
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return shared.NewBadRequestError("%s", err.Error())
	}
	return err
}

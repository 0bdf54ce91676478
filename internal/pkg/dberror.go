package pkg

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/domain"
)

// MapDBError converts GORM errors to domain errors. entity names the record
// in not-found and conflict messages, e.g. "album".
func MapDBError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.CodeOf(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewAppError(domain.CodeNotFound, entity+" not found", nil)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, entity+" already exists", err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyError(err) {
		return domain.NewAppError(domain.CodeValidation, entity+" references a missing record", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. Not every dialector translates driver errors to
// gorm.ErrDuplicatedKey.
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isForeignKeyError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

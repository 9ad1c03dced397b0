package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type constraint int

const (
	noViolation constraint = iota
	uniqueViolation
	foreignKeyViolation
	notNullViolation
	checkViolation
)

// sqlStates maps PostgreSQL SQLSTATE codes to the violated constraint kind.
var sqlStates = map[string]constraint{
	"23505": uniqueViolation,
	"23503": foreignKeyViolation,
	"23502": notNullViolation,
	"23514": checkViolation,
}

// constraintOf classifies a write error. GORM's translated sentinels win;
// otherwise the driver message is searched for a SQLSTATE code or phrase.
func constraintOf(err error) constraint {
	switch {
	case err == nil:
		return noViolation
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return uniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return foreignKeyViolation
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return checkViolation
	}

	msg := strings.ToLower(err.Error())
	for code, kind := range sqlStates {
		if strings.Contains(msg, code) {
			return kind
		}
	}

	switch {
	case strings.Contains(msg, "duplicate key"):
		return uniqueViolation
	case strings.Contains(msg, "foreign key"):
		return foreignKeyViolation
	case strings.Contains(msg, "null value"):
		return notNullViolation
	case strings.Contains(msg, "check constraint"):
		return checkViolation
	}

	return noViolation
}

// Package pgerr распознаёт ошибки PostgreSQL, которые репозитории превращают в доменные
package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeSerializationFail   = "40001"
)

func code(err error) (pq.ErrorCode, string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code, pqErr.Constraint, true
	}
	return "", "", false
}

// IsUniqueViolation нарушение уникального ограничения или индекса
func IsUniqueViolation(err error) bool {
	c, _, ok := code(err)
	return ok && c == codeUniqueViolation
}

// IsForeignKeyViolation нарушение внешнего ключа
func IsForeignKeyViolation(err error) bool {
	c, _, ok := code(err)
	return ok && c == codeForeignKeyViolation
}

// IsCheckViolation нарушение CHECK ограничения
func IsCheckViolation(err error) bool {
	c, _, ok := code(err)
	return ok && c == codeCheckViolation
}

// IsSerializationFailure конфликт сериализуемой транзакции
func IsSerializationFailure(err error) bool {
	c, _, ok := code(err)
	return ok && c == codeSerializationFail
}

// Constraint имя нарушенного ограничения, если err пришла от PostgreSQL
func Constraint(err error) string {
	_, constraint, _ := code(err)
	return constraint
}

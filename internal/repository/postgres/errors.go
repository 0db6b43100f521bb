package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the repositories translate into domain errors.
const (
	codeUniqueViolation           = "23505"
	codeForeignKeyViolation       = "23503"
	codeInvalidTextRepresentation = "22P02"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func isDuplicate(err error) bool {
	var pe *pq.Error
	return errors.As(err, &pe) && pe.Code == uniqueViolation
}

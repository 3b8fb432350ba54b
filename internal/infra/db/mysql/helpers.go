package mysql

import (
	"errors"

	driver "github.com/go-sql-driver/mysql"
)

const errDupEntry = 1062

// isDuplicate reports a primary key collision (ER_DUP_ENTRY)
func isDuplicate(err error) bool {
	var me *driver.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}

package dbutil

import (
	"github.com/Aidin1998/minitask/common/errors"
	"gorm.io/gorm"
)

// ExpectRows converts a finished statement into an error: the wrapped
// statement error if any, notFound when nothing was touched.
func ExpectRows(result *gorm.DB, notFound *errors.Error) error {
	if result.Error != nil {
		return WrapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmptyImport     = errors.New("import contains no rows")
	ErrUnreadableSheet = errors.New("spreadsheet could not be read")
)

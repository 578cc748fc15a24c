package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

func ErrorDuplicateRecord(column string) error {
	return errors.New(column + " already exists")
}

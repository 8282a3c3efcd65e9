package models

import "errors"

var (
	ErrInvalidStartDate = errors.New("start_date must be YYYY-MM-DD")
	ErrInvalidEndDate   = errors.New("end_date must be YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("end_date is before start_date")
)

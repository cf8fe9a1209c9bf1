package models

import "errors"

// Custom errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key violation")
	ErrModelUnavailable   = errors.New("model file missing or unreadable")
	ErrCalibrationMissing = errors.New("calibration file missing or unreadable")
	ErrEmptyDataset       = errors.New("dataset is empty")
)

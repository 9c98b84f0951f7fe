package repository

import "errors"

var (
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrProgressNotFound   = errors.New("progress not found")
	ErrStorage            = errors.New("storage error")
)

package jobrun

import "errors"

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrModelNotFound       = errors.New("model not found")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrProvider            = errors.New("provider rejected the run")
)

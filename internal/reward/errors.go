package reward

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoReward      = errors.New("no reward for submitted workouts")
	ErrMisconfigured = errors.New("server misconfigured")
)

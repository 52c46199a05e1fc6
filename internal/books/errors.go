package books

import "errors"

// Rejections returned by commands. The state is unchanged when any of
// them is returned.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalid         = errors.New("invalid input")
	ErrAccountInUse    = errors.New("account has transactions")
	ErrCostCenterInUse = errors.New("cost center has transactions")
	ErrLastAccount     = errors.New("the last account cannot be deleted")
	ErrLastCostCenter  = errors.New("the last cost center cannot be deleted")
)

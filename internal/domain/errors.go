package domain

import "errors"

// ErrBillingRequired indicates that the remote API rejected the request
// because image generation requires a billed account.
var ErrBillingRequired = errors.New("image generation requires a billed account")

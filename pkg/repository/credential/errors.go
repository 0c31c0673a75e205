package credential

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the credential store
var (
	ErrNotFound = goerr.New("credentials file not found")
	ErrInvalid  = goerr.New("invalid credentials record")
)

// Context keys for error values
const (
	PathKey = "path"
)

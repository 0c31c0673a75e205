package memory

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the memory store
var (
	ErrNotFound    = goerr.New("memory not found")
	ErrInvalidName = goerr.New("invalid memory name")
)

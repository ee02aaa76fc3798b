package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Backend errors
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrDecode             = fmt.Errorf("unexpected response body")

	// Dashboard workflow errors
	ErrRequestInFlight = fmt.Errorf("request already in flight")
	ErrEmptySelection  = fmt.Errorf("no tracks selected")
	ErrWorkflowClosed  = fmt.Errorf("save workflow is not open")

	// Storage errors
	ErrNotFound = fmt.Errorf("record not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

package docstore

import "errors"

var (
	ErrFailedToConnect   = errors.New("failed to connect to document store")
	ErrHealthcheckFailed = errors.New("document store healthcheck failed")
	ErrInvalidPath       = errors.New("invalid document path")
)

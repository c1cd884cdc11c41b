package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyQuery       = errors.New("empty query")
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

package repository

import (
	"database/sql"
	"errors"
)

// HandleNotFound maps sql.ErrNoRows to a (nil, nil) result. Find* methods in
// this package treat a missing row as an answer, not a failure; callers decide
// whether absence is an error (settings resolution returns defaults, session
// lookup returns 401).
func HandleNotFound[T any](result *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

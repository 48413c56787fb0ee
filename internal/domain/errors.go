package domain

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateMovie = errors.New("a movie with the same name and release date already exists")
)

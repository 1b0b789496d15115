package web_search

import "errors"

type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

var ErrMissingAPIKey = errors.New("search api key not set")

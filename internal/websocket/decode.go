package websocket

import (
	"encoding/json"
	"errors"
)

var errUnknownType = errors.New("unknown message type")

type decodeError struct{ err error }

func (e decodeError) Error() string { return "decode payload: " + e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

func decode[T any](raw json.RawMessage) (T, error) {
	var data T
	if len(raw) == 0 {
		return data, decodeError{errors.New("missing data")}
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, decodeError{err}
	}
	return data, nil
}

func errorsIsDecode(err error) bool {
	var de decodeError
	return errors.As(err, &de)
}

package handler

import (
	"fmt"
	"maps"
)

// ResultStatus is the outcome of an action.
type ResultStatus uint8

const (
	StatusOK ResultStatus = iota
	// StatusCancelled means the user dismissed a prompt; nothing changed.
	StatusCancelled
	StatusError
)

var statusNames = [...]string{
	StatusOK:        "ok",
	StatusCancelled: "cancelled",
	StatusError:     "error",
}

func (s ResultStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", s)
}

// Result is returned by every handler. Message is meant for the status
// line; Data carries values such as the language that was used.
type Result struct {
	Status  ResultStatus
	Error   error
	Message string
	Data    map[string]any
}

func (r Result) IsOK() bool    { return r.Status == StatusOK }
func (r Result) IsError() bool { return r.Status == StatusError }

func Success() Result { return Result{Status: StatusOK} }

func SuccessWithMessage(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

func Cancelled() Result { return Result{Status: StatusCancelled} }

func Error(err error) Result { return Result{Status: StatusError, Error: err} }

func Errorf(format string, args ...any) Result {
	return Error(fmt.Errorf(format, args...))
}

// WithMessage returns a copy of r with msg.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

// WithData returns a copy of r with key set. r itself is not modified.
func (r Result) WithData(key string, value any) Result {
	data := maps.Clone(r.Data)
	if data == nil {
		data = make(map[string]any, 1)
	}
	data[key] = value
	r.Data = data
	return r
}

func (r Result) GetData(key string) (any, bool) {
	v, ok := r.Data[key]
	return v, ok
}

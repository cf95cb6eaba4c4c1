package service

import (
	"errors"
	"fmt"
)

// Validation errors: the request itself is unusable.
var (
	ErrNoFile      = errors.New("no file uploaded")
	ErrNoJSON      = errors.New("no JSON data provided")
	ErrInvalidText = errors.New("field text must be a string")
)

// DecodeError reports uploaded bytes that are not a decodable image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// Engine operations named in EngineError.Op.
const (
	OpRecognize = "recognize"
	OpPing      = "ping"
	OpSerialize = "serialize document"
)

// EngineError reports a failure inside an external collaborator
// (OCR engine or document serializer). Op names the failed step.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *EngineError) Unwrap() error { return e.Err }

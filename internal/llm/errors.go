package llm

import (
	"errors"
	"fmt"
)

// Error kinds. Every adapter error wraps exactly one of these.
var (
	// ErrConfiguration: missing or invalid credentials or endpoint, detected at call time.
	ErrConfiguration = errors.New("provider is not configured")
	// ErrTransport: network failure or non-2xx response.
	ErrTransport = errors.New("provider request failed")
	// ErrContract: the provider answered but an expected field is absent or unparseable.
	ErrContract = errors.New("unexpected provider response")
)

// Stage names the generation step an error came from.
type Stage string

const (
	StagePackage Stage = "package"
	StageCover   Stage = "cover"
	StageAudio   Stage = "audio"
)

// StageError annotates an adapter error with its generation stage and provider.
type StageError struct {
	Stage    Stage
	Provider string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s generation via %s: %v", e.Stage, e.Provider, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, provider string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Provider: provider, Err: err}
}

// kindErr wraps a detail message under one of the error kinds.
func kindErr(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// transportErr classifies an SDK call error as a transport failure unless it already carries a kind.
func transportErr(err error) error {
	if errors.Is(err, ErrConfiguration) || errors.Is(err, ErrTransport) || errors.Is(err, ErrContract) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

// StageOf returns the stage of err, or "" if err carries none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

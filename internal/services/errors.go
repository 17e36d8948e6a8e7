package services

import (
	"errors"
	"fmt"
)

var (
	ErrTemplateNotFound   = errors.New("template not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrGenerationNotFound = errors.New("generation not found")
	ErrStorageDisabled    = errors.New("template storage is not configured")
)

// ValidationError is caller input that can be fixed and resubmitted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// MissingVariableError names the first template placeholder that received
// no value.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing value for placeholder %q", e.Name)
}

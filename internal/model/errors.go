package model

import "errors"

var (
	// ErrInvalidTarget is returned for unknown entity kinds, actions or ids.
	ErrInvalidTarget = errors.New("invalid reaction target")

	// ErrPending is returned when a control is still waiting for its reply
	// (or was locked by a rejected reply). The activation is ignored.
	ErrPending = errors.New("control is pending")

	// ErrUnbound is returned when activating a control that was never bound.
	ErrUnbound = errors.New("control is not bound")
)

package domain

import "errors"

var (
	// ErrSessionAlreadyExists is returned when a host tries to open a second live session.
	ErrSessionAlreadyExists = errors.New("session already exists for this host")
	// ErrSessionNotFound is returned when a host has no live session.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrGameInProgress is returned when the roster is modified during an active round.
	ErrGameInProgress = errors.New("game in progress")
	// ErrParticipantLimitReached is returned when the roster is full.
	ErrParticipantLimitReached = errors.New("participant limit reached")
	// ErrDuplicateName is returned when a participant name is already taken in the session.
	ErrDuplicateName = errors.New("participant name already taken")
	// ErrSessionBusy is returned when a round is started while another is active.
	ErrSessionBusy = errors.New("another participant is already playing")
	// ErrParticipantNotFound is returned when a participant id does not resolve.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrSessionNotActive is returned when an answer arrives with no round in flight.
	ErrSessionNotActive = errors.New("no active round")
	// ErrNotYourTurn is returned when someone other than the current player answers.
	ErrNotYourTurn = errors.New("participant is not the current player")
	// ErrNoQuestionsAvailable indicates an empty question pool for a level.
	ErrNoQuestionsAvailable = errors.New("no questions available for level")
)

package internal

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomAlreadyExists  = errors.New("room already exists")
	ErrRoomFull           = errors.New("room is full")
	ErrRegistryAtCapacity = errors.New("server has reached its room limit")
	ErrInvalidActor       = errors.New("only the current drawer can do that")
	ErrInvalidPhase       = errors.New("action not allowed right now")
	ErrInvalidWord        = errors.New("word was not one of the options")
)

// ErrNotInRoom is an actor error for senders that are not members of the room.
var ErrNotInRoom = fmt.Errorf("%w: player is not in this room", ErrInvalidActor)

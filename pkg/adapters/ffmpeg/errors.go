package ffmpeg

import "errors"

var (
	// ErrNotFound is returned when no ffmpeg binary can be located.
	ErrNotFound = errors.New("ffmpeg: binary not found")

	// ErrStart is returned when the process could not be started.
	ErrStart = errors.New("ffmpeg: failed to start")
)

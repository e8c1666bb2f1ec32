package merge

// Package merge combines separately downloaded video and audio streams
// into a single container by driving the ffmpeg executable.

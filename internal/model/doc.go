package model

// Package model defines domain data structures shared by the selector, the
// session controller and both front-ends: raw format descriptors, quality
// options, video metadata and the session state enum. Values are plain data
// so renderers can read them without holding independent truth.

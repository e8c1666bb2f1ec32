package quality

// Package quality turns raw extractor format lists into the user-facing
// quality menu and hosts the small pure helpers both front-ends share:
// human file sizes, filename sanitisation and the YouTube URL shape check.
// Nothing here performs I/O.

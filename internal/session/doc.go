package session

// Package session implements the interactive session state machine shared by
// the console and graphical front-ends. A Controller owns the URL, metadata,
// quality menu, selection and destination of one session; front-ends issue
// commands and render the resulting state.

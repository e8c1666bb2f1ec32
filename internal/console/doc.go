package console

// Package console renders a session.Controller as a sequence of prompts on
// a line-oriented terminal.

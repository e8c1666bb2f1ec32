package ui

// Package ui contains the Fyne desktop front-end. RootUI renders a
// session.Controller: lookups and downloads run off the UI thread and their
// results are applied through fyne.Do. All strings go through i18n.

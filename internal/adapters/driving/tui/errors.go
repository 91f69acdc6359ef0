package tui

import "errors"

// ErrNothingToBrowse is returned when the app has neither segments nor a
// run archive to show.
var ErrNothingToBrowse = errors.New("tui: no segments or run archive to browse")

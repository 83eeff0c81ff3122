package tui

import "github.com/agripath/agripath/internal/content"

// Message types for Bubble Tea update loop.

// autoplayTickMsg is one tick of a lane's autoplay timer. Ticks whose gen is
// no longer current are dropped and not rescheduled.
type autoplayTickMsg struct {
	lane int
	gen  uint64
}

// mountSettledMsg fires once the initial settle delay after mounting a lane.
type mountSettledMsg struct {
	lane int
	gen  uint64
}

// frameMsg advances spring animations and polls viewability. Frames of an
// abandoned frame loop carry an old gen and are dropped.
type frameMsg struct{ gen uint64 }

// catalogReloadedMsg carries a catalog from the file watcher or the feed.
type catalogReloadedMsg struct {
	Catalog *content.Catalog
	Source  string
	Err     error
}

// careerFetchedMsg carries a refreshed career for the detail page.
type careerFetchedMsg struct {
	Career *content.Career
	Err    error
}

// clearStatusMsg hides the status line unless a newer status replaced it.
type clearStatusMsg struct{ seq int }

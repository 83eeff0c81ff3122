package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	bannerLane = 0
	careerLane = 1
	laneCount  = 2

	// Layout, in terminal rows. laneAt depends on these.
	headerLines = 2
	bannerRows  = 5
	cardRows    = 9
	dotsLines   = 1
	sectionGap  = 1

	stripMargin   = 2
	maxStripWidth = 120
	detailChrome  = 4

	// dragNudge is how far, in strides, a key press drags the strip before
	// releasing it. More than half a stride snaps to the neighbour.
	dragNudge = 0.6

	statusTTL       = 3 * time.Second
	feedTimeout     = 10 * time.Second
	defaultDetailMD = "dark"
)

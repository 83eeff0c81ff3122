package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/agripath/agripath/internal/api"
	"github.com/agripath/agripath/internal/carousel"
	"github.com/agripath/agripath/internal/content"
	"github.com/agripath/agripath/internal/shortlist"
	"github.com/agripath/agripath/internal/storage"
)

//nolint:gochecknoglobals // replaced in tests.
var clipboardWriteAll = clipboard.WriteAll

// lane is the type-independent surface of a carousel instance.
type lane interface {
	Name() string
	Config() carousel.Config
	Empty() bool
	Active() int
	Animating() bool
	Dragging() bool
	Attach(width int)
	Attached() bool
	Mount() uint64
	MountSettled(gen uint64) (uint64, bool)
	Unmount()
	SetAutoplay(on bool) (uint64, bool)
	Autoplay() *carousel.Autoplay
	BeginDrag()
	DragBy(delta float64)
	Release(steps int)
	Step() bool
	Settle() carousel.SettleResult
	Tick(gen uint64) carousel.TickResult
	PollViewability() (int, bool)
	DotWidths() []int
	Restore(i int)
}

// Options wires the model to its data and collaborators.
type Options struct {
	Catalog   *content.Catalog
	Banners   carousel.Config
	Careers   carousel.Config
	Shortlist *shortlist.Manager
	// Feed refreshes the catalog and career details. Nil keeps the model offline.
	Feed    api.FeedClient
	Offline bool
	// OnExplore is called when the user explores a career.
	OnExplore func(content.Career)
	// DetailStyle is a glamour style name; "notty" renders plain text.
	DetailStyle string
	Now         func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx context.Context

	banners *carousel.Carousel[content.Banner]
	careers *carousel.Carousel[content.Career]
	lanes   [laneCount]lane
	focus   int

	profile   *storage.Storage
	shortlist *shortlist.Manager
	feed      api.FeedClient
	onExplore func(content.Career)

	autoplayOn   bool
	laneAutoplay [laneCount]bool

	// framing is true while a frame loop tagged frameGen runs.
	framing       bool
	frameGen      uint64
	motionUntil   time.Time
	frameInterval time.Duration

	detail      *detailPage
	detailStyle string

	status    string
	statusSeq int

	width    int
	height   int
	quitting bool
	offline  bool

	help help.Model
	keys keyMap
	now  func() time.Time
}

// NewModel constructs a Model with initial state. Active indexes remembered
// in the profile are restored.
func NewModel(ctx context.Context, opts Options) Model { // nolint:ireturn
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	style := opts.DetailStyle
	if style == "" {
		style = defaultDetailMD
	}
	m := Model{
		ctx:           ctx,
		banners:       carousel.New[content.Banner]("banners", opts.Banners, carousel.WithClock(now)),
		careers:       carousel.New[content.Career]("careers", opts.Careers, carousel.WithClock(now)),
		shortlist:     opts.Shortlist,
		profile:       opts.Shortlist.Storage,
		feed:          opts.Feed,
		onExplore:     opts.OnExplore,
		autoplayOn:    opts.Banners.Autoplay || opts.Careers.Autoplay,
		frameInterval: opts.Banners.FrameInterval(),
		detailStyle:   style,
		offline:       opts.Offline || opts.Feed == nil,
		help:          help.New(),
		keys:          newKeyMap(),
		now:           now,
	}
	m.lanes = [laneCount]lane{m.banners, m.careers}
	m.laneAutoplay = [laneCount]bool{opts.Banners.Autoplay, opts.Careers.Autoplay}
	m.applyCatalog(opts.Catalog)
	for _, l := range m.lanes {
		if idx, ok := m.profile.LastActive(l.Name()); ok {
			l.Restore(idx)
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, laneCount+1)
	for i := range m.lanes {
		cmds = append(cmds, m.mountLane(i))
	}
	cmds = append(cmds, m.fetchCatalog())
	return tea.Batch(cmds...)
}

// mountLane mounts lane i and schedules its initial settle callback.
func (m Model) mountLane(i int) tea.Cmd {
	l := m.lanes[i]
	gen := l.Mount()
	return tea.Tick(l.Config().InitialSettleDelay, func(time.Time) tea.Msg {
		return mountSettledMsg{lane: i, gen: gen}
	})
}

// autoplayTick schedules the next tick of lane i's timer gen.
func (m Model) autoplayTick(i int, gen uint64) tea.Cmd {
	return tea.Tick(m.lanes[i].Autoplay().Interval(), func(time.Time) tea.Msg {
		return autoplayTickMsg{lane: i, gen: gen}
	})
}

// frame schedules the next animation frame.
func (m Model) frame() tea.Cmd {
	gen := m.frameGen
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg { return frameMsg{gen: gen} })
}

// fetchCatalog asks the feed for a fresher catalog.
func (m Model) fetchCatalog() tea.Cmd {
	if m.feed == nil || m.offline {
		return nil
	}
	feed, ctx := m.feed, m.ctx
	return func() tea.Msg {
		fctx, cancel := context.WithTimeout(ctx, feedTimeout)
		defer cancel()
		c, err := feed.FetchCatalog(fctx)
		if err != nil {
			logrus.Debugf("feed catalog: %v", err)
		}
		return catalogReloadedMsg{Catalog: c, Source: "feed", Err: err}
	}
}

// fetchCareer refreshes one career for the detail page.
func (m Model) fetchCareer(id string) tea.Cmd {
	if m.feed == nil || m.offline {
		return nil
	}
	feed, ctx := m.feed, m.ctx
	return func() tea.Msg {
		fctx, cancel := context.WithTimeout(ctx, feedTimeout)
		defer cancel()
		c, err := feed.FetchCareer(fctx, id)
		return careerFetchedMsg{Career: c, Err: err}
	}
}

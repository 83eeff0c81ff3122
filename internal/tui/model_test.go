//nolint:testpackage // White-box tests drive the update loop with unexported messages.
package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agripath/agripath/internal/api"
	"github.com/agripath/agripath/internal/carousel"
	"github.com/agripath/agripath/internal/content"
	"github.com/agripath/agripath/internal/shortlist"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func testCatalog() *content.Catalog {
	return &content.Catalog{
		Banners: []content.Banner{
			{ID: "b1", Image: "assets/b1.png", Caption: "Kharif guide"},
			{ID: "b2", Image: "assets/b2.png", Caption: "Drone course"},
			{ID: "b3", Image: "assets/b3.png", Caption: "Refer and earn"},
		},
		Careers: []content.Career{
			{ID: "agronomist", Title: "Agronomist", Body: "Plan crop rotations.", Detail: "# Agronomist\n\nField work.",
				Course: &content.Course{Name: "Applied Agronomy", PricePaise: 499900, DurationWeeks: 12}},
			{ID: "soil-scientist", Title: "Soil Scientist", Body: "Test soil."},
			{ID: "drone-pilot", Title: "Agri Drone Pilot", Body: "Fly drones."},
		},
	}
}

func testLaneConfig() carousel.Config {
	cfg := carousel.DefaultConfig()
	cfg.CloneCount = 1
	cfg.Stride = 20
	return cfg
}

// harness drives a Model through Update. Tests using it swap the package
// clipboard hook and so do not run in parallel.
type harness struct {
	m       Model
	clk     *fakeClock
	path    string
	copied  []string
	explore []string
}

// fakeFeed serves a fixed catalog and careers by id.
type fakeFeed struct {
	catalog *content.Catalog
	careers map[string]content.Career
	asked   []string
}

func (f *fakeFeed) FetchCatalog(context.Context) (*content.Catalog, error) {
	return f.catalog, nil
}

func (f *fakeFeed) FetchCareer(_ context.Context, id string) (*content.Career, error) {
	f.asked = append(f.asked, id)
	c, ok := f.careers[id]
	if !ok {
		return nil, api.ErrNotFound
	}
	return &c, nil
}

func withFeed(f api.FeedClient) func(*Options) {
	return func(o *Options) { o.Feed = f }
}

func newHarness(t *testing.T, cat *content.Catalog, opts ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		clk:  &fakeClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)},
		path: filepath.Join(t.TempDir(), "profile.json"),
	}
	sl, err := shortlist.NewManager(h.path, cat)
	require.NoError(t, err)

	prev := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		h.copied = append(h.copied, s)
		return nil
	}
	t.Cleanup(func() { clipboardWriteAll = prev })

	o := Options{
		Catalog:     cat,
		Banners:     testLaneConfig(),
		Careers:     testLaneConfig(),
		Shortlist:   sl,
		OnExplore:   func(c content.Career) { h.explore = append(h.explore, c.ID) },
		DetailStyle: "notty",
		Now:         h.clk.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	h.m = NewModel(context.Background(), o)
	h.send(t, tea.WindowSizeMsg{Width: 64, Height: 40})
	return h
}

func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.m.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	h.m = m
	return cmd
}

func (h *harness) key(t *testing.T, k string) tea.Cmd {
	t.Helper()
	switch k {
	case "right":
		return h.send(t, tea.KeyMsg{Type: tea.KeyRight})
	case "left":
		return h.send(t, tea.KeyMsg{Type: tea.KeyLeft})
	case "tab":
		return h.send(t, tea.KeyMsg{Type: tea.KeyTab})
	case "enter":
		return h.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	default:
		return h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

// mount runs the initial settle of lane i and returns its autoplay generation.
func (h *harness) mount(t *testing.T, i int) uint64 {
	t.Helper()
	gen := h.m.lanes[i].Mount()
	cmd := h.send(t, mountSettledMsg{lane: i, gen: gen})
	require.NotNil(t, cmd)
	return h.m.lanes[i].Autoplay().Generation()
}

// runFrames delivers frames until the frame loop stops.
func (h *harness) runFrames(t *testing.T) {
	t.Helper()
	for range 10000 {
		if !h.m.framing {
			return
		}
		h.clk.Advance(h.m.frameInterval)
		h.send(t, frameMsg{gen: h.m.frameGen})
	}
	t.Fatal("frame loop never stopped")
}

func TestNewModel_AttachesOnResize(t *testing.T) {
	h := newHarness(t, testCatalog())
	for _, l := range h.m.lanes {
		assert.True(t, l.Attached())
		assert.Equal(t, 0, l.Active())
	}
	assert.NotNil(t, h.m.Init())
}

func TestMountSettled_StartsAutoplay(t *testing.T) {
	h := newHarness(t, testCatalog())
	gen := h.mount(t, bannerLane)
	assert.Equal(t, carousel.Running, h.m.banners.Autoplay().State())

	cmd := h.send(t, autoplayTickMsg{lane: bannerLane, gen: gen})
	require.NotNil(t, cmd)
	assert.True(t, h.m.banners.Animating())

	h.runFrames(t)
	assert.Equal(t, 1, h.m.banners.Active())
	// An autoplay advance keeps the same timer running.
	assert.Equal(t, gen, h.m.banners.Autoplay().Generation())
	assert.Empty(t, h.explore, "autoplay never explores")
}

func TestAutoplay_WrapsThroughClones(t *testing.T) {
	h := newHarness(t, testCatalog())
	gen := h.mount(t, bannerLane)
	for range 3 {
		h.send(t, autoplayTickMsg{lane: bannerLane, gen: gen})
		h.runFrames(t)
	}
	assert.Equal(t, 0, h.m.banners.Active())
	// Back in the real region after the jump.
	assert.InDelta(t, 3*20.0, h.m.banners.Position(), 1e-9)
}

func TestDrag_PausesAutoplayAndResumesOnSettle(t *testing.T) {
	h := newHarness(t, testCatalog())
	oldGen := h.mount(t, bannerLane)

	require.NotNil(t, h.key(t, "right"))
	assert.Equal(t, carousel.Paused, h.m.banners.Autoplay().State())

	// The old timer's tick is stale and is not rescheduled.
	assert.Nil(t, h.send(t, autoplayTickMsg{lane: bannerLane, gen: oldGen}))

	h.runFrames(t)
	assert.Equal(t, 1, h.m.banners.Active())
	assert.Equal(t, carousel.Running, h.m.banners.Autoplay().State())
	assert.NotEqual(t, oldGen, h.m.banners.Autoplay().Generation())
	assert.Equal(t, 1, h.m.profile.Data.LastActive["banners"])
}

func TestDrag_LeftFromFirstWrapsToLast(t *testing.T) {
	h := newHarness(t, testCatalog())
	h.key(t, "left")
	h.runFrames(t)
	assert.Equal(t, 2, h.m.banners.Active())
	assert.InDelta(t, 5*20.0, h.m.banners.Position(), 1e-9)
}

func TestMouseWheel_DragsLaneUnderPointer(t *testing.T) {
	h := newHarness(t, testCatalog())
	h.send(t, tea.MouseMsg{X: 10, Y: 14, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, careerLane, h.m.focus)
	h.runFrames(t)
	assert.Equal(t, 1, h.m.careers.Active())
	assert.Equal(t, 0, h.m.banners.Active())
}

func TestExplore_RecordsAndOpensDetail(t *testing.T) {
	h := newHarness(t, testCatalog())

	// Enter on the banner lane does nothing.
	assert.Nil(t, h.key(t, "enter"))
	assert.Nil(t, h.m.detail)

	h.key(t, "tab")
	h.key(t, "enter")
	require.NotNil(t, h.m.detail)
	assert.Equal(t, []string{"agronomist"}, h.explore)
	assert.Equal(t, 10, h.m.profile.Data.WalletPoints)
	for _, l := range h.m.lanes {
		assert.False(t, l.Attached(), "lanes are unmounted behind the detail page")
	}
	view := h.m.View()
	assert.Contains(t, view, "Agronomist")
	assert.Contains(t, view, "₹4,999.00")

	h.key(t, "esc")
	assert.Nil(t, h.m.detail)
	for _, l := range h.m.lanes {
		assert.True(t, l.Attached())
	}

	// A second exploration earns nothing.
	h.key(t, "enter")
	assert.Equal(t, 10, h.m.profile.Data.WalletPoints)
	assert.Len(t, h.m.profile.Data.Explored, 2)
}

func TestShortlistAndCopy(t *testing.T) {
	h := newHarness(t, testCatalog())
	h.key(t, "s")
	assert.True(t, h.m.shortlist.Contains("agronomist"))
	assert.Contains(t, h.m.status, "Shortlisted Agronomist")
	assert.Contains(t, h.m.View(), "★ Agronomist")

	h.key(t, "s")
	assert.False(t, h.m.shortlist.Contains("agronomist"))

	h.key(t, "y")
	assert.Equal(t, []string{h.m.profile.Data.ReferralCode}, h.copied)
}

func TestCopy_ClipboardFailure(t *testing.T) {
	h := newHarness(t, testCatalog())
	clipboardWriteAll = func(string) error { return errors.New("no display") }
	h.key(t, "y")
	assert.Contains(t, h.m.status, h.m.profile.Data.ReferralCode)
}

func TestToggleAutoplay(t *testing.T) {
	h := newHarness(t, testCatalog())
	gen := h.mount(t, bannerLane)

	h.key(t, "p")
	assert.False(t, h.m.autoplayOn)
	assert.Equal(t, carousel.Paused, h.m.banners.Autoplay().State())
	assert.Nil(t, h.send(t, autoplayTickMsg{lane: bannerLane, gen: gen}))

	require.NotNil(t, h.key(t, "p"))
	assert.Equal(t, carousel.Running, h.m.banners.Autoplay().State())
}

func TestCatalogReload_ClampsActive(t *testing.T) {
	h := newHarness(t, testCatalog())
	h.key(t, "tab")
	h.key(t, "left")
	h.runFrames(t)
	require.Equal(t, 2, h.m.careers.Active())

	smaller := testCatalog()
	smaller.Careers = smaller.Careers[:2]
	h.send(t, catalogReloadedMsg{Catalog: smaller, Source: "watcher"})
	assert.Equal(t, 0, h.m.careers.Active())
	assert.Contains(t, h.m.status, "watcher")

	h.send(t, catalogReloadedMsg{Source: "feed", Err: errors.New("boom")})
	assert.True(t, h.m.offline)
	assert.Len(t, h.m.careers.Items(), 2)
}

func TestCatalogReload_FromFeedRemountsLanes(t *testing.T) {
	fresher := testCatalog()
	fresher.Careers = append(fresher.Careers, content.Career{ID: "seed-technologist", Title: "Seed Technologist", Body: "Grade seed."})
	feed := &fakeFeed{catalog: fresher}
	h := newHarness(t, testCatalog(), withFeed(feed))
	require.False(t, h.m.offline)

	// Mounts scheduled by Init are still pending when the feed answers.
	pending := [laneCount]uint64{h.m.lanes[bannerLane].Mount(), h.m.lanes[careerLane].Mount()}

	msg := h.m.fetchCatalog()()
	reload, ok := msg.(catalogReloadedMsg)
	require.True(t, ok)
	assert.Equal(t, "feed", reload.Source)

	require.NotNil(t, h.send(t, reload))
	assert.Len(t, h.m.careers.Items(), 4)
	assert.Len(t, h.m.careers.Padded().Items, 3*4)
	assert.Equal(t, "catalog reloaded from feed", h.m.status)
	assert.False(t, h.m.offline)
	assert.True(t, h.m.framing)

	for i := range h.m.lanes {
		// The old mount was cancelled; the new one starts autoplay.
		assert.Nil(t, h.send(t, mountSettledMsg{lane: i, gen: pending[i]}))
		require.NotNil(t, h.send(t, mountSettledMsg{lane: i, gen: pending[i] + 1}))
		assert.Equal(t, carousel.Running, h.m.lanes[i].Autoplay().State())
	}
	h.runFrames(t)
	assert.Equal(t, 0, h.m.careers.Active())
}

func TestCatalogReload_WhileDetailOpenKeepsLanesUnmounted(t *testing.T) {
	h := newHarness(t, testCatalog())
	h.mount(t, bannerLane)
	h.key(t, "tab")
	h.key(t, "enter")
	require.NotNil(t, h.m.detail)

	fresher := testCatalog()
	fresher.Banners = fresher.Banners[:2]
	require.NotNil(t, h.send(t, catalogReloadedMsg{Catalog: fresher, Source: "watcher"}))
	assert.Len(t, h.m.banners.Items(), 2)
	assert.False(t, h.m.framing)
	for _, l := range h.m.lanes {
		assert.Equal(t, carousel.Paused, l.Autoplay().State())
		assert.False(t, l.Attached())
	}

	// Closing the page remounts with the new catalog.
	h.key(t, "esc")
	for _, l := range h.m.lanes {
		assert.True(t, l.Attached())
	}
	assert.Len(t, h.m.banners.Padded().Items, 3*2)
}

func TestCareerFetched_RefreshesOpenDetail(t *testing.T) {
	updated := testCatalog().Careers[0]
	updated.Detail = "# Agronomist\n\nNow hiring in Nashik."
	feed := &fakeFeed{catalog: testCatalog(), careers: map[string]content.Career{"agronomist": updated}}
	h := newHarness(t, testCatalog(), withFeed(feed))

	h.key(t, "tab")
	require.NotNil(t, h.key(t, "enter"))
	require.NotNil(t, h.m.detail)

	msg := h.m.fetchCareer("agronomist")()
	assert.Equal(t, []string{"agronomist"}, feed.asked)
	h.send(t, msg)
	assert.Equal(t, updated.Detail, h.m.detail.career.Detail)
	assert.Contains(t, h.m.View(), "Nashik")

	// A career that is not on screen is ignored.
	other := content.Career{ID: "drone-pilot", Title: "Agri Drone Pilot", Body: "Fly drones.", Detail: "Drone jobs."}
	h.send(t, careerFetchedMsg{Career: &other})
	assert.Equal(t, "agronomist", h.m.detail.career.ID)
	assert.NotContains(t, h.m.View(), "Drone jobs.")

	// A failed refresh keeps what is shown.
	h.send(t, h.m.fetchCareer("soil-scientist")())
	assert.Equal(t, updated.Detail, h.m.detail.career.Detail)

	// After closing, a late answer has nothing to refresh.
	h.key(t, "esc")
	h.send(t, careerFetchedMsg{Career: &updated})
	assert.Nil(t, h.m.detail)
}

func TestEmptyCatalog_ShowsEmptyStateWithoutAutoplay(t *testing.T) {
	h := newHarness(t, &content.Catalog{})
	gen := h.m.lanes[careerLane].Mount()
	assert.Nil(t, h.send(t, mountSettledMsg{lane: careerLane, gen: gen}))
	assert.Nil(t, h.key(t, "right"))
	assert.Nil(t, h.key(t, "enter"))

	view := h.m.View()
	assert.Contains(t, view, "No announcements right now.")
	assert.Contains(t, view, "No careers to show yet.")
}

func TestQuit_PersistsActiveIndexes(t *testing.T) {
	h := newHarness(t, testCatalog())
	h.key(t, "right")
	h.runFrames(t)
	h.key(t, "q")
	assert.True(t, h.m.quitting)

	// A new model restores the saved position.
	sl, err := shortlist.NewManager(h.path, testCatalog())
	require.NoError(t, err)
	m := NewModel(context.Background(), Options{
		Catalog: testCatalog(), Banners: testLaneConfig(), Careers: testLaneConfig(),
		Shortlist: sl, Now: h.clk.Now,
	})
	assert.Equal(t, 1, m.banners.Active())
	assert.Equal(t, 0, m.careers.Active())
}

func TestStatus_ClearsOnlyLatest(t *testing.T) {
	h := newHarness(t, testCatalog())
	h.key(t, "y")
	first := h.m.statusSeq
	h.key(t, "s")
	h.send(t, clearStatusMsg{seq: first})
	assert.NotEmpty(t, h.m.status)
	h.send(t, clearStatusMsg{seq: h.m.statusSeq})
	assert.Empty(t, h.m.status)
}

func TestView_RendersStripsAndDots(t *testing.T) {
	h := newHarness(t, testCatalog())
	view := h.m.View()
	assert.Contains(t, view, "AgriPath")
	assert.Contains(t, view, "Kharif guide")
	assert.Contains(t, view, "[enter] Explore")
	assert.Contains(t, view, "━━━")
	assert.Contains(t, view, "OFFLINE")
	assert.True(t, strings.Count(view, "\n") > bannerRows+cardRows)
}

func TestLaneAt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bannerLane, laneAt(0))
	assert.Equal(t, bannerLane, laneAt(headerLines+bannerRows))
	assert.Equal(t, careerLane, laneAt(headerLines+bannerRows+dotsLines+sectionGap))
}

func TestFormatRupees(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "₹4,999.00", formatRupees(499900))
	assert.Equal(t, "₹35,000.00", formatRupees(3500000))
	assert.Equal(t, "₹0.05", formatRupees(5))
	assert.Equal(t, "-₹1.50", formatRupees(-150))
}

func TestCareerMarkdown(t *testing.T) {
	t.Parallel()

	c := testCatalog().Careers[1]
	c.Tags = []string{"lab", "soil"}
	md := careerMarkdown(c)
	assert.Contains(t, md, "# Soil Scientist")
	assert.Contains(t, md, "Test soil.")
	assert.Contains(t, md, "_lab · soil_")
	assert.NotContains(t, md, "## Course")
}

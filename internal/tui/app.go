package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/marketpulse/internal/ai"
	"github.com/matheuskafuri/marketpulse/internal/dashboard"
	"github.com/matheuskafuri/marketpulse/internal/logger"
	"github.com/matheuskafuri/marketpulse/internal/nav"
)

const (
	loadTimeout  = 60 * time.Second
	briefTimeout = 20 * time.Second
)

type mode int

const (
	modeLoading mode = iota
	modeError
	modeDashboard
	modeDetail
	modeHelp
)

type tab int

const (
	tabTopics tab = iota
	tabOpportunities
	tabRisks
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabTopics:
		return "Topics"
	case tabOpportunities:
		return "Opportunities"
	case tabRisks:
		return "Risks"
	default:
		return ""
	}
}

type App struct {
	dash    *dashboard.Dashboard
	briefer ai.Briefer
	log     *logger.Logger
	every   time.Duration

	mode     mode
	prevMode mode
	tab      tab
	cursor   [tabCount]int

	width  int
	height int

	spinner spinner.Model

	view         dashboard.View
	detail       *dashboard.Detail
	detailCursor int
	brief        *ai.Brief

	refreshing bool
	notice     string
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Dashboard *dashboard.Dashboard
	Briefer   ai.Briefer
	Log       *logger.Logger
	// RefreshEvery enables periodic refreshes when positive.
	RefreshEvery time.Duration
}

func NewApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	log := opts.Log
	if log == nil {
		log = logger.Get()
	}

	return &App{
		dash:       opts.Dashboard,
		briefer:    opts.Briefer,
		log:        log.With("component", "tui"),
		every:      opts.RefreshEvery,
		spinner:    sp,
		mode:       modeLoading,
		refreshing: true,
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadCmd(), a.spinner.Tick}
	if a.every > 0 {
		cmds = append(cmds, a.tickCmd())
	}
	return tea.Batch(cmds...)
}

// loadCmd runs a full refresh off the update loop.
func (a *App) loadCmd() tea.Cmd {
	d := a.dash
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return loadDoneMsg{err: d.Refresh(ctx)}
	}
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(a.every, func(t time.Time) tea.Msg { return autoRefreshMsg(t) })
}

// briefCmd asks the model for a market brief. Failures are logged and
// otherwise ignored.
func (a *App) briefCmd() tea.Cmd {
	if a.briefer == nil {
		return nil
	}
	snap, ok := a.dash.Snapshot()
	if !ok || len(snap.Articles) == 0 {
		return nil
	}
	in := ai.Input{Label: snap.FearGreed.Label, Index: snap.FearGreed.Index}
	for _, art := range snap.Articles {
		in.Headlines = append(in.Headlines, art.Title)
	}
	b := a.briefer
	log := a.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), briefTimeout)
		defer cancel()
		res, err := b.Brief(ctx, in)
		if err != nil {
			log.Debugw("market brief unavailable", "error", err)
			return nil
		}
		return briefMsg{brief: res}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := nav.Open(url); err != nil {
			return navErrMsg{err: err}
		}
		return nil
	}
}

// startRefresh begins a refresh unless one is already running.
func (a *App) startRefresh() tea.Cmd {
	if a.refreshing {
		a.notice = "refresh already in progress"
		return nil
	}
	a.refreshing = true
	a.notice = ""
	return tea.Batch(a.loadCmd(), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case loadDoneMsg:
		return a, a.handleLoadDone(msg.err)

	case briefMsg:
		b := msg.brief
		a.brief = &b
		return a, nil

	case navErrMsg:
		a.notice = msg.err.Error()
		return a, nil

	case autoRefreshMsg:
		cmd := a.tickCmd()
		if a.refreshing || a.mode == modeLoading {
			return a, cmd
		}
		return a, tea.Batch(cmd, a.startRefresh())

	case spinner.TickMsg:
		if a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleLoadDone(err error) tea.Cmd {
	if errors.Is(err, dashboard.ErrRefreshInFlight) {
		// another caller owns the refresh; its result lands in the dashboard
		return nil
	}
	a.refreshing = false
	a.view = a.dash.View()
	a.brief = nil

	if err != nil {
		a.mode = modeError
		a.detail = nil
		return nil
	}

	switch a.mode {
	case modeDetail:
		if a.detail != nil {
			det, derr := a.dash.Detail(a.detail.Company.Ticker)
			if derr != nil {
				a.detail = nil
				a.mode = modeDashboard
			} else {
				a.detail = &det
				a.detailCursor = clamp(a.detailCursor, len(det.Articles))
			}
		}
	case modeHelp:
	default:
		a.mode = modeDashboard
	}
	for t := tab(0); t < tabCount; t++ {
		a.cursor[t] = clamp(a.cursor[t], a.tabLen(t))
	}
	return a.briefCmd()
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (a *App) tabLen(t tab) int {
	switch t {
	case tabTopics:
		return len(a.view.Topics)
	case tabOpportunities:
		return len(a.view.Opportunities)
	case tabRisks:
		return len(a.view.Risks)
	}
	return 0
}

// selectedRow returns the entity row under the cursor on an entity tab.
func (a *App) selectedRow() (dashboard.EntityRow, bool) {
	var rows []dashboard.EntityRow
	switch a.tab {
	case tabOpportunities:
		rows = a.view.Opportunities
	case tabRisks:
		rows = a.view.Risks
	default:
		return dashboard.EntityRow{}, false
	}
	c := a.cursor[a.tab]
	if c >= len(rows) {
		return dashboard.EntityRow{}, false
	}
	return rows[c], true
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	a.notice = ""

	switch a.mode {
	case modeLoading:
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, nil
	case modeError:
		switch msg.String() {
		case "r":
			a.mode = modeLoading
			return a, a.startRefresh()
		case "q":
			return a, tea.Quit
		}
		return a, nil
	case modeHelp:
		switch msg.String() {
		case "?", "esc":
			a.mode = a.prevMode
		case "q":
			return a, tea.Quit
		}
		return a, nil
	case modeDetail:
		return a.handleDetailKey(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "?":
		a.prevMode = a.mode
		a.mode = modeHelp
	case "r":
		return a, a.startRefresh()
	case "tab", "right", "l":
		a.tab = (a.tab + 1) % tabCount
	case "shift+tab", "left", "h":
		a.tab = (a.tab + tabCount - 1) % tabCount
	case "1", "2", "3":
		a.tab = tab(msg.String()[0] - '1')
	case "j", "down":
		if a.cursor[a.tab] < a.tabLen(a.tab)-1 {
			a.cursor[a.tab]++
		}
	case "k", "up":
		if a.cursor[a.tab] > 0 {
			a.cursor[a.tab]--
		}
	case "enter":
		row, ok := a.selectedRow()
		if !ok {
			return a, nil
		}
		det, err := a.dash.Detail(row.Ticker)
		if err != nil {
			a.notice = err.Error()
			return a, nil
		}
		a.detail = &det
		a.detailCursor = 0
		a.mode = modeDetail
	}
	return a, nil
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	det := a.detail
	switch msg.String() {
	case "esc", "q", "enter":
		a.detail = nil
		a.mode = modeDashboard
	case "j", "down":
		if a.detailCursor < len(det.Articles)-1 {
			a.detailCursor++
		}
	case "k", "up":
		if a.detailCursor > 0 {
			a.detailCursor--
		}
	case "a":
		return a, openURLCmd(det.AnalysisURL)
	case "p":
		return a, openURLCmd(det.PredictionURL)
	case "o":
		if a.detailCursor < len(det.Articles) {
			return a, openURLCmd(det.Articles[a.detailCursor].Article.Link)
		}
	case "r":
		return a, a.startRefresh()
	}
	return a, nil
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  marketpulse")
	}

	switch a.mode {
	case modeLoading:
		return a.withBottomBar(renderLoadingScreen(a.width, a.height-1, a.spinner.View()), "q quit")
	case modeError:
		msg := a.view.Error
		if msg == "" {
			msg = "unknown error"
		}
		return a.withBottomBar(renderErrorScreen(msg, a.width, a.height-1), "r reload  q quit")
	case modeHelp:
		return a.withBottomBar(renderHelp(a.width, a.height-1), "? close  q quit")
	case modeDetail:
		if a.detail != nil {
			return a.withBottomBar(renderDetail(*a.detail, a.detailCursor, a.width, a.height-1), "esc close  a analysis  p prediction  q close")
		}
	}

	header := renderHeader(a.view.Header, a.brief, a.width)
	gauge := renderGauge(a.view.Gauge, a.width)
	var counts [tabCount]int
	for t := tab(0); t < tabCount; t++ {
		counts[t] = a.tabLen(t)
	}
	tabs := renderTabs(a.tab, counts, a.width)

	used := lipgloss.Height(header) + lipgloss.Height(gauge) + lipgloss.Height(tabs) + 1
	contentHeight := a.height - used - 2 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}
	inner := a.width - 4

	var body string
	switch a.tab {
	case tabTopics:
		body = renderTopicList(a.view.Topics, a.cursor[tabTopics], contentHeight, inner)
	case tabOpportunities:
		body = renderEntityList(a.view.Opportunities, a.cursor[tabOpportunities], contentHeight, inner, "No opportunities right now")
	case tabRisks:
		body = renderEntityList(a.view.Risks, a.cursor[tabRisks], contentHeight, inner, "No risks right now")
	}
	pane := paneStyle.Width(a.width - 2).Height(contentHeight).Render(body)

	status := renderStatusBar(a.view.Header.Articles, a.view.Header.GeneratedAt, a.notice, a.width, a.refreshing)
	if a.refreshing {
		status = a.spinner.View() + " " + status
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, gauge, tabs, pane, status)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	if opts.Dashboard == nil {
		return fmt.Errorf("tui: dashboard is required")
	}
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// screen identifies which part of the browser has focus.
type screen int

const (
	screenQuery screen = iota
	screenResults
	screenSection
	screenAnswer
)

// queryMode selects what Enter does with the query.
type queryMode int

const (
	modeSemantic queryMode = iota
	modeKeyword
	modeAsk
)

func (m queryMode) String() string {
	switch m {
	case modeKeyword:
		return "keyword"
	case modeAsk:
		return "ask"
	default:
		return "search"
	}
}

// App is the browser model following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *Styles
	keys   *KeyMap

	input    textinput.Model
	list     *resultList
	viewport viewport.Model

	screen  screen
	mode    queryMode
	loading bool
	err     error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a browser over the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := DefaultStyles()
	ti := textinput.New()
	ti.Placeholder = "how to create a session"
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		keys:     DefaultKeyMap(),
		input:    ti,
		list:     newResultList(s),
		viewport: viewport.New(80, 20),
	}, nil
}

// WithContext sets the context passed to the retrieval service.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle("specmcp"))
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		return a.handleKey(msg)

	case searchDone:
		a.loading = false
		a.err = msg.err
		if msg.err == nil {
			a.list.SetResults(msg.results)
			a.screen = screenResults
			a.input.Blur()
		}
		return a, nil

	case sectionLoaded:
		a.loading = false
		a.err = msg.err
		if msg.err == nil {
			body := a.styles.Title.Render("# "+msg.section.Title) + "\n" +
				a.styles.Spec.Render(msg.section.URL) + "\n\n" + msg.section.Content
			a.showDocument(body)
			a.screen = screenSection
		}
		return a, nil

	case answerDone:
		a.loading = false
		a.err = msg.err
		if msg.err == nil {
			a.showDocument(a.styles.Title.Render(msg.question) + "\n\n" + msg.answer)
			a.screen = screenAnswer
			a.input.Blur()
		}
		return a, nil
	}

	if a.screen == screenQuery {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.screen {
	case screenQuery:
		switch {
		case key.Matches(msg, a.keys.Mode):
			a.mode = (a.mode + 1) % 3
			return a, nil
		case key.Matches(msg, a.keys.Submit):
			return a, a.submit()
		case key.Matches(msg, a.keys.Back):
			if len(a.list.results) > 0 {
				a.screen = screenResults
				a.input.Blur()
			}
			return a, nil
		}
		a.input, cmd = a.input.Update(msg)
		return a, cmd

	case screenResults:
		switch {
		case key.Matches(msg, a.keys.Up):
			a.list.MoveUp()
		case key.Matches(msg, a.keys.Down):
			a.list.MoveDown()
		case key.Matches(msg, a.keys.Open):
			if sec := a.list.SelectedSection(); sec != nil {
				a.loading = true
				return a, a.read(sec.URL)
			}
		case key.Matches(msg, a.keys.NewQuery), key.Matches(msg, a.keys.Back):
			a.screen = screenQuery
			return a, a.input.Focus()
		}
		return a, nil

	case screenSection, screenAnswer:
		if key.Matches(msg, a.keys.Back) {
			if a.screen == screenSection {
				a.screen = screenResults
				return a, nil
			}
			a.screen = screenQuery
			return a, a.input.Focus()
		}
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}
	return a, nil
}

// submit runs the query in the current mode.
func (a *App) submit() tea.Cmd {
	query := strings.TrimSpace(a.input.Value())
	if query == "" || a.loading {
		return nil
	}
	a.loading = true
	a.err = nil

	retrieval := a.ports.Retrieval
	ctx := a.ctx
	switch a.mode {
	case modeKeyword:
		return func() tea.Msg {
			results, err := retrieval.KeywordSearch(ctx, query, 0)
			return searchDone{results: results, err: err}
		}
	case modeAsk:
		return func() tea.Msg {
			answer, err := retrieval.Ask(ctx, query)
			return answerDone{question: query, answer: answer, err: err}
		}
	default:
		return func() tea.Msg {
			results, err := retrieval.Search(ctx, query, 0)
			return searchDone{results: results, err: err}
		}
	}
}

func (a *App) read(url string) tea.Cmd {
	retrieval := a.ports.Retrieval
	ctx := a.ctx
	return func() tea.Msg {
		sec, err := retrieval.Read(ctx, url)
		return sectionLoaded{section: sec, err: err}
	}
}

// showDocument wraps body to the viewport width and scrolls to the top.
func (a *App) showDocument(body string) {
	a.viewport.SetContent(lipgloss.NewStyle().Width(a.viewport.Width).Render(body))
	a.viewport.GotoTop()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.screen {
	case screenResults:
		body = a.list.View()
	case screenSection, screenAnswer:
		body = a.viewport.View()
	default:
		label := a.styles.Title.Render(a.mode.String() + ": ")
		body = lipgloss.JoinHorizontal(lipgloss.Center, label, a.styles.Input.Render(a.input.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, "", a.statusLine())
}

func (a *App) statusLine() string {
	var left string
	switch {
	case a.loading:
		left = a.styles.Muted.Render("Working...")
	case a.err != nil:
		left = a.styles.Error.Render("Error: " + a.err.Error())
	default:
		left = a.styles.Muted.Render("mode " + a.mode.String())
	}

	bindings := a.keys.help(a.screen)
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	right := a.styles.Muted.Render(strings.Join(hints, " | "))

	padding := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return a.styles.Status.Render(left + strings.Repeat(" ", padding) + right)
}

// SetDimensions resizes every component.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	inputWidth := width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	a.input.Width = inputWidth
	a.list.SetDimensions(width, height-2)
	a.viewport.Width = width
	a.viewport.Height = height - 2
}

// Run starts the browser and blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

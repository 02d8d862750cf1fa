package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/249ali/shelf/internal/models"
	"github.com/249ali/shelf/internal/services"
	"github.com/249ali/shelf/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ReadingListView ViewState = iota
	BookListView
	ConfirmView
	SuggestView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	library      services.Library
	engine       *tasks.ShelfEngine
	width        int
	height       int
	listList     list.Model
	lists        []models.ReadingList
	bookList     list.Model
	selectedList *models.ReadingList
	books        []models.Book
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.SuggestResult
	err          error
	help         help.Model
	keys         keyMap
}

type listsFetchedMsg struct {
	lists []models.ReadingList
	err   error
}

type booksFetchedMsg struct {
	list  *models.ReadingList
	books []models.Book
	err   error
}

type progressUpdateMsg tasks.ProgressUpdate

type suggestCompleteMsg struct {
	result *tasks.SuggestResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library services.Library, engine *tasks.ShelfEngine) *Model {
	return &Model{
		ctx:     ctx,
		view:    ReadingListView,
		library: library,
		engine:  engine,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the user's reading lists.
func (m *Model) Init() tea.Cmd {
	return m.fetchLists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listList.Width() == 0 {
			m.listList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.bookList.Width() == 0 {
			m.bookList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ReadingListView:
			return m.handleReadingListKeys(msg)
		case BookListView:
			return m.handleBookListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case listsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.lists = msg.lists
		items := make([]list.Item, len(msg.lists))
		for i, rl := range msg.lists {
			items[i] = readingListItem{list: rl}
		}
		m.listList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.listList.Title = "Reading Lists"
		m.listList.SetSize(m.width-4, m.height-8)
		return m, nil

	case booksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ReadingListView
			return m, nil
		}
		m.selectedList = msg.list
		m.books = msg.books
		items := make([]list.Item, len(msg.books))
		for i, book := range msg.books {
			items[i] = bookItem{book: book}
		}
		m.bookList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.bookList.Title = fmt.Sprintf("Books in '%s'", msg.list.Name)
		m.bookList.SetSize(m.width-4, m.height-8)
		m.view = BookListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case suggestCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ReadingListView:
		return m.renderReadingLists()
	case BookListView:
		return m.renderBookList()
	case ConfirmView:
		return m.renderConfirm()
	case SuggestView:
		return m.renderSuggest()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleReadingListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.listList.SelectedItem()
		if selected != nil {
			if rl, ok := selected.(readingListItem); ok {
				return m, m.fetchBooks(rl.list.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.listList, cmd = m.listList.Update(msg)
	return m, cmd
}

func (m *Model) handleBookListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ReadingListView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.bookList, cmd = m.bookList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = BookListView
		return m, nil
	case "y":
		m.view = SuggestView
		return m, m.startSuggest()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = ReadingListView
		m.selectedList = nil
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ReadingListView:
		m.listList, cmd = m.listList.Update(msg)
	case BookListView:
		m.bookList, cmd = m.bookList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchLists() tea.Cmd {
	return func() tea.Msg {
		lists, err := m.library.ListReadingLists(m.ctx)
		return listsFetchedMsg{lists: lists, err: err}
	}
}

func (m *Model) fetchBooks(listID string) tea.Cmd {
	return func() tea.Msg {
		rl, err := m.library.GetReadingList(m.ctx, listID)
		if err != nil {
			return booksFetchedMsg{err: err}
		}

		books := make([]models.Book, 0, len(rl.BookIDs))
		for _, bookID := range rl.BookIDs {
			book, err := m.library.GetBook(m.ctx, bookID)
			if err != nil {
				return booksFetchedMsg{err: err}
			}
			books = append(books, *book)
		}

		return booksFetchedMsg{list: rl, books: books}
	}
}

func (m *Model) startSuggest() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Suggest(m.ctx, m.selectedList.ID, m.progressChan)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return suggestCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return suggestCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderReadingLists() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.listList.View(), helpView)
}

func (m *Model) renderBookList() string {
	suggestKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "suggest"),
	)
	helpKeys := []key.Binding{suggestKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.bookList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Fetch recommendations for '%s'?", m.selectedList.Name))
	info := fmt.Sprintf("\nList: %s\nBooks: %d\n", m.selectedList.Name, len(m.selectedList.BookIDs))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSuggest() string {
	title := styles.title.Render("Fetching Recommendations")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchList:
		phase = "Fetching reading list..."
	case tasks.FetchRecommendations:
		phase = fmt.Sprintf("Fetching recommendations (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Suggestion run failed: %v\n\nPress r to restart, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to restart, q to quit")
	}

	title := styles.ok.Render("✓ Recommendations Ready")
	info := fmt.Sprintf(
		"\nList: %s\nBooks: %d\nFetched: %d/%d",
		m.result.List.Name,
		m.result.TotalBooks,
		m.result.SuccessCount,
		m.result.TotalBooks,
	)

	var body string
	for _, entry := range m.result.Suggestions {
		if entry.Error != nil {
			continue
		}
		body += fmt.Sprintf("\n\n%s:", entry.Book.Title)
		for _, rec := range entry.Recommendations {
			body += fmt.Sprintf("\n  • %s (%.0f%%)", rec.Reason, rec.Confidence*100)
		}
	}

	var failed string
	if m.result.FailedCount > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed for %d books:", m.result.FailedCount)))
		for _, entry := range m.result.Suggestions {
			if entry.Error != nil {
				failed += fmt.Sprintf("\n  • %s", entry.Book.Title)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s%s\n\n%s", title, info, body, failed, helpView)
}

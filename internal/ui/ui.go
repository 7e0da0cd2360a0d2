// Package ui is the terminal front end: login and sign-up, the filtered
// task list, the habit view grouped by pattern, and the month calendar
// with occurrence markers. It renders what the engine derives and routes
// every mutation back through the store.
package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timeplan/internal/clock"
	"timeplan/internal/config"
	"timeplan/internal/recur"
	"timeplan/internal/storage"
	"timeplan/internal/task"
)

type mode int

const (
	modeLogin mode = iota
	modeSignup
	modeTasks
	modeTaskForm
	modeHabits
	modeHabitForm
	modeCalendar
	modeSearch
)

// calendarHorizonDays bounds how far ahead recurring occurrences are
// painted. The calculator is never asked for an unbounded future.
const calendarHorizonDays = 180

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ongoingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	missedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	urgentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

// formState drives the multi-field editors, one input at a time, in the
// style of the metadata editor this grew out of.
type formState struct {
	editingID int // 0 when adding
	labels    []string
	values    []string
	index     int
}

func (f *formState) current() string      { return f.values[f.index] }
func (f *formState) set(v string)         { f.values[f.index] = v }
func (f *formState) label() string        { return f.labels[f.index] }
func (f *formState) last() bool           { return f.index >= len(f.labels)-1 }

type habitRow struct {
	header string
	habit  *task.RecurringTask
}

type calMark int

const (
	markNone calMark = iota
	markOngoing
	markMissed
	markCompleted
	markRecurring
	markRecurringDone
)

type Model struct {
	store  *storage.Store
	cfg    config.Config
	clk    clock.Clock
	logger *slog.Logger

	user task.User
	mode mode

	input  textinput.Model
	form   *formState
	status string

	filter  task.Filter
	tasks   []task.Task
	cursor  int
	confirm bool
	pending *task.Task

	habitRows    []habitRow
	habitCursor  int
	pendingHabit *task.RecurringTask

	searchResults []task.Task

	calMonth time.Time
	calMarks map[string]calMark
}

func Run(store *storage.Store, cfg config.Config, clk clock.Clock, logger *slog.Logger) error {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40
	ti.Placeholder = "username"
	ti.Focus()

	m := Model{
		store:  store,
		cfg:    cfg,
		clk:    clk,
		logger: logger,
		mode:   modeLogin,
		input:  ti,
		form:   loginForm(),
		filter: task.ParseFilter(cfg.DefaultFilter),
		status: "Log in, or press ctrl+n to create an account.",
	}

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func loginForm() *formState {
	return &formState{labels: []string{"username", "password"}, values: []string{"", ""}}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeLogin, modeSignup:
			return m.updateAuth(msg)
		case modeTaskForm, modeHabitForm:
			return m.updateForm(msg)
		case modeTasks:
			if m.confirm {
				return m.updateDeleteConfirm(msg.String())
			}
			return m.updateTasks(msg.String())
		case modeHabits:
			if m.confirm {
				return m.updateDeleteConfirm(msg.String())
			}
			return m.updateHabits(msg.String())
		case modeCalendar:
			return m.updateCalendar(msg.String())
		case modeSearch:
			return m.updateSearch(msg)
		}
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

// --- auth ---

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+n":
		if m.mode == modeLogin {
			m.mode = modeSignup
			m.form = loginForm()
			m.resetAuthInput()
			m.status = "Choose a username and password. Esc returns to login."
		}
		return m, nil
	case m.cfg.Keys.Cancel:
		if m.mode == modeSignup {
			m.mode = modeLogin
			m.form = loginForm()
			m.resetAuthInput()
			m.status = "Log in, or press ctrl+n to create an account."
		}
		return m, nil
	case m.cfg.Keys.Confirm:
		m.form.set(m.input.Value())
		if !m.form.last() {
			m.form.index++
			m.syncFormInput()
			return m, nil
		}
		username, password := m.form.values[0], m.form.values[1]
		if m.mode == modeSignup {
			if _, err := m.store.CreateUser(username, password); err != nil {
				return m.failAuth("sign-up", err), nil
			}
		}
		user, err := m.store.Authenticate(username, password)
		if err != nil {
			return m.failAuth("login", err), nil
		}
		m.user = user
		m.enterTasks()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) failAuth(action string, err error) Model {
	if errors.Is(err, storage.ErrInvalidCredentials) || storage.IsValidation(err) {
		m.status = err.Error()
	} else {
		m.logger.Error(action+" failed", "err", err)
		m.status = action + " failed, see log"
	}
	m.form = loginForm()
	m.resetAuthInput()
	return m
}

func (m *Model) resetAuthInput() {
	m.form.index = 0
	m.syncFormInput()
}

func (m *Model) syncFormInput() {
	m.input.SetValue(m.form.current())
	m.input.Placeholder = m.form.label()
	if m.form.label() == "password" {
		m.input.EchoMode = textinput.EchoPassword
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
	m.input.CursorEnd()
	m.input.Focus()
}

// --- task list ---

// enterTasks sweeps past-due rows before the filtered listing renders, so
// persisted state catches up with what the classifier already shows.
func (m *Model) enterTasks() {
	m.mode = modeTasks
	m.input.Blur()
	m.refreshTasks()
	m.status = fmt.Sprintf("Signed in as %s. a add, space toggle, tab filter, 2 habits, 3 calendar.", m.user.Username)
}

func (m *Model) refreshTasks() {
	today := m.clk.Today()
	if n, err := m.store.SweepPastDue(today); err != nil {
		m.logger.Error("sweep past due failed", "err", err)
	} else if n > 0 {
		m.logger.Info("swept past-due tasks", "count", n)
	}
	tasks, err := m.store.FetchTasks(m.user.ID, m.filter, today)
	if err != nil {
		m.logger.Error("fetch tasks failed", "err", err)
		m.status = "load failed, see log"
		return
	}
	m.tasks = tasks
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m Model) updateTasks(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.tasks) > 0 {
			m.cursor = clampCursor(m.cursor+1, len(m.tasks))
		}
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case m.cfg.Keys.NextFilter:
		m.filter = nextFilter(m.filter, 1)
		m.cursor = 0
		m.refreshTasks()
	case m.cfg.Keys.PrevFilter:
		m.filter = nextFilter(m.filter, -1)
		m.cursor = 0
		m.refreshTasks()
	case m.cfg.Keys.Add:
		m.form = &formState{
			labels: []string{"title", "description", "priority (Urgent / Not urgent)", "due date (YYYY-MM-DD)"},
			values: []string{"", "", task.NotUrgent.String(), ""},
		}
		m.mode = modeTaskForm
		m.syncFormInput()
		m.status = "New task: enter advances, esc cancels."
	case m.cfg.Keys.Edit:
		if len(m.tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.form = &formState{
			editingID: t.ID,
			labels:    []string{"title", "description", "priority (Urgent / Not urgent)", "due date (YYYY-MM-DD)"},
			values:    []string{t.Title, t.Description, t.Priority.String(), formatDue(t.DueDate)},
		}
		m.mode = modeTaskForm
		m.syncFormInput()
		m.status = "Edit task: enter advances, esc cancels."
	case m.cfg.Keys.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.toggleTask(m.tasks[m.cursor])
	case m.cfg.Keys.Delete:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.confirm = true
		m.pending = &t
		m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.searchResults = nil
		m.input.SetValue("")
		m.input.Placeholder = "search"
		m.input.EchoMode = textinput.EchoNormal
		m.input.Focus()
		m.status = "Search title and description. Enter runs, esc returns."
	case m.cfg.Keys.Habits:
		m.enterHabits()
	case m.cfg.Keys.Calendar:
		m.enterCalendar()
	}
	return m, nil
}

// toggleTask completes a task, or un-completes one back to On-going. A
// Missed task may still be completed late; Completed never reverts to
// Missed on its own.
func (m *Model) toggleTask(t task.Task) {
	target := task.Completed
	if t.Category == task.Completed {
		target = task.OnGoing
	}
	if err := m.store.SetCategory(t.ID, target); err != nil {
		m.reportWriteError("toggle", err)
		return
	}
	m.refreshTasks()
	m.status = fmt.Sprintf("%q is now %s", t.Title, target)
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		var err error
		switch {
		case m.pending != nil:
			err = m.store.DeleteTask(m.pending.ID)
		case m.pendingHabit != nil:
			err = m.store.DeleteRecurring(m.pendingHabit.ID)
		}
		if err != nil {
			m.reportWriteError("delete", err)
		} else {
			m.status = "Deleted"
		}
		m.confirm = false
		m.pending = nil
		m.pendingHabit = nil
		if m.mode == modeHabits {
			m.refreshHabits()
		} else {
			m.refreshTasks()
		}
		return m, nil
	case "n", "N", m.cfg.Keys.Cancel:
		m.confirm = false
		m.pending = nil
		m.pendingHabit = nil
		m.status = "Delete cancelled"
		return m, nil
	default:
		return m, nil
	}
}

// --- forms ---

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel:
		if m.mode == modeHabitForm {
			m.mode = modeHabits
		} else {
			m.mode = modeTasks
		}
		m.form = nil
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.form.set(m.input.Value())
		m.form.index = (m.form.index + 1) % len(m.form.labels)
		m.syncFormInput()
		return m, nil
	case "shift+tab", "up":
		m.form.set(m.input.Value())
		m.form.index = (m.form.index - 1 + len(m.form.labels)) % len(m.form.labels)
		m.syncFormInput()
		return m, nil
	case m.cfg.Keys.Confirm:
		m.form.set(m.input.Value())
		if !m.form.last() {
			m.form.index++
			m.syncFormInput()
			return m, nil
		}
		if m.mode == modeHabitForm {
			return m.saveHabitForm()
		}
		return m.saveTaskForm()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveTaskForm() (tea.Model, tea.Cmd) {
	in := storage.TaskInput{
		Title:       m.form.values[0],
		Description: m.form.values[1],
		Priority:    task.ParsePriority(m.form.values[2]),
		DueDate:     m.form.values[3],
	}
	var err error
	if m.form.editingID == 0 {
		_, err = m.store.CreateTask(m.user.ID, in, m.clk.Today())
	} else {
		// Editing keeps the persisted category; completion moves
		// through the toggle, not the form.
		var existing task.Task
		existing, err = m.store.GetTask(m.form.editingID)
		if err == nil {
			err = m.store.UpdateTask(m.form.editingID, in, existing.Category)
		}
	}
	if err != nil {
		if storage.IsValidation(err) {
			m.status = err.Error()
			return m, nil
		}
		m.reportWriteError("save", err)
	} else {
		m.status = "Saved"
	}
	m.form = nil
	m.mode = modeTasks
	m.input.Blur()
	m.refreshTasks()
	return m, nil
}

func (m Model) saveHabitForm() (tea.Model, tea.Cmd) {
	in := storage.RecurringInput{
		Title:       m.form.values[0],
		Description: m.form.values[1],
		StartDate:   m.form.values[2],
		Pattern:     m.form.values[3],
	}
	var err error
	if m.form.editingID == 0 {
		_, err = m.store.CreateRecurring(m.user.ID, in)
	} else {
		err = m.store.UpdateRecurring(m.form.editingID, in)
	}
	if err != nil {
		if storage.IsValidation(err) {
			m.status = err.Error()
			return m, nil
		}
		m.reportWriteError("save", err)
	} else {
		m.status = "Saved"
	}
	m.form = nil
	m.mode = modeHabits
	m.input.Blur()
	m.refreshHabits()
	return m, nil
}

// --- habits ---

func (m *Model) enterHabits() {
	m.mode = modeHabits
	m.habitCursor = 0
	m.refreshHabits()
	m.status = "Habits: space marks done today, a add, e edit, d delete, 1 tasks."
}

func (m *Model) refreshHabits() {
	habits, err := m.store.FetchRecurring(m.user.ID, m.clk.Today())
	if err != nil {
		m.logger.Error("fetch habits failed", "err", err)
		m.status = "load failed, see log"
		return
	}
	m.habitRows = m.habitRows[:0]
	for _, g := range task.GroupHabits(habits) {
		if len(g.Tasks) == 0 {
			continue
		}
		m.habitRows = append(m.habitRows, habitRow{header: g.Name})
		for i := range g.Tasks {
			h := g.Tasks[i]
			m.habitRows = append(m.habitRows, habitRow{habit: &h})
		}
	}
	m.habitCursor = clampCursor(m.habitCursor, len(m.habitRows))
	if selectedHabit(m.habitRows, m.habitCursor) == nil {
		if i := nextHabitRow(m.habitRows, -1, 1); i >= 0 {
			m.habitCursor = i
		}
	}
}

func (m Model) updateHabits(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.habitCursor = nextHabitRow(m.habitRows, m.habitCursor, 1)
	case m.cfg.Keys.Up, "up":
		m.habitCursor = nextHabitRow(m.habitRows, m.habitCursor, -1)
	case m.cfg.Keys.Tasks:
		m.mode = modeTasks
		m.refreshTasks()
	case m.cfg.Keys.Calendar:
		m.enterCalendar()
	case m.cfg.Keys.Add:
		m.form = &formState{
			labels: []string{"title", "description", "start date (YYYY-MM-DD)", "pattern (Daily / Weekly / Monthly / Annual)"},
			values: []string{"", "", m.clk.Today().Format("2006-01-02"), recur.Daily.String()},
		}
		m.mode = modeHabitForm
		m.syncFormInput()
		m.status = "New habit: enter advances, esc cancels."
	case m.cfg.Keys.Edit:
		h := selectedHabit(m.habitRows, m.habitCursor)
		if h == nil {
			m.status = "No habit selected"
			return m, nil
		}
		m.form = &formState{
			editingID: h.ID,
			labels:    []string{"title", "description", "start date (YYYY-MM-DD)", "pattern (Daily / Weekly / Monthly / Annual)"},
			values:    []string{h.Title, h.Description, h.StartDate.Format("2006-01-02"), h.Pattern},
		}
		m.mode = modeHabitForm
		m.syncFormInput()
		m.status = "Edit habit: enter advances, esc cancels."
	case m.cfg.Keys.Toggle:
		h := selectedHabit(m.habitRows, m.habitCursor)
		if h == nil {
			return m, nil
		}
		m.toggleHabit(h)
	case m.cfg.Keys.Delete:
		h := selectedHabit(m.habitRows, m.habitCursor)
		if h == nil {
			return m, nil
		}
		m.confirm = true
		m.pendingHabit = h
		m.status = fmt.Sprintf("Delete %q? y/n", h.Title)
	}
	return m, nil
}

// toggleHabit marks the habit done for today, or clears today's
// completion. The clear is conditional on the stored date matching today,
// so a completion from an earlier period in the same window is left alone.
func (m *Model) toggleHabit(h *task.RecurringTask) {
	today := m.clk.Today()
	if h.Status == recur.StatusCompleted {
		cleared, err := m.store.ClearCompletion(h.ID, today)
		if err != nil {
			m.reportWriteError("uncheck", err)
			return
		}
		if !cleared {
			m.status = fmt.Sprintf("%q was completed on %s, not today; left as is", h.Title, formatDue(h.LastCompleted))
			return
		}
		m.status = fmt.Sprintf("%q is pending again", h.Title)
	} else {
		if err := m.store.MarkCompleted(h.ID, today); err != nil {
			m.reportWriteError("complete", err)
			return
		}
		m.status = fmt.Sprintf("%q done for this period", h.Title)
	}
	m.refreshHabits()
}

// --- search ---

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel:
		m.mode = modeTasks
		m.searchResults = nil
		m.input.Blur()
		m.refreshTasks()
		m.status = "Search closed"
		return m, nil
	case m.cfg.Keys.Confirm:
		term := strings.TrimSpace(m.input.Value())
		if term == "" {
			m.status = "Type something to search for"
			return m, nil
		}
		results, err := m.store.SearchTasks(m.user.ID, term)
		if err != nil {
			m.logger.Error("search failed", "err", err)
			m.status = "search failed, see log"
			return m, nil
		}
		m.searchResults = results
		m.status = fmt.Sprintf("%d result(s) for %q. Esc returns.", len(results), term)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// --- calendar ---

func (m *Model) enterCalendar() {
	m.mode = modeCalendar
	today := m.clk.Today()
	m.calMonth = clock.Date(today.Year(), today.Month(), 1)
	m.buildCalendarMarks()
	m.status = "Calendar: h/l change month, 1 tasks, 2 habits."
}

func (m *Model) buildCalendarMarks() {
	today := m.clk.Today()
	horizon := today.AddDate(0, 0, calendarHorizonDays)
	marks := make(map[string]calMark)

	tasks, err := m.store.FetchTasks(m.user.ID, task.FilterAllTasks, today)
	if err != nil {
		m.logger.Error("fetch tasks for calendar failed", "err", err)
	}
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		key := t.DueDate.Format("2006-01-02")
		switch task.EffectiveCategory(t, today) {
		case task.Completed:
			setMark(marks, key, markCompleted)
		case task.Missed:
			setMark(marks, key, markMissed)
		default:
			setMark(marks, key, markOngoing)
		}
	}

	habits, err := m.store.FetchRecurring(m.user.ID, today)
	if err != nil {
		m.logger.Error("fetch habits for calendar failed", "err", err)
	}
	for _, h := range habits {
		p, ok := recur.ParsePattern(h.Pattern)
		if !ok {
			continue
		}
		for d := range recur.OccurrencesInRange(h.StartDate, p, today, horizon) {
			mark := markRecurring
			if h.LastCompleted != nil && d.Equal(clock.Midnight(*h.LastCompleted)) {
				mark = markRecurringDone
			}
			setMark(marks, d.Format("2006-01-02"), mark)
		}
	}
	m.calMarks = marks
}

// setMark keeps the stronger mark when a day carries both a one-off and a
// recurring occurrence.
func setMark(marks map[string]calMark, key string, mark calMark) {
	if existing, ok := marks[key]; ok && existing >= mark {
		return
	}
	marks[key] = mark
}

func (m Model) updateCalendar(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case "h", "left", "[":
		m.calMonth = m.calMonth.AddDate(0, -1, 0)
	case "l", "right", "]":
		m.calMonth = m.calMonth.AddDate(0, 1, 0)
	case m.cfg.Keys.Tasks:
		m.mode = modeTasks
		m.refreshTasks()
	case m.cfg.Keys.Habits:
		m.enterHabits()
	}
	return m, nil
}

// --- rendering ---

func (m Model) View() string {
	switch m.mode {
	case modeLogin:
		return m.renderAuth("TimePlan · Login")
	case modeSignup:
		return m.renderAuth("TimePlan · Sign up")
	case modeTaskForm, modeHabitForm:
		return m.renderForm()
	case modeHabits:
		return m.renderHabits()
	case modeCalendar:
		return m.renderCalendar()
	case modeSearch:
		return m.renderSearch()
	default:
		return m.renderTasks()
	}
}

func (m Model) renderAuth(title string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	for i, label := range m.form.labels {
		prefix := " "
		if i == m.form.index {
			prefix = cursorStyle.Render(">")
		}
		val := m.form.values[i]
		if label == "password" {
			val = strings.Repeat("*", len(val))
		}
		if i == m.form.index {
			val = m.input.View()
		}
		b.WriteString(fmt.Sprintf("%s %-9s %s\n", prefix, label+":", val))
	}
	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter next/submit • ctrl+n sign up • esc back • ctrl+c quit"))
	return b.String()
}

func (m Model) renderForm() string {
	var b strings.Builder
	if m.form.editingID == 0 {
		b.WriteString(titleStyle.Render("New entry"))
	} else {
		b.WriteString(titleStyle.Render("Edit entry"))
	}
	b.WriteString("\n\n")
	for i, label := range m.form.labels {
		prefix := " "
		val := m.form.values[i]
		if i == m.form.index {
			prefix = cursorStyle.Render(">")
			val = m.input.View()
		} else if strings.TrimSpace(val) == "" {
			val = dimStyle.Render("(empty)")
		}
		b.WriteString(fmt.Sprintf("%s %-42s %s\n", prefix, label+":", val))
	}
	b.WriteString("\n")
	b.WriteString(m.status)
	return b.String()
}

func (m Model) renderTasks() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TimePlan"))
	b.WriteString("  ")
	b.WriteString(m.renderFilterTabs())
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(dimStyle.Render("Nothing here. Press 'a' to add a task."))
		b.WriteString("\n")
	} else {
		today := m.clk.Today()
		for i, t := range m.tasks {
			b.WriteString(m.renderTaskRow(t, i == m.cursor, today))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpLine()))
	return b.String()
}

// renderTaskRow badges the task with its effective category: an overdue
// On-going row reads Missed even before the sweep has persisted the move.
func (m Model) renderTaskRow(t task.Task, selected bool, today time.Time) string {
	cursor := " "
	if selected {
		cursor = cursorStyle.Render(">")
	}
	checkbox := "[ ]"
	if t.Category == task.Completed {
		checkbox = "[x]"
	}
	badge := renderBadge(task.EffectiveCategory(t, today))
	line := fmt.Sprintf("%s %s %s", cursor, checkbox, t.Title)
	if t.DueDate != nil {
		line += dimStyle.Render("  due " + t.DueDate.Format("2006-01-02"))
	}
	if t.Priority == task.Urgent {
		line += "  " + urgentStyle.Render("Urgent")
	}
	return line + "  " + badge
}

func renderBadge(c task.Category) string {
	switch c {
	case task.Completed:
		return completedStyle.Render("Completed")
	case task.Missed:
		return missedStyle.Render("Missed")
	default:
		return ongoingStyle.Render("On-going")
	}
}

func (m Model) renderFilterTabs() string {
	parts := make([]string, 0, len(task.Filters()))
	for _, f := range task.Filters() {
		name := string(f)
		if f == m.filter {
			name = headerStyle.Render("[" + name + "]")
		} else {
			name = dimStyle.Render(name)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}

func (m Model) renderHabits() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TimePlan · Habits"))
	b.WriteString("\n\n")

	if len(m.habitRows) == 0 {
		b.WriteString(dimStyle.Render("No habits yet. Press 'a' to add one."))
		b.WriteString("\n")
	}
	for i, row := range m.habitRows {
		if row.header != "" {
			b.WriteString(headerStyle.Render(row.header))
			b.WriteString("\n")
			continue
		}
		h := row.habit
		cursor := " "
		if i == m.habitCursor {
			cursor = cursorStyle.Render(">")
		}
		checkbox := "[ ]"
		state := dimStyle.Render("Pending")
		if h.Status == recur.StatusCompleted {
			checkbox = "[x]"
			state = completedStyle.Render("Completed")
		}
		line := fmt.Sprintf("%s %s %s  %s", cursor, checkbox, h.Title, state)
		if h.LastCompleted != nil {
			line += dimStyle.Render("  last " + h.LastCompleted.Format("2006-01-02"))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TimePlan · Search"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	today := m.clk.Today()
	for _, t := range m.searchResults {
		b.WriteString(m.renderTaskRow(t, false, today))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.status)
	return b.String()
}

func (m Model) renderCalendar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TimePlan · " + m.calMonth.Format("January 2006")))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(" Su  Mo  Tu  We  Th  Fr  Sa"))
	b.WriteString("\n")

	today := m.clk.Today()
	first := m.calMonth
	offset := int(first.Weekday())
	daysIn := first.AddDate(0, 1, -1).Day()

	col := 0
	for i := 0; i < offset; i++ {
		b.WriteString("    ")
		col++
	}
	for day := 1; day <= daysIn; day++ {
		date := clock.Date(first.Year(), first.Month(), day)
		cell := fmt.Sprintf("%3d", day)
		switch m.calMarks[date.Format("2006-01-02")] {
		case markRecurringDone:
			cell = completedStyle.Bold(true).Render(cell)
		case markRecurring:
			cell = completedStyle.Render(cell)
		case markCompleted:
			cell = completedStyle.Render(cell)
		case markMissed:
			cell = missedStyle.Render(cell)
		case markOngoing:
			cell = ongoingStyle.Render(cell)
		default:
			cell = dimStyle.Render(cell)
		}
		if date.Equal(today) {
			cell = lipgloss.NewStyle().Reverse(true).Render(fmt.Sprintf("%3d", day))
		}
		b.WriteString(cell)
		b.WriteString(" ")
		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")
	b.WriteString(ongoingStyle.Render("due") + " " + missedStyle.Render("missed") + " " +
		completedStyle.Render("done/recurring") + "\n")
	b.WriteString(m.status)
	return b.String()
}

func (m *Model) reportWriteError(action string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		// The row went away under us; refresh rather than crash.
		m.status = "That entry no longer exists"
		return
	}
	m.logger.Error(action+" failed", "err", err)
	m.status = action + " failed, see log"
}

func (m Model) helpLine() string {
	k := m.cfg.Keys
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s edit • %s delete • %s/%s filter • %s search • %s/%s/%s views • %s quit",
		k.Up, k.Down, k.Add, strings.ReplaceAll(k.Toggle, " ", "space"), k.Edit, k.Delete,
		k.NextFilter, k.PrevFilter, k.Search, k.Tasks, k.Habits, k.Calendar, k.Quit)
}

func nextFilter(f task.Filter, step int) task.Filter {
	all := task.Filters()
	for i, cur := range all {
		if cur == f {
			return all[(i+step+len(all))%len(all)]
		}
	}
	return all[0]
}

func nextHabitRow(rows []habitRow, cur, step int) int {
	for i := cur + step; i >= 0 && i < len(rows); i += step {
		if rows[i].habit != nil {
			return i
		}
	}
	return cur
}

func selectedHabit(rows []habitRow, cur int) *task.RecurringTask {
	if cur < 0 || cur >= len(rows) {
		return nil
	}
	return rows[cur].habit
}

func formatDue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

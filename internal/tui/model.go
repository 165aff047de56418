// Package tui is the terminal front end of the product manager. It drives the
// same Manager as the web UI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"product_manager/internal/domain"
	"product_manager/internal/usecase"
	"product_manager/pkg/money"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

const (
	fieldName = iota
	fieldPrice
	fieldImage
	fieldDescription
	fieldCount
)

var fieldLabels = [fieldCount]string{"Tên", "Giá", "Link ảnh", "Mô tả"}

// resultMsg reports a finished manager action.
type resultMsg struct {
	action string
	err    error
}

type Model struct {
	ctx     context.Context
	manager *usecase.Manager
	title   string

	table    table.Model
	search   textinput.Model
	inputs   [fieldCount]textinput.Model
	focus    int
	mode     mode
	products []domain.Product

	pendingDelete domain.Product
	notice        string
	status        string
	statusErr     bool

	width  int
	styles Styles
}

func NewModel(ctx context.Context, manager *usecase.Manager, title string) Model {
	search := textinput.New()
	search.Placeholder = "Tìm sản phẩm..."
	search.Prompt = "/ "

	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = fieldLabels[i]
		in.Prompt = ""
		in.CharLimit = 512
		inputs[i] = in
	}

	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return Model{
		ctx:     ctx,
		manager: manager,
		title:   title,
		table:   t,
		search:  search,
		inputs:  inputs,
		styles:  DefaultStyles(),
	}
}

func columns(width int) []table.Column {
	desc := width - 24 - 14 - 24 - 10
	if desc < 16 {
		desc = 16
	}
	return []table.Column{
		{Title: "Tên", Width: 24},
		{Title: "Giá", Width: 14},
		{Title: "Mô tả", Width: desc},
		{Title: "Ảnh", Width: 24},
	}
}

func (m Model) Init() tea.Cmd {
	return m.run("load", m.manager.Load)
}

// run executes a manager action off the update loop.
func (m Model) run(action string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{action: action, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		if h := msg.Height - 14; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case resultMsg:
		return m.handleResult(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) handleResult(msg resultMsg) Model {
	m.sync()
	m.notice = m.manager.TakeNotice()

	var ve *domain.ValidationError
	switch {
	case msg.err == nil:
		m.status, m.statusErr = doneText(msg.action), false
		if msg.action == "save" || msg.action == "create" {
			m.fillInputs(m.manager.Snapshot().Draft)
			m.mode = modeBrowse
			m.blurInputs()
		}
	case errors.As(msg.err, &ve):
		// The notice already says what is missing; stay in the form.
		m.status = ""
	default:
		m.status, m.statusErr = fmt.Sprintf("%s thất bại: %v", msg.action, msg.err), true
	}
	return m
}

func doneText(action string) string {
	switch action {
	case "create":
		return "Đã thêm sản phẩm"
	case "save":
		return "Đã lưu sản phẩm"
	case "delete":
		return "Đã xóa sản phẩm"
	default:
		return ""
	}
}

// sync copies the manager's list into the table. The search box and the form
// are left alone while the user is typing in them.
func (m *Model) sync() {
	st := m.manager.Snapshot()
	m.products = st.Products
	rows := make([]table.Row, 0, len(st.Products))
	for _, p := range st.Products {
		rows = append(rows, table.Row{p.Name, money.VND(p.Price), p.Description, p.Image})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
	if m.mode != modeSearch {
		m.search.SetValue(st.Search)
	}
	if m.mode != modeForm {
		m.fillInputs(st.Draft)
	}
}

func (m *Model) fillInputs(f domain.ProductForm) {
	m.inputs[fieldName].SetValue(f.Name)
	m.inputs[fieldPrice].SetValue(f.Price)
	m.inputs[fieldImage].SetValue(f.Image)
	m.inputs[fieldDescription].SetValue(f.Description)
}

func (m Model) draft() domain.ProductForm {
	return domain.ProductForm{
		Name:        m.inputs[fieldName].Value(),
		Price:       m.inputs[fieldPrice].Value(),
		Description: m.inputs[fieldDescription].Value(),
		Image:       m.inputs[fieldImage].Value(),
	}
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.table.Focus()
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[m.focus].Focus()
}

func (m Model) selected() (domain.Product, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.products) {
		return domain.Product{}, false
	}
	return m.products[i], true
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.table.Blur()
		cmd := m.search.Focus()
		return m, cmd
	case "a":
		m.manager.CancelEdit()
		m.fillInputs(domain.ProductForm{})
		m.mode = modeForm
		m.table.Blur()
		cmd := m.focusInput(fieldName)
		return m, cmd
	case "e":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.manager.StartEdit(p.ID); err != nil {
			m.status, m.statusErr = err.Error(), true
			return m, nil
		}
		m.fillInputs(m.manager.Snapshot().Draft)
		m.mode = modeForm
		m.table.Blur()
		cmd := m.focusInput(fieldName)
		return m, cmd
	case "d":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pendingDelete = p
		m.mode = modeConfirmDelete
		return m, nil
	case "r":
		m.status = ""
		return m, m.run("reload", m.manager.Reset)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.manager.SetSearch(m.search.Value())
		m.search.Blur()
		m.table.Focus()
		m.mode = modeBrowse
		return m, m.run("search", m.manager.Search)
	case tea.KeyEsc:
		m.search.Blur()
		m.table.Focus()
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		cmd := m.focusInput(m.focus + 1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusInput(m.focus - 1)
		return m, cmd
	case "esc":
		m.manager.CancelEdit()
		m.fillInputs(domain.ProductForm{})
		m.mode = modeBrowse
		m.blurInputs()
		return m, nil
	case "enter":
		m.notice = ""
		m.manager.SetDraft(m.draft())
		action := "create"
		if m.manager.Snapshot().Editing() {
			action = "save"
		}
		return m, m.run(action, m.manager.Submit)
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "c":
		id := m.pendingDelete.ID
		m.pendingDelete = domain.Product{}
		m.mode = modeBrowse
		return m, m.run("delete", func(ctx context.Context) error {
			return m.manager.Delete(ctx, id)
		})
	case "n", "esc", "q":
		m.pendingDelete = domain.Product{}
		m.mode = modeBrowse
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render(m.title))
	sb.WriteString("\n")

	if m.mode == modeSearch || m.search.Value() != "" {
		sb.WriteString(m.search.View())
		sb.WriteString("\n\n")
	}

	if len(m.products) == 0 {
		sb.WriteString(m.styles.Muted.Render("Không có sản phẩm"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
	}

	switch m.mode {
	case modeForm:
		sb.WriteString("\n")
		sb.WriteString(m.formView())
	case modeConfirmDelete:
		sb.WriteString("\n")
		sb.WriteString(m.styles.Confirm.Render(
			fmt.Sprintf("Xóa sản phẩm này? %s  (y/n)", m.pendingDelete.Name)))
		sb.WriteString("\n")
	}

	if m.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Notice.Render(m.notice))
		sb.WriteString("\n")
	}
	if m.status != "" {
		style := m.styles.Success
		if m.statusErr {
			style = m.styles.Error
		}
		sb.WriteString("\n")
		sb.WriteString(style.Render(m.status))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Help.Render(m.helpText()))
	return sb.String()
}

func (m Model) formView() string {
	heading := "Thêm sản phẩm"
	if m.manager.Snapshot().Editing() {
		heading = "Sửa sản phẩm"
	}
	lines := []string{m.styles.Muted.Render(heading)}
	for i, in := range m.inputs {
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.Focused
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label.Render(fieldLabels[i]), in.View()))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) helpText() string {
	switch m.mode {
	case modeSearch:
		return "enter tìm • esc hủy"
	case modeForm:
		if m.manager.Snapshot().Editing() {
			return "tab chuyển ô • enter lưu • esc hủy"
		}
		return "tab chuyển ô • enter thêm • esc hủy"
	case modeConfirmDelete:
		return "y xóa • n hủy"
	default:
		return "/ tìm • a thêm • e sửa • d xóa • r tải lại • q thoát"
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, manager *usecase.Manager, title string) error {
	p := tea.NewProgram(NewModel(ctx, manager, title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

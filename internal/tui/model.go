// Package tui is the interactive dashboard. Every tab drives one
// editor.Controller; the model only maps keys to controller actions and
// renders what the controllers hold.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"free-rent/internal/editor"
	"free-rent/internal/listview"
	"free-rent/internal/models"
	"free-rent/internal/schema"
	"free-rent/internal/store"
	"free-rent/internal/validate"
)

type tabSpec struct {
	pane  paneFactory
	owned []paneFactory
}

var dashboard = []tabSpec{
	{
		pane: newPane[*models.Tenant]("Tenants"),
		owned: []paneFactory{
			ownedPane[*models.Pet]("Pets", "tenant_id"),
			ownedPane[*models.Vehicle]("Vehicles", "tenant_id"),
		},
	},
	{pane: newPane[*models.Property]("Properties")},
	{pane: newPane[*models.Unit]("Units")},
	{pane: newPane[*models.UnitType]("Unit Types")},
}

// panel is a pane with its list and, while adding or editing, its form.
type panel struct {
	pane  pane
	table table.Model
	form  *recordForm
}

func newPanel(p pane) *panel {
	t := table.New(
		table.WithColumns(columnsFor(p.Table())),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())
	pn := &panel{pane: p, table: t}
	pn.reload()
	return pn
}

func columnsFor(t *schema.Table) []table.Column {
	cols := []table.Column{{Title: "ID", Width: 5}}
	for _, c := range t.FormColumns() {
		width := max(len(c.Spec.Label)+2, 12)
		if c.Spec.Multiline {
			width = 24
		}
		cols = append(cols, table.Column{Title: c.Spec.Label, Width: width})
	}
	return cols
}

func (p *panel) reload() error {
	rows, err := p.pane.Rows()
	if err != nil {
		return err
	}
	p.table.SetRows(rows)
	return nil
}

func (p *panel) selectedID() (uint, bool) {
	row := p.table.SelectedRow()
	if len(row) == 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(row[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// tab is one dashboard tab. Owned panes exist while the main record is
// open and list the records that belong to it.
type tab struct {
	main     *panel
	owned    []paneFactory
	children []*panel
	ownerID  uint
	focus    int
}

func (t *tab) active() *panel {
	if t.focus > 0 && t.focus <= len(t.children) {
		return t.children[t.focus-1]
	}
	return t.main
}

type Model struct {
	ctx       context.Context
	db        *gorm.DB
	validator *validate.Validator

	tabs      []*tab
	current   int
	searching bool
	search    textinput.Model
	flash     string

	width  int
	height int
}

// New loads every tab from db.
func New(ctx context.Context, db *gorm.DB, v *validate.Validator) (*Model, error) {
	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = ""
	search.Width = 40
	search.CharLimit = 200

	m := &Model{ctx: ctx, db: db, validator: v, search: search}
	for _, spec := range dashboard {
		p, err := spec.pane(db, v, 0)
		if err != nil {
			return nil, err
		}
		if err := p.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", p.Name(), err)
		}
		m.tabs = append(m.tabs, &tab{main: newPanel(p), owned: spec.owned})
	}
	return m, nil
}

// Run shows the dashboard until the operator quits or ctx ends.
func Run(ctx context.Context, db *gorm.DB, v *validate.Validator) error {
	m, err := New(ctx, db, v)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) activePanel() *panel {
	return m.tabs[m.current].active()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	}

	// huh moves between fields through messages of its own
	if p := m.activePanel(); p.form != nil {
		return m, m.updateForm(p, msg)
	}
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}
	m.flash = ""
	if m.searching {
		return m.handleSearchKey(msg)
	}

	t := m.tabs[m.current]
	p := t.active()
	switch p.pane.State() {
	case editor.ConfirmingDelete:
		switch key {
		case "y", "Y":
			return m.act(p, p.pane.ConfirmDelete(m.ctx))
		case "n", "N", "esc":
			return m.act(p, p.pane.CancelDelete())
		}
		return nil

	case editor.Adding, editor.Editing:
		switch key {
		case "esc":
			return m.act(p, p.pane.Cancel())
		case "ctrl+s":
			return m.submit(p)
		case "ctrl+d":
			if p.pane.State() == editor.Editing {
				return m.act(p, p.pane.Delete())
			}
			return nil
		case "ctrl+o":
			if len(t.children) > 0 {
				t.focus = (t.focus + 1) % (len(t.children) + 1)
				return nil
			}
		}
		return m.updateForm(p, msg)

	case editor.Selecting:
		switch key {
		case "esc":
			return m.act(p, p.pane.Cancel())
		case "enter":
			id, ok := p.selectedID()
			if !ok {
				return nil
			}
			return m.act(p, p.pane.Select(m.ctx, id))
		}
		var cmd tea.Cmd
		p.table, cmd = p.table.Update(msg)
		return cmd
	}

	return m.handleBrowseKey(t, p, msg)
}

func (m *Model) handleBrowseKey(t *tab, p *panel, msg tea.KeyMsg) tea.Cmd {
	onMain := p == t.main
	switch key := msg.String(); key {
	case "q":
		if onMain {
			return tea.Quit
		}
	case "tab", "right":
		if onMain {
			m.switchTab(m.current + 1)
		}
	case "shift+tab", "left":
		if onMain {
			m.switchTab(m.current - 1)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if n, _ := strconv.Atoi(key); onMain && n <= len(m.tabs) {
			m.switchTab(n - 1)
		}
	case "a":
		return m.act(p, p.pane.Add())
	case "e":
		return m.act(p, p.pane.BeginSelect())
	case "enter":
		id, ok := p.selectedID()
		if !ok {
			return nil
		}
		err := p.pane.BeginSelect()
		if err == nil {
			err = p.pane.Select(m.ctx, id)
		}
		return m.act(p, err)
	case "d":
		id, ok := p.selectedID()
		if !ok {
			return nil
		}
		err := p.pane.BeginSelect()
		if err == nil {
			err = p.pane.Select(m.ctx, id)
		}
		if err == nil {
			err = p.pane.Delete()
		}
		return m.act(p, err)
	case "/":
		m.searching = true
		m.search.SetValue(p.pane.SearchQuery())
		return m.search.Focus()
	case "r":
		return m.act(p, p.pane.Refresh(m.ctx))
	case "esc":
		if !onMain {
			t.focus = 0
		}
	case "ctrl+o":
		if !onMain {
			t.focus = (t.focus + 1) % (len(t.children) + 1)
		}
	default:
		var cmd tea.Cmd
		p.table, cmd = p.table.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	p := m.activePanel()
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m.applySearch(p, p.pane.SearchColumn(), "")
	case "enter":
		m.searching = false
		m.search.Blur()
		return nil
	case "tab":
		cols := listview.SearchColumns(p.pane.Table())
		next := cols[(slices.Index(cols, p.pane.SearchColumn())+1)%len(cols)]
		return m.applySearch(p, next, m.search.Value())
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch(p, p.pane.SearchColumn(), m.search.Value())
	return cmd
}

func (m *Model) applySearch(p *panel, column, query string) tea.Cmd {
	if err := p.pane.Search(column, query); err != nil {
		m.flash = err.Error()
		return nil
	}
	if err := p.reload(); err != nil {
		m.flash = err.Error()
	}
	return nil
}

func (m *Model) switchTab(i int) {
	n := len(m.tabs)
	m.current = ((i % n) + n) % n
	p := m.tabs[m.current].main
	if err := p.pane.Refresh(m.ctx); err != nil {
		log.Ctx(m.ctx).Error().Err(err).Str("pane", p.pane.Name()).Msg("refresh failed")
	}
	if err := p.reload(); err != nil {
		m.flash = err.Error()
	}
}

func (m *Model) updateForm(p *panel, msg tea.Msg) tea.Cmd {
	if p.form == nil {
		return nil
	}
	form, cmd := p.form.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form.Form = f
	}
	if p.form.Form.State == huh.StateCompleted {
		return m.submit(p)
	}
	return cmd
}

// act records the outcome of a controller action and brings the panels in
// line with the controller states.
func (m *Model) act(p *panel, err error) tea.Cmd {
	if err != nil {
		log.Ctx(m.ctx).Debug().Err(err).Str("pane", p.pane.Name()).Msg("action failed")
		if errors.Is(err, editor.ErrInvalidTransition) {
			m.flash = err.Error()
		}
	}
	return m.sync()
}

func (m *Model) submit(p *panel) tea.Cmd {
	err := p.pane.SubmitForm(m.ctx, p.form.Values())
	if err == nil {
		return m.sync()
	}

	var ve *validate.Error
	var ce *store.ConstraintError
	switch {
	case errors.As(err, &ve):
		p.form.MarkInvalid(ve.Fields)
		if p.pane.Notice().Kind != editor.NoticeInvalid {
			m.flash = ve.Error()
		}
	case errors.As(err, &ce) && ce.Field != "":
		p.form.MarkInvalid([]string{ce.Field})
	default:
		p.form.build()
	}
	log.Ctx(m.ctx).Debug().Err(err).Str("pane", p.pane.Name()).Msg("submit refused")

	cmd := m.sync()
	if p.form != nil {
		return tea.Batch(cmd, p.form.Form.Init())
	}
	return cmd
}

func (m *Model) sync() tea.Cmd {
	t := m.tabs[m.current]
	cmds := []tea.Cmd{m.syncPanel(t.main)}
	m.syncChildren(t)
	for _, c := range t.children {
		cmds = append(cmds, m.syncPanel(c))
	}
	return tea.Batch(cmds...)
}

func (m *Model) syncPanel(p *panel) tea.Cmd {
	switch p.pane.State() {
	case editor.Adding, editor.Editing, editor.ConfirmingDelete:
		if p.form != nil {
			return nil
		}
		p.form = newRecordForm(m.formTitle(p), p.pane.Table().Specs(), p.pane.FormValues(), m.choices(p.pane.Table()))
		if w := m.formWidth(); w > 0 {
			p.form.SetWidth(w)
		}
		return p.form.Form.Init()
	}
	p.form = nil
	if err := p.reload(); err != nil {
		m.flash = err.Error()
	}
	return nil
}

func (m *Model) syncChildren(t *tab) {
	id := t.main.pane.CurrentID()
	if id == 0 || len(t.owned) == 0 {
		t.children, t.ownerID, t.focus = nil, 0, 0
		return
	}
	if t.ownerID == id && len(t.children) > 0 {
		return
	}
	t.children, t.ownerID, t.focus = nil, id, 0
	for _, build := range t.owned {
		p, err := build(m.db, m.validator, id)
		if err != nil {
			m.flash = err.Error()
			continue
		}
		if err := p.Refresh(m.ctx); err != nil {
			log.Ctx(m.ctx).Error().Err(err).Str("pane", p.Name()).Msg("failed to load owned records")
		}
		t.children = append(t.children, newPanel(p))
	}
}

// choices turns every visible foreign key column into a select over the
// records it may point at.
func (m *Model) choices(t *schema.Table) map[string][]huh.Option[string] {
	out := make(map[string][]huh.Option[string])
	for _, ref := range t.References() {
		col, ok := t.Column(ref.Column)
		if !ok || col.Spec.Hidden {
			continue
		}
		src := m.panelOf(models.Kind(ref.Table))
		if src == nil {
			continue
		}
		if err := src.pane.Refresh(m.ctx); err != nil {
			continue
		}
		src.reload()
		if opts := src.pane.Choices(); len(opts) > 0 {
			out[ref.Column] = opts
		}
	}
	return out
}

func (m *Model) panelOf(kind models.Kind) *panel {
	for _, t := range m.tabs {
		if t.main.pane.Table().Kind == kind {
			return t.main
		}
	}
	return nil
}

func (m *Model) formTitle(p *panel) string {
	kind := strings.ReplaceAll(string(p.pane.Table().Kind), "_", " ")
	if p.pane.State() == editor.Adding {
		return "New " + kind
	}
	return fmt.Sprintf("%s #%d", kind, p.pane.CurrentID())
}

func (m *Model) formWidth() int {
	if m.width == 0 {
		return 0
	}
	return min(m.width-4, 80)
}

func (m *Model) resize() {
	height := max(m.height-10, 3)
	for _, t := range m.tabs {
		panels := append([]*panel{t.main}, t.children...)
		for _, p := range panels {
			p.table.SetHeight(height)
			if p.form != nil {
				p.form.SetWidth(m.formWidth())
			}
		}
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"free-rent/internal/editor"
)

func (m *Model) View() string {
	t := m.tabs[m.current]

	sections := []string{m.renderTabs(), m.renderPanel(t.main, t.focus == 0)}
	for i, c := range t.children {
		sections = append(sections, m.renderPanel(c, t.focus == i+1))
	}
	if status := m.renderStatus(t.active()); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, helpStyle.Render(m.help(t)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		style := tabStyle
		if i == m.current {
			style = activeTabStyle
		}
		tabs[i] = style.Render(fmt.Sprintf("%d %s", i+1, t.main.pane.Name()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderPanel(p *panel, active bool) string {
	title := panelTitleStyle.Render(fmt.Sprintf("%s (%d)", p.pane.Name(), p.pane.Len()))

	var body string
	if p.form != nil {
		body = p.form.Form.View()
		if p.pane.State() == editor.ConfirmingDelete {
			kind := strings.ReplaceAll(string(p.pane.Table().Kind), "_", " ")
			body += "\n" + confirmStyle.Render(fmt.Sprintf("Delete %s #%d? (y/n)", kind, p.pane.CurrentID()))
		}
	} else {
		body = p.table.View()
		if active && m.searching {
			body = searchStyle.Render("/ "+p.pane.SearchColumn()+": ") + m.search.View() + "\n" + body
		} else if q := p.pane.SearchQuery(); q != "" {
			body = searchStyle.Render(fmt.Sprintf("/ %s: %s", p.pane.SearchColumn(), q)) + "\n" + body
		}
	}

	style := panelStyle
	if active {
		style = activePanelStyle
	}
	return style.Render(title + "\n" + body)
}

func (m *Model) renderStatus(p *panel) string {
	if m.flash != "" {
		return noticeStyles[editor.NoticeError].Render(m.flash)
	}
	n := p.pane.Notice()
	if n.Kind == editor.NoticeNone {
		return ""
	}
	text := n.Text
	if len(n.Fields) > 0 {
		text += ": " + strings.Join(n.Fields, ", ")
	}
	return noticeStyles[n.Kind].Render(text)
}

func (m *Model) help(t *tab) string {
	p := t.active()
	switch p.pane.State() {
	case editor.Selecting:
		return "↑/↓ move • enter select • esc cancel"
	case editor.Adding:
		return m.saveHelp(p) + " • esc cancel"
	case editor.Editing:
		h := m.saveHelp(p) + " • ctrl+d delete • esc close"
		if len(t.children) > 0 {
			h += " • ctrl+o owned records"
		}
		return h
	case editor.ConfirmingDelete:
		return "y delete • n keep"
	}
	if m.searching {
		return "type to filter • tab next column • enter keep • esc clear"
	}
	if p != t.main {
		return "a add • e edit • enter open • d delete • / search • esc back"
	}
	return "a add • e edit • enter open • d delete • / search • r refresh • tab next • q quit"
}

func (m *Model) saveHelp(p *panel) string {
	if p.form == nil || !p.pane.CanSubmitForm(p.form.Values()) {
		return "ctrl+s save (incomplete)"
	}
	return "ctrl+s save"
}

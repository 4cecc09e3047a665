package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/metra/internal/feed"
)

const deletePrompt = "Are you sure you want to delete this source?"

type sourcesModel struct {
	list    []feed.Source
	cursor  int
	loading bool
	err     error
	confirm string
	form    sourceForm
}

// sourceForm is the add-source form: name, url and description inputs.
type sourceForm struct {
	active  bool
	inputs  []textinput.Model
	focus   int
	invalid string
}

func newSourceForm() sourceForm {
	placeholders := []string{"Name", "https://example.com", "Description (optional)"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		ti := textinput.New()
		ti.Placeholder = p
		ti.CharLimit = 200
		ti.Width = 40
		inputs[i] = ti
	}
	return sourceForm{inputs: inputs}
}

func (f *sourceForm) open() tea.Cmd {
	*f = newSourceForm()
	f.active = true
	return f.inputs[0].Focus()
}

func (f *sourceForm) value() feed.NewSource {
	return feed.NewSource{
		Name:        strings.TrimSpace(f.inputs[0].Value()),
		URL:         strings.TrimSpace(f.inputs[1].Value()),
		Description: strings.TrimSpace(f.inputs[2].Value()),
	}
}

func (f *sourceForm) cycle(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (d *Dashboard) updateSourcesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &d.sources
	if s.form.active {
		return d.updateForm(msg)
	}
	if s.confirm != "" {
		switch msg.String() {
		case "enter", "y":
			id := s.confirm
			s.confirm = ""
			s.loading = true
			return d, deleteSource(d.ctx, d.provider, id)
		default:
			s.confirm = ""
		}
		return d, nil
	}

	switch msg.String() {
	case "up", "k":
		s.cursor = max(0, s.cursor-1)
	case "down", "j":
		s.cursor = min(max(len(s.list)-1, 0), s.cursor+1)
	case "a":
		return d, s.form.open()
	case "d", "delete":
		if src, ok := s.selected(); ok {
			s.confirm = src.ID
		}
	case "y":
		if src, ok := s.selected(); ok {
			return d, d.copy(src.URL)
		}
	}
	return d, nil
}

func (d *Dashboard) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &d.sources.form
	switch msg.String() {
	case "esc":
		f.active = false
		return d, nil
	case "tab", "down":
		return d, f.cycle(1)
	case "shift+tab", "up":
		return d, f.cycle(-1)
	case "enter":
		in := f.value()
		if err := in.Validate(); err != nil {
			f.invalid = "Please fill in at least the name and URL fields"
			return d, nil
		}
		f.active = false
		d.sources.loading = true
		return d, addSource(d.ctx, d.provider, in)
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return d, cmd
}

func (s *sourcesModel) selected() (feed.Source, bool) {
	if s.cursor < 0 || s.cursor >= len(s.list) {
		return feed.Source{}, false
	}
	return s.list[s.cursor], true
}

func (s *sourcesModel) apply(msg sourcesMsg) {
	s.loading = false
	s.err = msg.err
	if msg.sources != nil {
		s.list = msg.sources
	}
	s.cursor = min(s.cursor, max(len(s.list)-1, 0))
}

func (d *Dashboard) viewSources(width int) string {
	s := &d.sources
	st := d.styles
	var b strings.Builder

	b.WriteString(st.title.Render("SOURCES") + st.subtle.Render(fmt.Sprintf("  %d total", len(s.list))) + "\n\n")
	if s.err != nil {
		b.WriteString(st.errText.Render("Error: "+s.err.Error()) + "\n\n")
	}
	if s.loading {
		b.WriteString(d.spinner.View() + " Loading sources...\n\n")
	}

	nameW := max(width/4, 12)
	urlW := max(width/3, 16)
	header := fmt.Sprintf("  %-*s %-*s %11s %10s  %s", nameW, "NAME", urlW, "URL", "CREDIBILITY", "ENGAGEMENT", "CATEGORY")
	b.WriteString(st.subtle.Render(truncate(header, width)) + "\n")

	for i, src := range s.list {
		cursor := "  "
		if i == s.cursor {
			cursor = st.selected.Render("> ")
		}
		cred := st.band(feed.SourceBand(src.CredibilityScore)).Render(fmt.Sprintf("%11.1f", src.CredibilityScore))
		eng := st.band(feed.SourceBand(src.EngagementScore)).Render(fmt.Sprintf("%10.1f", src.EngagementScore))
		name := fmt.Sprintf("%-*s", nameW, truncate(src.Name, nameW))
		if i == s.cursor {
			name = st.selected.Render(name)
		}
		b.WriteString(cursor + name + " " + fmt.Sprintf("%-*s", urlW, truncate(src.URL, urlW)) + " " + cred + " " + eng + "  " + st.subtle.Render(src.Category) + "\n")
		if i == s.cursor && src.ArticleTitle != "" {
			b.WriteString("    " + st.subtle.Render(truncate(src.ArticleTitle, width-4)) + "\n")
		}
	}

	if s.confirm != "" {
		b.WriteString("\n" + st.warnText.Render(deletePrompt) + st.keyHint.Render("  enter: delete  any key: cancel") + "\n")
	}
	if s.form.active {
		b.WriteString("\n" + d.viewForm())
	}
	return b.String()
}

func (d *Dashboard) viewForm() string {
	f := &d.sources.form
	labels := []string{"Name", "URL", "Description"}
	rows := make([]string, 0, len(f.inputs)+2)
	rows = append(rows, d.styles.title.Render("Add Source"))
	for i, in := range f.inputs {
		rows = append(rows, d.styles.label.Render(labels[i])+in.View())
	}
	if f.invalid != "" {
		rows = append(rows, d.styles.errText.Render(f.invalid))
	}
	rows = append(rows, d.styles.keyHint.Render("tab: next field  enter: save  esc: cancel"))
	return d.styles.panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

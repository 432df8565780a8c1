package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"catalogdesk/internal/entity"
	"catalogdesk/internal/form"
)

type field struct {
	key   string
	label string
	input textinput.Model
}

func newField(key, label, placeholder string) field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 200
	in.Width = 40
	return field{key: key, label: label, input: in}
}

// formPage is the shared text-input form. The new*FormPage constructors
// attach it to one of the create forms.
type formPage struct {
	ctx    context.Context
	title  string
	styles Styles
	fields []field
	focus  int

	// apply copies the inputs into the draft, returning per-field parse errors.
	apply  func(values map[string]string) []form.FieldError
	submit func(ctx context.Context) error
	cancel func(ctx context.Context) (bool, error)
	// extraKeys handles page specific shortcuts; handled reports whether it consumed the key.
	extraKeys func(key string) (cmd tea.Cmd, handled bool)
	extraView func() string
	onMsg     func(msg tea.Msg) tea.Cmd
	load      tea.Cmd
	help      string

	errs   map[string]string
	status string
	busy   bool
}

func (p *formPage) Init() tea.Cmd {
	if len(p.fields) == 0 {
		return p.load
	}
	return tea.Batch(p.fields[0].input.Focus(), p.load)
}

func (p *formPage) Capturing() bool { return true }

func (p *formPage) SetSize(w, h int) {}

func (p *formPage) Close() {}

func (p *formPage) values() map[string]string {
	out := make(map[string]string, len(p.fields))
	for _, f := range p.fields {
		out[f.key] = f.input.Value()
	}
	return out
}

func (p *formPage) setValue(key, value string) {
	for i := range p.fields {
		if p.fields[i].key == key {
			p.fields[i].input.SetValue(value)
		}
	}
}

func (p *formPage) setErrors(fields []form.FieldError) {
	p.errs = make(map[string]string, len(fields))
	for _, f := range fields {
		key := f.Field
		if i := strings.Index(key, "["); i >= 0 {
			key = key[:i]
		}
		if _, seen := p.errs[key]; !seen {
			p.errs[key] = f.Message
		}
	}
}

func (p *formPage) moveFocus(delta int) tea.Cmd {
	if len(p.fields) == 0 {
		return nil
	}
	p.fields[p.focus].input.Blur()
	p.focus = (p.focus + delta + len(p.fields)) % len(p.fields)
	return p.fields[p.focus].input.Focus()
}

func (p *formPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case submitDoneMsg:
		p.busy = false
		p.status = ""
		var verr *form.ValidationError
		switch {
		case errors.As(msg.err, &verr):
			p.setErrors(verr.Fields)
		case msg.err != nil:
			p.status = "Not saved. Fix the problem and submit again."
		default:
			p.errs = nil
			p.status = "Saved. Returning to the list..."
			p.busy = true
		}
		return nil
	case tea.KeyMsg:
		if p.busy {
			return nil
		}
		return p.handleKey(msg)
	}
	if p.onMsg != nil {
		return p.onMsg(msg)
	}
	return nil
}

func (p *formPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if p.extraKeys != nil {
		if cmd, handled := p.extraKeys(key); handled {
			return cmd
		}
	}
	switch key {
	case "tab", "down":
		return p.moveFocus(1)
	case "shift+tab", "up":
		return p.moveFocus(-1)
	case "ctrl+s":
		return p.startSubmit()
	case "enter":
		if p.focus == len(p.fields)-1 {
			return p.startSubmit()
		}
		return p.moveFocus(1)
	case "esc":
		ctx := p.ctx
		return func() tea.Msg {
			_, _ = p.cancel(ctx)
			return refreshMsg{}
		}
	}
	var cmd tea.Cmd
	p.fields[p.focus].input, cmd = p.fields[p.focus].input.Update(msg)
	return cmd
}

func (p *formPage) startSubmit() tea.Cmd {
	if errs := p.apply(p.values()); len(errs) > 0 {
		p.setErrors(errs)
		return nil
	}
	p.errs = nil
	p.busy = true
	p.status = "Saving..."
	ctx := p.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: p.submit(ctx)}
	}
}

func (p *formPage) View() string {
	var b strings.Builder
	b.WriteString(p.styles.Title.Render(p.title))
	b.WriteString("\n")
	for i, f := range p.fields {
		label := p.styles.Label.Render(f.label)
		if i == p.focus {
			label = p.styles.Focused.Render("> " + f.label)
		}
		b.WriteString(label)
		b.WriteString(f.input.View())
		if msg, ok := p.errs[f.key]; ok {
			b.WriteString("  ")
			b.WriteString(p.styles.Error.Render(msg))
		}
		b.WriteString("\n")
	}
	if p.extraView != nil {
		b.WriteString("\n")
		b.WriteString(p.extraView())
	}
	if p.status != "" {
		b.WriteString("\n")
		b.WriteString(p.styles.Muted.Render(p.status))
	}
	help := "tab next field  enter/ctrl+s submit  esc cancel"
	if p.help != "" {
		help += "  " + p.help
	}
	b.WriteString(p.styles.Help.Render(help))
	return b.String()
}

// parseDate reads an optional YYYY-MM-DD value. Empty input is the zero
// time so the required rule reports it.
func parseDate(key, value string, errs *[]form.FieldError) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	d, err := entity.ParseDate(value)
	if err != nil {
		*errs = append(*errs, form.FieldError{Field: key, Message: key + " must be a date (YYYY-MM-DD)"})
		return time.Time{}
	}
	return d.Time
}

func parseInt(key, value string, errs *[]form.FieldError) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		*errs = append(*errs, form.FieldError{Field: key, Message: key + " must be a whole number"})
		return 0
	}
	return n
}

func parseIDs(key, value string, errs *[]form.FieldError) []int64 {
	var ids []int64
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			*errs = append(*errs, form.FieldError{Field: key, Message: fmt.Sprintf("%s: %q is not an author ID", key, part)})
			continue
		}
		ids = append(ids, n)
	}
	return ids
}

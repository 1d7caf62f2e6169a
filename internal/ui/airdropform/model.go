package airdropform

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/theme"
	"github.com/nhle/airdrop-tracker/internal/tracker"
)

// CreatedMsg is dispatched when the create form is submitted.
type CreatedMsg struct {
	Draft model.AirdropDraft
}

// EditedMsg is dispatched when the edit form is submitted. Patch holds
// only the fields the user changed.
type EditedMsg struct {
	ID    int64
	Patch model.AirdropPatch
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name   string
	url    string
	chain  string
	wallet string
	notes  string
	typeID int64
	active bool
}

// Model is the Bubble Tea model for the airdrop create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	original model.Airdrop
	types    []model.AirdropType
	width    int
	height   int
}

// New creates a new airdrop form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{active: true},
		width:  width,
		height: height,
	}
}

// SetTypes sets the airdrop types offered when creating.
func (m *Model) SetTypes(types []model.AirdropType) {
	m.types = types
}

// StartCreate initializes the form for a new airdrop.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.original = model.Airdrop{}
	*m.fb = formBindings{active: true}
	m.form = m.build()
	return m.form.Init()
}

// StartEdit initializes the form with an existing airdrop.
func (m *Model) StartEdit(a model.Airdrop) tea.Cmd {
	m.editMode = true
	m.original = a
	*m.fb = formBindings{
		name:   a.Name,
		url:    a.URL,
		chain:  model.StringValue(a.Chain),
		wallet: model.StringValue(a.WalletAddress),
		notes:  model.StringValue(a.Notes),
		active: a.Active,
	}
	m.form = m.build()
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.handleSubmit()
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Airdrop"
	if m.editMode {
		titleText = "Edit Airdrop"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) build() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Placeholder("Project or campaign name").
			Value(&m.fb.name).
			Validate(validateName),
		huh.NewInput().
			Title("URL").
			Placeholder("https:// (optional)").
			Value(&m.fb.url).
			Validate(validateURL),
		huh.NewInput().
			Title("Chain").
			Placeholder("e.g. Ethereum (optional)").
			Value(&m.fb.chain),
	}
	if !m.editMode && len(m.types) > 0 {
		fields = append(fields, m.typeField())
	}
	fields = append(fields,
		huh.NewInput().
			Title("Wallet").
			Placeholder("Address used for this airdrop (optional)").
			Value(&m.fb.wallet),
		huh.NewText().
			Title("Notes").
			Placeholder("Optional notes...").
			Value(&m.fb.notes),
		huh.NewConfirm().
			Title("Active?").
			Affirmative("Active").
			Negative("Paused").
			Value(&m.fb.active),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) typeField() huh.Field {
	opts := []huh.Option[int64]{huh.NewOption("None", int64(0))}
	for _, t := range m.types {
		label := t.Name
		if n := len(t.DefaultTasks); n > 0 {
			label = fmt.Sprintf("%s (%d tasks)", t.Name, n)
		}
		opts = append(opts, huh.NewOption(label, t.ID))
	}
	return huh.NewSelect[int64]().
		Title("Type").
		Description("Seeds the type's default daily tasks").
		Options(opts...).
		Value(&m.fb.typeID)
}

func (m Model) handleSubmit() tea.Cmd {
	fb := *m.fb

	if !m.editMode {
		draft := model.AirdropDraft{
			Name:          strings.TrimSpace(fb.name),
			URL:           strings.TrimSpace(fb.url),
			Chain:         model.OptionalString(strings.TrimSpace(fb.chain)),
			WalletAddress: model.OptionalString(strings.TrimSpace(fb.wallet)),
			Notes:         model.OptionalString(strings.TrimSpace(fb.notes)),
			Active:        fb.active,
		}
		if fb.typeID != 0 {
			id := fb.typeID
			draft.AirdropTypeID = &id
		}
		return func() tea.Msg { return CreatedMsg{Draft: draft} }
	}

	id := m.original.ID
	patch := diff(m.original, fb)
	return func() tea.Msg { return EditedMsg{ID: id, Patch: patch} }
}

// diff builds a patch holding only the fields that differ from orig.
func diff(orig model.Airdrop, fb formBindings) model.AirdropPatch {
	var p model.AirdropPatch
	changed := func(old, cur string) *string {
		cur = strings.TrimSpace(cur)
		if cur == old {
			return nil
		}
		return &cur
	}
	p.Name = changed(orig.Name, fb.name)
	p.URL = changed(orig.URL, fb.url)
	p.Chain = changed(model.StringValue(orig.Chain), fb.chain)
	p.WalletAddress = changed(model.StringValue(orig.WalletAddress), fb.wallet)
	p.Notes = changed(model.StringValue(orig.Notes), fb.notes)
	if fb.active != orig.Active {
		active := fb.active
		p.Active = &active
	}
	return p
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateName(s string) error {
	return fieldError(tracker.ValidatePatch(model.AirdropPatch{Name: &s}), "name")
}

func validateURL(s string) error {
	return fieldError(tracker.ValidatePatch(model.AirdropPatch{URL: &s}), "url")
}

// fieldError narrows a ValidationError to a single field's message.
func fieldError(err error, field string) error {
	var ve *tracker.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	if msg, ok := ve.Fields[field]; ok {
		return fmt.Errorf("%s %s", field, msg)
	}
	return nil
}

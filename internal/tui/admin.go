package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/domain"
)

type adminMode int

const (
	admPickCatalog adminMode = iota
	admPickParent
	admList
	admForm
)

// Item form positions.
const (
	afName = iota
	afCode
	afDescription
	afActive
	afFieldCount
)

type admParentsLoadedMsg struct {
	items []domain.CatalogItem
	err   error
}

type admItemsLoadedMsg struct {
	items []domain.CatalogItem
	err   error
}

type admSavedMsg struct{ err error }

type admDeletedMsg struct{ err error }

// adminModel manages the backend's reference catalogs. Child catalogs
// (states, cities) go through a parent picker first so the listing and
// new rows are scoped to one parent.
type adminModel struct {
	client *client.Client

	mode      adminMode
	groups    []domain.CatalogGroup
	catalogs  []domain.Catalog // groups flattened, parallel to catCursor
	catLabels []string         // group label per flattened catalog

	catCursor    int
	catalog      domain.Catalog
	parents      []domain.CatalogItem
	parentCursor int
	parentID     int64

	items  []domain.CatalogItem
	cursor int

	fields  [afFieldCount]formField
	focus   int
	active  bool
	editID  int64 // 0 when adding
	saving  bool
	loading bool
	errText string
	notice  string
}

func newAdminModel(c *client.Client) adminModel {
	m := adminModel{client: c, groups: domain.CatalogGroups()}
	for _, g := range m.groups {
		for _, cat := range g.Catalogs {
			m.catalogs = append(m.catalogs, cat)
			m.catLabels = append(m.catLabels, g.Label)
		}
	}
	m.fields[afName] = formField{label: "name"}
	m.fields[afCode] = formField{label: "code"}
	m.fields[afDescription] = formField{label: "description"}
	m.fields[afActive] = formField{label: "active", choice: true}
	return m
}

func (m adminModel) Init() tea.Cmd { return nil }

func (m adminModel) loadItems() tea.Cmd {
	c := m.client
	cat := m.catalog
	parentID := m.parentID
	return func() tea.Msg {
		items, err := c.ListCatalog(context.Background(), cat, parentID)
		return admItemsLoadedMsg{items: items, err: err}
	}
}

func (m adminModel) loadParents(parent domain.Catalog) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		// Parent pickers are unscoped: countries for states, but states
		// for cities need all states regardless of country.
		items, err := c.ListCatalog(context.Background(), parent, 0)
		return admParentsLoadedMsg{items: items, err: err}
	}
}

// parentCatalog resolves the parent descriptor of the open catalog.
func (m adminModel) parentCatalog() (domain.Catalog, bool) {
	if m.catalog.ParentKey == "" {
		return domain.Catalog{}, false
	}
	for _, cat := range m.catalogs {
		if cat.Key == m.catalog.ParentKey {
			return cat, true
		}
	}
	return domain.Catalog{}, false
}

func (m adminModel) isEditing() bool {
	return m.mode == admForm && !m.saving && !m.fields[m.focus].choice
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case admParentsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load the parent catalog")
			return m, nil
		}
		m.parents = msg.items
		m.parentCursor = 0
		m.errText = ""
		return m, nil

	case admItemsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load the catalog")
			return m, nil
		}
		m.items = msg.items
		m.errText = ""
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case admSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not save the entry")
			return m, nil
		}
		m.mode = admList
		m.notice = "saved"
		m.loading = true
		return m, m.loadItems()

	case admDeletedMsg:
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not delete the entry")
			return m, nil
		}
		m.notice = "deleted"
		m.loading = true
		return m, m.loadItems()

	case tea.KeyMsg:
		if m.loading || m.saving {
			return m, nil
		}
		return m.updateKeys(msg.String())
	}
	return m, nil
}

func (m adminModel) updateKeys(key string) (adminModel, tea.Cmd) {
	switch m.mode {
	case admPickCatalog:
		return m.updateCatalogKeys(key)
	case admPickParent:
		return m.updateParentKeys(key)
	case admList:
		return m.updateListKeys(key)
	case admForm:
		return m.updateFormKeys(key)
	}
	return m, nil
}

func (m adminModel) updateCatalogKeys(key string) (adminModel, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.catCursor < len(m.catalogs)-1 {
			m.catCursor++
		}
	case "k", "up":
		if m.catCursor > 0 {
			m.catCursor--
		}
	case "enter":
		m.catalog = m.catalogs[m.catCursor]
		m.parentID = 0
		m.notice = ""
		if parent, ok := m.parentCatalog(); ok {
			m.mode = admPickParent
			m.loading = true
			return m, m.loadParents(parent)
		}
		m.mode = admList
		m.loading = true
		return m, m.loadItems()
	}
	return m, nil
}

func (m adminModel) updateParentKeys(key string) (adminModel, tea.Cmd) {
	switch key {
	case "esc":
		m.mode = admPickCatalog
	case "j", "down":
		if m.parentCursor < len(m.parents)-1 {
			m.parentCursor++
		}
	case "k", "up":
		if m.parentCursor > 0 {
			m.parentCursor--
		}
	case "enter":
		if m.parentCursor < len(m.parents) {
			m.parentID = m.parents[m.parentCursor].ID
			m.mode = admList
			m.loading = true
			return m, m.loadItems()
		}
	}
	return m, nil
}

func (m adminModel) updateListKeys(key string) (adminModel, tea.Cmd) {
	switch key {
	case "esc":
		if m.catalog.ParentKey != "" {
			m.mode = admPickParent
		} else {
			m.mode = admPickCatalog
		}
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.openForm(nil)
	case "e", "enter":
		if m.cursor < len(m.items) {
			item := m.items[m.cursor]
			m.openForm(&item)
		}
	case "x":
		if m.cursor < len(m.items) {
			c := m.client
			cat := m.catalog
			id := m.items[m.cursor].ID
			m.notice = ""
			return m, func() tea.Msg {
				return admDeletedMsg{err: c.DeleteCatalogItem(context.Background(), cat, id)}
			}
		}
	}
	return m, nil
}

func (m *adminModel) openForm(item *domain.CatalogItem) {
	m.mode = admForm
	m.focus = 0
	m.notice = ""
	m.errText = ""
	if item != nil {
		m.editID = item.ID
		m.fields[afName].value = item.Name
		m.fields[afCode].value = item.Code
		m.fields[afDescription].value = item.Description
		m.active = item.Active
	} else {
		m.editID = 0
		m.fields[afName].value = ""
		m.fields[afCode].value = ""
		m.fields[afDescription].value = ""
		m.active = true
	}
}

func (m adminModel) updateFormKeys(key string) (adminModel, tea.Cmd) {
	switch key {
	case "esc":
		m.mode = admList
		return m, nil
	case "tab", "down", "enter":
		if key == "enter" && m.focus == afFieldCount-1 {
			return m.submit()
		}
		m.focus = (m.focus + 1) % afFieldCount
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + afFieldCount - 1) % afFieldCount
		return m, nil
	case "ctrl+s":
		return m.submit()
	}

	if m.focus == afActive {
		switch key {
		case "h", "l", "left", "right", " ":
			m.active = !m.active
		}
		return m, nil
	}

	m.fields[m.focus].value = editRune(m.fields[m.focus].value, key)
	m.errText = ""
	return m, nil
}

func (m adminModel) submit() (adminModel, tea.Cmd) {
	item := domain.CatalogItem{
		ID:          m.editID,
		Name:        strings.TrimSpace(m.fields[afName].value),
		Code:        strings.TrimSpace(m.fields[afCode].value),
		Description: strings.TrimSpace(m.fields[afDescription].value),
		Active:      m.active,
		ParentID:    m.parentID,
	}
	if item.Name == "" {
		m.errText = "name is required"
		return m, nil
	}

	m.saving = true
	m.errText = ""
	c := m.client
	cat := m.catalog
	return m, func() tea.Msg {
		ctx := context.Background()
		if item.ID != 0 {
			return admSavedMsg{err: c.UpdateCatalogItem(ctx, cat, item)}
		}
		_, err := c.CreateCatalogItem(ctx, cat, item)
		return admSavedMsg{err: err}
	}
}

func (m adminModel) View() string {
	switch m.mode {
	case admPickParent:
		return m.renderParentPicker()
	case admList:
		return m.renderList()
	case admForm:
		return m.renderForm()
	}
	return m.renderCatalogPicker()
}

func (m adminModel) renderCatalogPicker() string {
	var sb strings.Builder
	sb.WriteString(" " + accentStyle.Render("Catalogs") + "\n")

	lastGroup := ""
	for i, cat := range m.catalogs {
		if m.catLabels[i] != lastGroup {
			lastGroup = m.catLabels[i]
			sb.WriteString("\n " + metaStyle.Render(lastGroup) + "\n")
		}
		cursor := "  "
		style := normalStyle
		if i == m.catCursor {
			cursor = accentStyle.Render("> ")
			style = selectedStyle
		}
		sb.WriteString(" " + cursor + style.Render(cat.Label) + "\n")
	}
	sb.WriteString("\n " + helpEntry("enter", "open") + "\n")
	return sb.String()
}

func (m adminModel) renderParentPicker() string {
	var sb strings.Builder
	parent, _ := m.parentCatalog()
	sb.WriteString(" " + accentStyle.Render(m.catalog.Label) + " " + metaStyle.Render("— pick a "+strings.ToLower(strings.TrimSuffix(parent.Label, "s"))) + "\n\n")

	if m.loading {
		sb.WriteString(" " + dimStyle.Render("loading..."))
		return sb.String()
	}
	if len(m.parents) == 0 {
		sb.WriteString(" " + dimStyle.Render("nothing here yet — add entries to "+parent.Label+" first") + "\n")
		return sb.String()
	}
	for i, item := range m.parents {
		cursor := "  "
		style := normalStyle
		if i == m.parentCursor {
			cursor = accentStyle.Render("> ")
			style = selectedStyle
		}
		sb.WriteString(" " + cursor + style.Render(item.Name) + "\n")
	}
	sb.WriteString("\n " + helpEntry("enter", "open") + "  " + helpEntry("esc", "back") + "\n")
	return sb.String()
}

func (m adminModel) renderList() string {
	var sb strings.Builder
	sb.WriteString(" " + accentStyle.Render(m.catalog.Label) + "\n\n")

	if m.loading {
		sb.WriteString(" " + dimStyle.Render("loading..."))
		return sb.String()
	}

	if len(m.items) == 0 {
		sb.WriteString(" " + dimStyle.Render("empty — press a to add the first entry") + "\n")
	}
	for i, item := range m.items {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			style = selectedStyle
		}
		row := " " + cursor + style.Render(truncStr(item.Name, 32))
		if item.Code != "" {
			row += "  " + goldStyle.Render(item.Code)
		}
		if !item.Active {
			row += "  " + dimStyle.Render("inactive")
		}
		sb.WriteString(row + "\n")
	}

	sb.WriteString("\n " + helpEntry("a", "add") + "  " + helpEntry("e", "edit") + "  " + helpEntry("x", "delete") + "  " + helpEntry("esc", "back") + "\n")
	if m.notice != "" {
		sb.WriteString("\n " + okStyle.Render(m.notice) + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errText) + "\n")
	}
	return sb.String()
}

func (m adminModel) renderForm() string {
	var sb strings.Builder
	title := "Add to " + m.catalog.Label
	if m.editID != 0 {
		title = "Edit " + m.catalog.Label
	}
	sb.WriteString(" " + accentStyle.Render(title) + "\n\n")

	for i := range m.fields {
		f := m.fields[i]
		focused := m.focus == i
		line := " " + metaStyle.Render(padRight(f.label, 14))
		if i == afActive {
			state := "yes"
			if !m.active {
				state = "no"
			}
			if focused {
				line += accentStyle.Render("< ") + selectedStyle.Render(state) + accentStyle.Render(" >")
			} else {
				line += normalStyle.Render(state)
			}
		} else {
			switch {
			case focused:
				line += selectedStyle.Render(f.value) + accentStyle.Render("█")
			case f.value != "":
				line += normalStyle.Render(f.value)
			default:
				line += inputPlaceholderStyle.Render("...")
			}
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n " + dimStyle.Render("ctrl+s to save, esc to cancel") + "\n")
	if m.saving {
		sb.WriteString("\n " + dimStyle.Render("saving...") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errText) + "\n")
	}
	return sb.String()
}

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/domain"
)

func TestAdminCatalogPickerGroups(t *testing.T) {
	m := newAdminModel(nil)
	view := m.View()
	for _, want := range []string{"Locations", "User data", "Raffle data", "Countries", "Genders", "Prize types"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in the picker, got:\n%s", want, view)
		}
	}
}

func TestAdminTopLevelCatalogOpensDirectly(t *testing.T) {
	m := newAdminModel(nil)
	// Cursor starts on Countries, a top-level catalog.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != admList {
		t.Fatalf("mode = %v, want list", m.mode)
	}
	if cmd == nil {
		t.Error("opening a catalog should load its rows")
	}
	if m.catalog.Key != "countries" {
		t.Errorf("catalog = %q", m.catalog.Key)
	}
}

func TestAdminChildCatalogAsksForParent(t *testing.T) {
	m := newAdminModel(nil)
	m.catCursor = 1 // States
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != admPickParent {
		t.Fatalf("mode = %v, want parent picker", m.mode)
	}
	if cmd == nil {
		t.Fatal("the parent catalog should load")
	}

	m, _ = m.Update(admParentsLoadedMsg{items: []domain.CatalogItem{
		{ID: 7, Name: "Paraguay"},
	}})
	if !strings.Contains(m.View(), "Paraguay") {
		t.Errorf("expected parent row, got:\n%s", m.View())
	}

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != admList {
		t.Fatalf("mode after parent pick = %v", m.mode)
	}
	if m.parentID != 7 {
		t.Errorf("parentID = %d", m.parentID)
	}
	if cmd == nil {
		t.Error("picking a parent should load the scoped rows")
	}
}

func TestAdminListAndRows(t *testing.T) {
	m := newAdminModel(nil)
	m.catalog = domain.CatalogGenders
	m.mode = admList
	m, _ = m.Update(admItemsLoadedMsg{items: []domain.CatalogItem{
		{ID: 1, Name: "Female", Code: "F", Active: true},
		{ID: 2, Name: "Other", Code: "O", Active: false},
	}})

	view := m.View()
	if !strings.Contains(view, "Female") || !strings.Contains(view, "F") {
		t.Errorf("expected row, got:\n%s", view)
	}
	if !strings.Contains(view, "inactive") {
		t.Errorf("expected inactive marker, got:\n%s", view)
	}
}

func TestAdminAddFormDefaults(t *testing.T) {
	m := newAdminModel(nil)
	m.catalog = domain.CatalogGenders
	m.mode = admList
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	if m.mode != admForm || m.editID != 0 {
		t.Fatalf("mode/editID = %v/%d", m.mode, m.editID)
	}
	if !m.active {
		t.Error("new entries should default to active")
	}
	if !strings.Contains(m.View(), "Add to Genders") {
		t.Errorf("expected add title, got:\n%s", m.View())
	}
}

func TestAdminEditFormPrefills(t *testing.T) {
	m := newAdminModel(nil)
	m.catalog = domain.CatalogGenders
	m.mode = admList
	m, _ = m.Update(admItemsLoadedMsg{items: []domain.CatalogItem{
		{ID: 9, Name: "Female", Code: "F", Active: false},
	}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})

	if m.editID != 9 {
		t.Fatalf("editID = %d", m.editID)
	}
	if m.fields[afName].value != "Female" || m.fields[afCode].value != "F" {
		t.Error("form should prefill from the row")
	}
	if m.active {
		t.Error("active flag should prefill")
	}
}

func TestAdminFormValidation(t *testing.T) {
	m := newAdminModel(nil)
	m.catalog = domain.CatalogGenders
	m.mode = admForm
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("empty form must not submit")
	}
	if !strings.Contains(m.View(), "name is required") {
		t.Errorf("expected validation, got:\n%s", m.View())
	}
}

func TestAdminDeleteFires(t *testing.T) {
	m := newAdminModel(nil)
	m.catalog = domain.CatalogGenders
	m.mode = admList
	m, _ = m.Update(admItemsLoadedMsg{items: []domain.CatalogItem{{ID: 3, Name: "Other"}}})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd == nil {
		t.Error("x should delete the selected row")
	}
}

func TestAdminEscWalksBack(t *testing.T) {
	m := newAdminModel(nil)
	m.catalog = domain.CatalogCities
	m.mode = admList
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != admPickParent {
		t.Errorf("esc from a child catalog list should return to the parent picker, got %v", m.mode)
	}

	m.catalog = domain.CatalogGenders
	m.mode = admList
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != admPickCatalog {
		t.Errorf("esc from a top-level list should return to the catalog picker, got %v", m.mode)
	}
}

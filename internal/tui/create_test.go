package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/domain"
)

func loadedCreate(m createModel) createModel {
	m, _ = m.Update(createLoadedMsg{prizeTypes: []domain.CatalogItem{
		{ID: 1, Name: "Cash"},
		{ID: 2, Name: "Goods"},
	}})
	return m
}

func fillValidForm(m createModel) createModel {
	m.fields[crName].value = "Gold watch"
	m.fields[crDrawDate].value = time.Now().Add(72 * time.Hour).Format(drawDateLayout)
	m.fields[crNumberAmount].value = "100"
	m.fields[crNumberPrice].value = "10"
	m.fields[crPrizeAmount].value = "500"
	m.fields[crMinimumSold].value = "20"
	return m
}

func TestCreateFormRenders(t *testing.T) {
	m := loadedCreate(newCreateModel(nil, 0))
	view := m.View()
	if !strings.Contains(view, "New raffle") {
		t.Errorf("expected create title, got:\n%s", view)
	}
	for _, label := range []string{"name", "draw date", "number count", "prize type"} {
		if !strings.Contains(view, label) {
			t.Errorf("expected field %q, got:\n%s", label, view)
		}
	}
	if !strings.Contains(view, "Cash") {
		t.Errorf("expected prize type option, got:\n%s", view)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(createModel) createModel
		wantErr string
	}{
		{"missing name", func(m createModel) createModel {
			m.fields[crName].value = ""
			return m
		}, "name is required"},
		{"bad draw date", func(m createModel) createModel {
			m.fields[crDrawDate].value = "tomorrow"
			return m
		}, "draw date must look like"},
		{"past draw date", func(m createModel) createModel {
			m.fields[crDrawDate].value = time.Now().Add(-time.Hour).Format(drawDateLayout)
			return m
		}, "draw date must be in the future"},
		{"bad number count", func(m createModel) createModel {
			m.fields[crNumberAmount].value = "-3"
			return m
		}, "number count must be a positive integer"},
		{"bad price", func(m createModel) createModel {
			m.fields[crNumberPrice].value = "free"
			return m
		}, "price per number must be a positive amount"},
		{"minimum above count", func(m createModel) createModel {
			m.fields[crMinimumSold].value = "150"
			return m
		}, "minimum sold cannot exceed"},
	}
	for _, tt := range tests {
		m := tt.mutate(fillValidForm(loadedCreate(newCreateModel(nil, 0))))
		m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
		if cmd != nil {
			t.Errorf("%s: invalid form must not submit", tt.name)
			continue
		}
		if !strings.Contains(m.View(), tt.wantErr) {
			t.Errorf("%s: expected %q, got:\n%s", tt.name, tt.wantErr, m.View())
		}
	}
}

func TestCreateValidFormSubmits(t *testing.T) {
	m := fillValidForm(loadedCreate(newCreateModel(nil, 0)))
	req, problem := m.buildRequest()
	if problem != "" {
		t.Fatalf("buildRequest: %s", problem)
	}
	if req.Name != "Gold watch" || req.NumberAmount != 100 || req.NumberPrice != 10 {
		t.Errorf("request = %+v", req)
	}
	if req.PrizeTypeID != 1 {
		t.Errorf("PrizeTypeID = %d, want the selected option", req.PrizeTypeID)
	}
}

func TestCreateEditModePrefills(t *testing.T) {
	m := newCreateModel(nil, 42)
	raffle := makeRaffle(42, "Existing raffle", 24*time.Hour)
	raffle.PrizeTypeID = 2
	raffle.MinimumNumbersSold = 10
	m, _ = m.Update(createLoadedMsg{
		raffle:     &raffle,
		prizeTypes: []domain.CatalogItem{{ID: 1, Name: "Cash"}, {ID: 2, Name: "Goods"}},
	})

	view := m.View()
	if !strings.Contains(view, "Edit raffle") {
		t.Errorf("expected edit title, got:\n%s", view)
	}
	if !strings.Contains(view, "Existing raffle") {
		t.Errorf("expected prefilled name, got:\n%s", view)
	}
	if m.fields[crPrizeType].idx != 1 {
		t.Errorf("prize type idx = %d, want the raffle's type", m.fields[crPrizeType].idx)
	}
	if !strings.Contains(view, "cancel raffle") {
		t.Errorf("edit mode should offer cancellation, got:\n%s", view)
	}
}

func TestCreateDeleteOnlyInEditMode(t *testing.T) {
	m := loadedCreate(newCreateModel(nil, 0))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if cmd != nil {
		t.Error("ctrl+d must be inert while creating")
	}

	m = loadedCreate(newCreateModel(nil, 42))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if cmd == nil {
		t.Error("ctrl+d should cancel an existing raffle")
	}
}

func TestCreateSaveNavigatesToRaffle(t *testing.T) {
	m := loadedCreate(newCreateModel(nil, 0))
	_, cmd := m.Update(raffleSavedMsg{raffleID: 77})
	if cmd == nil {
		t.Fatal("save should navigate")
	}
	msg, ok := cmd().(navigateMsg)
	if !ok || msg.path != "/raffles/77/buy" {
		t.Errorf("navigation = %+v", msg)
	}
}

func TestCreatePrizeTypeCycles(t *testing.T) {
	m := loadedCreate(newCreateModel(nil, 0))
	m.focus = crPrizeType
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if m.fields[crPrizeType].idx != 1 {
		t.Errorf("idx = %d after l", m.fields[crPrizeType].idx)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if m.fields[crPrizeType].idx != 0 {
		t.Error("cycling should wrap")
	}
}

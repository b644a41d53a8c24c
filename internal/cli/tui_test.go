package cli

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/config"
)

func pickerConfig() *config.Config {
	cfg := config.Default()
	cfg.Source.Defaults.Favicon = true
	v := []asset.Variant{{Name: "a", Width: 8, Height: 8, Format: asset.FormatPNG}}
	cfg.Assets = []config.AssetDefinition{
		{Name: "social", Type: config.TypeSocial, Variants: v},
		{Name: "logo", Type: config.TypeLogo, Variants: v},
	}
	return cfg
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m AssetPickerModel, keys ...string) AssetPickerModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(AssetPickerModel)
	}
	return m
}

func TestAssetPickerItems(t *testing.T) {
	m := NewAssetPickerModel(pickerConfig())
	var names []string
	for _, it := range m.Items {
		names = append(names, it.Name)
	}
	if want := []string{"favicon", "social", "logo"}; !slices.Equal(names, want) {
		t.Errorf("items = %v, want %v", names, want)
	}
	if !slices.Equal(m.Selected(), names) {
		t.Errorf("initial selection = %v", m.Selected())
	}
}

func TestAssetPickerToggle(t *testing.T) {
	m := press(NewAssetPickerModel(pickerConfig()), "down", " ")
	if want := []string{"favicon", "logo"}; !slices.Equal(m.Selected(), want) {
		t.Errorf("after toggle = %v, want %v", m.Selected(), want)
	}

	m = press(m, "a")
	if len(m.Selected()) != 3 {
		t.Errorf("after select all = %v", m.Selected())
	}
	m = press(m, "a")
	if len(m.Selected()) != 0 {
		t.Errorf("after deselect all = %v", m.Selected())
	}

	m = press(m, "enter")
	if m.Confirmed {
		t.Error("enter with nothing selected should not confirm")
	}

	m = press(m, "x", "enter")
	if !m.Confirmed || !slices.Equal(m.Selected(), []string{"social"}) {
		t.Errorf("confirmed = %v, selected = %v", m.Confirmed, m.Selected())
	}
}

func TestAssetPickerView(t *testing.T) {
	view := NewAssetPickerModel(pickerConfig()).View()
	for _, want := range []string{"Select Assets", "social", "logo", "3 of 3 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

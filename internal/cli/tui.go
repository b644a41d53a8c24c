package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/assetforge/pkg/config"
	"github.com/matzehuels/assetforge/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// AssetPickerModel - Interactive asset selection
// =============================================================================

// pickerItem is one selectable asset definition.
type pickerItem struct {
	Name     string
	Type     string
	Output   string
	Variants int
}

// AssetPickerModel is the bubbletea model for choosing which assets to generate.
type AssetPickerModel struct {
	Items     []pickerItem
	Chosen    map[int]bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewAssetPickerModel lists the asset definitions of cfg, with the built-in
// favicon family first when enabled. Every item starts selected.
func NewAssetPickerModel(cfg *config.Config) AssetPickerModel {
	var items []pickerItem
	if cfg.Source.Defaults.Favicon {
		items = append(items, pickerItem{
			Name:     pipeline.FaviconAsset,
			Type:     config.TypeFavicon,
			Output:   cfg.StructureDir(config.TypeFavicon),
			Variants: len(pipeline.FaviconVariants),
		})
	}
	for _, a := range cfg.Assets {
		items = append(items, pickerItem{
			Name:     a.Name,
			Type:     a.Type,
			Output:   cfg.OutputDir(a),
			Variants: len(a.Variants),
		})
	}
	chosen := make(map[int]bool, len(items))
	for i := range items {
		chosen[i] = true
	}
	return AssetPickerModel{Items: items, Chosen: chosen, Height: 15}
}

// Selected returns the names of the chosen assets, in list order.
func (m AssetPickerModel) Selected() []string {
	var names []string
	for i, it := range m.Items {
		if m.Chosen[i] {
			names = append(names, it.Name)
		}
	}
	return names
}

func (m AssetPickerModel) Init() tea.Cmd {
	return nil
}

func (m AssetPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Items) > 0 {
				m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
			}
		case "a":
			all := len(m.Selected()) < len(m.Items)
			for i := range m.Items {
				m.Chosen[i] = all
			}
		case "enter":
			if len(m.Selected()) == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m AssetPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Assets"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  a all  ⏎ generate  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Chosen[i] {
			check = "[x]"
		}
		typ := it.Type
		if typ == "" {
			typ = "—"
		}
		rows = append(rows, []string{cursor + check, it.Name, typ, fmt.Sprintf("%d", it.Variants), it.Output})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Asset", "Type", "Variants", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			}
			switch {
			case idx == m.Cursor && m.Chosen[idx]:
				return base.Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return base.Bold(true)
			case m.Chosen[idx]:
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Selected()), len(m.Items))))

	return b.String()
}

// pickAssets runs the picker and returns the chosen asset names. ok is
// false when the user quit without confirming.
func pickAssets(cfg *config.Config) (names []string, ok bool, err error) {
	model := NewAssetPickerModel(cfg)
	if len(model.Items) == 0 {
		return nil, false, nil
	}
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, false, err
	}
	m := final.(AssetPickerModel)
	if !m.Confirmed {
		return nil, false, nil
	}
	return m.Selected(), true, nil
}

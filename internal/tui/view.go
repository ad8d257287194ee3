package tui

import (
	"strings"

	"stockview/internal/viewer"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("📦 Quản lý tồn kho"))
	b.WriteString("\n")
	b.WriteString(m.viewMetadata())
	b.WriteString("\n\n")

	switch {
	case m.snap.Sheet == nil:
		msg := viewer.NoticeLoadFailed
		if m.snap.LoadError != "" {
			msg += ": " + m.snap.LoadError
		}
		b.WriteString(m.styles.loadError.Render(msg))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewTabs())
		b.WriteString("\n")
		b.WriteString(m.viewSearchBar())
		b.WriteString("\n")
		b.WriteString(m.viewTable())
		b.WriteString("\n")
	}

	if m.mode == modeUpload {
		b.WriteString(m.upload.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.styles.status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	screen := b.String()
	switch {
	case m.notice != nil:
		return m.overlay(m.viewNotice())
	case m.mode == modePicker:
		return m.overlay(m.viewPicker())
	}
	return screen
}

func (m Model) viewMetadata() string {
	md := m.snap.Metadata
	field := func(label, value string) string {
		return m.styles.meta.Render(label+": ") + m.styles.metaValue.Render(value)
	}
	return strings.Join([]string{
		field("Ngày tồn kho", md.DateTonKho),
		field("Tổng sản phẩm", md.TotalProducts),
		field("Số sheet", md.TotalSheets),
		field("Cập nhật", md.LastUpdated),
		field("File", md.SourceFile),
	}, "  │  ")
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(m.snap.Tabs))
	for _, t := range m.snap.Tabs {
		if t.Active {
			tabs = append(tabs, m.styles.activeTab.Render(t.Name))
		} else {
			tabs = append(tabs, m.styles.tab.Render(t.Name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewSearchBar() string {
	sheet := m.snap.Sheet
	column := sheet.ColumnFilter
	if column == viewer.AllColumns || column == "" {
		column = "Tất cả cột"
	}

	var input string
	if m.mode == modeSearch {
		input = m.search.View()
	} else if sheet.SearchTerm != "" {
		input = m.styles.prompt.Render("🔍 ") + sheet.SearchTerm
	} else {
		input = m.styles.status.Render("/ để tìm kiếm")
	}

	return input + "   " +
		m.styles.meta.Render("Cột: ") + m.styles.metaValue.Render(column) + "   " +
		m.styles.meta.Render("Hiển thị: ") + m.styles.metaValue.Render(sheet.CountLabel)
}

func (m Model) viewTable() string {
	sheet := m.snap.Sheet
	if sheet.EmptyMessage != "" {
		return m.styles.empty.Render(sheet.EmptyMessage)
	}

	end := m.offset + m.tableHeight()
	if end > len(sheet.Rows) {
		end = len(sheet.Rows)
	}
	visible := sheet.Rows[m.offset:end]

	rows := make([][]string, len(visible))
	for i, r := range visible {
		cells := make([]string, len(r.Cells))
		for j, c := range r.Cells {
			cells[j] = cellText(c)
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers(sheet.Columns...).
		Rows(rows...).
		Width(m.width).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return m.styles.header
			}
			base := m.styles.cell
			if m.offset+row == m.cursor {
				base = m.styles.selectedRow
			}
			if row < len(visible) && col < len(visible[row].Cells) {
				return m.styles.tierStyle(base, visible[row].Cells[col].Tier)
			}
			return base
		})
	return t.String()
}

// cellText is what a cell shows in the grid. Editable cells show the chosen
// option, or the pending label while a save runs.
func cellText(c viewer.Cell) string {
	if c.Editor == nil {
		return c.Text
	}
	for _, o := range c.Editor.Options {
		if o.Selected {
			return "▾ " + o.Label
		}
	}
	if c.Text == "" {
		return "▾ --"
	}
	return "▾ " + c.Text
}

func (m Model) viewPicker() string {
	lines := []string{m.styles.title.Render("Thời hạn sử dụng")}
	for i, o := range m.picker.options {
		label := o.Label
		if o.Selected {
			label += " ✓"
		}
		if i == m.picker.cursor {
			lines = append(lines, m.styles.pickerPick.Render("› "+label))
		} else {
			lines = append(lines, m.styles.pickerItem.Render(label))
		}
	}
	lines = append(lines, "", m.styles.status.Render("enter chọn · esc hủy"))
	return m.styles.picker.Render(strings.Join(lines, "\n"))
}

func (m Model) viewNotice() string {
	style := m.styles.modal
	if m.notice.Level == viewer.NoticeError {
		style = m.styles.modalError
	}
	return style.Render(m.notice.Message + "\n\n" + m.styles.status.Render("nhấn phím bất kỳ để đóng"))
}

func (m Model) overlay(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

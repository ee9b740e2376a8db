package engine

import (
	"fmt"
	"strings"

	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/ui"
)

var weekdayLabels = [7]string{"Mon", "", "Wed", "", "Fri", "", "Sun"}

// FormatHeatmap renders the grid GitHub-style: one row per weekday, Monday
// on top, one column per week, oldest on the left.
func FormatHeatmap(hm Heatmap) string {
	if len(hm.Weeks) == 0 {
		return ui.Muted.Render("  (no history yet)")
	}

	var b strings.Builder
	b.WriteString("     " + monthHeader(hm) + "\n")
	for row := 0; row < 7; row++ {
		b.WriteString(ui.Muted.Render(fmt.Sprintf("  %-3s ", weekdayLabels[row])))
		for _, w := range hm.Weeks {
			b.WriteString(FormatCell(w[row].Status))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n  " + legend())
	return b.String()
}

// monthHeader labels the first column of each month.
func monthHeader(hm Heatmap) string {
	var b strings.Builder
	skip := 0
	for i, w := range hm.Weeks {
		if skip > 0 {
			skip--
			continue
		}
		first := w[0].Date
		if i == 0 || !first.SameMonth(hm.Weeks[i-1][0].Date) {
			label := first.Format("Jan")
			b.WriteString(ui.Muted.Render(label + " "))
			// a 3-letter label plus space covers two columns
			skip = 1
			continue
		}
		b.WriteString("  ")
	}
	return b.String()
}

// FormatCell renders one heatmap cell as a single glyph.
func FormatCell(s CellStatus) string {
	switch s {
	case CellSuccess:
		return ui.CellSuccess.Render("■")
	case CellFailure:
		return ui.CellFailure.Render("■")
	case CellPartial:
		return ui.CellPartial.Render("■")
	case CellEmpty:
		return ui.CellEmpty.Render("·")
	}
	return " "
}

func legend() string {
	return strings.Join([]string{
		FormatCell(CellSuccess) + ui.Muted.Render(" done"),
		FormatCell(CellPartial) + ui.Muted.Render(" partial"),
		FormatCell(CellFailure) + ui.Muted.Render(" missed"),
		FormatCell(CellEmpty) + ui.Muted.Render(" no log"),
	}, "   ")
}

// FormatStatus returns a short coloured label for a log status.
func FormatStatus(s habit.Status) string {
	label := strings.ToLower(string(s))
	switch {
	case s.IsSuccess():
		return ui.Success.Render(ui.IconOk + label)
	case s.IsFailure():
		return ui.Error.Render(ui.IconError + label)
	case s == habit.Partial:
		return ui.Warning.Render("◐ " + label)
	}
	return ui.Muted.Render(label)
}

// FormatWindow renders window progress, e.g. "2/3 · 4 days left".
func FormatWindow(ws WindowState) string {
	count := fmt.Sprintf("%d/%d", ws.CurrentCount, ws.Target)
	switch {
	case ws.Satisfied:
		return ui.Success.Render(count + " " + ui.IconOk)
	case ws.Failed:
		return ui.Error.Render(count + " window missed")
	}
	left := "days"
	if ws.DaysRemaining == 1 {
		left = "day"
	}
	style := ui.Muted
	if ws.DaysRemaining <= 1 {
		style = ui.Error
	}
	return ui.Warning.Render(count) + " " + style.Render(fmt.Sprintf("%s %d %s left", ui.IconDot, ws.DaysRemaining, left))
}

// FormatStreak renders a streak with the fire icon once it is running.
func FormatStreak(s StreakInfo) string {
	cur := fmt.Sprintf("%d", s.Current)
	if s.Current > 0 {
		cur = ui.Accent.Render(fmt.Sprintf("%s %d", ui.IconFire, s.Current))
	}
	return fmt.Sprintf("%s %s", cur, ui.Muted.Render(fmt.Sprintf("(best %d)", s.Longest)))
}

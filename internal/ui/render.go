package ui

import (
	"fmt"
	"io"

	"github.com/idilsaglam/taskhub/internal/model"
)

// TaskLine renders one task: checkbox, title, id.
func TaskLine(t model.Task) string {
	th := Current()
	if t.Done {
		return fmt.Sprintf("%s %s %s", C(th.Success, th.BoxChecked), C(dim, t.Title), C(th.Muted, fmt.Sprintf("#%d", t.ID)))
	}
	return fmt.Sprintf("%s %s %s", C(th.Pending, th.BoxUnchecked), t.Title, C(th.Muted, fmt.Sprintf("#%d", t.ID)))
}

// PersonLine renders one person: active marker, full name, id.
func PersonLine(p model.Person) string {
	th := Current()
	mark := C(th.Success, th.SymActive)
	if !p.Aktiv {
		mark = C(th.Muted, th.SymInactive)
	}
	return fmt.Sprintf("%s %s %s", mark, p.FullName(), C(th.Muted, p.ID.String()))
}

// TaskPanel prints the task list framed with a header and progress. Rows
// carry their 1-based position so commands can refer to them. With group,
// pending tasks are listed before done ones.
func TaskPanel(w io.Writer, title string, tasks []model.Task, group bool) {
	th := Current()
	if len(tasks) == 0 {
		fmt.Fprintln(w, C(th.Muted, "No tasks yet. Try: taskhub tasks add \"Buy milk\""))
		return
	}
	open := model.OpenCount(tasks)
	done := len(tasks) - open
	lines := []string{
		C(th.Title, title) + "  " + C(th.Muted, fmt.Sprintf("%d open · %d done", open, done)),
		C(th.Accent, ProgressBar(done, len(tasks), 24)),
		"",
	}
	row := func(i int) string {
		return C(dim, fmt.Sprintf("%2d.", i+1)) + " " + TaskLine(tasks[i])
	}
	if !group {
		for i := range tasks {
			lines = append(lines, row(i))
		}
		Panel(w, lines)
		return
	}
	section := func(name string, wantDone bool) {
		lines = append(lines, C(th.Accent, name))
		n := 0
		for i, t := range tasks {
			if t.Done == wantDone {
				lines = append(lines, row(i))
				n++
			}
		}
		if n == 0 {
			lines = append(lines, C(th.Muted, "(none)"))
		}
	}
	section("Pending", false)
	lines = append(lines, "")
	section("Done", true)
	Panel(w, lines)
}

// PersonPanel prints the person list framed with a header.
func PersonPanel(w io.Writer, persons []model.Person) {
	th := Current()
	if len(persons) == 0 {
		fmt.Fprintln(w, C(th.Muted, "No persons yet."))
		return
	}
	active := 0
	for _, p := range persons {
		if p.Aktiv {
			active++
		}
	}
	lines := []string{
		C(th.Title, "Personen") + "  " + C(th.Muted, fmt.Sprintf("%d active · %d total", active, len(persons))),
		"",
	}
	for _, p := range persons {
		lines = append(lines, PersonLine(p))
	}
	Panel(w, lines)
}

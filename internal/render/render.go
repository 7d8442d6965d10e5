// README: HTML and plain-text rendering for city cards and the chat shell.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"wanderlust/internal/ai"
	"wanderlust/internal/modules/conversation"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"clock": clock,
	}).ParseFS(templateFS, "templates/*.tmpl"),
)

// Templates returns the parsed shell and card templates, suitable for
// gin's SetHTMLTemplate.
func Templates() *template.Template {
	return templates
}

// ShellView is the data the shell template renders.
type ShellView struct {
	Messages []conversation.Message
	Typing   bool
	Draft    string
	// LatestID is the id of the message that carries the "latest" anchor.
	// It is empty while typing; the typing indicator carries the anchor then.
	LatestID string
}

// NewShellView builds the shell data from a transcript snapshot.
func NewShellView(messages []conversation.Message, typing bool, draft string) ShellView {
	view := ShellView{Messages: messages, Typing: typing, Draft: draft}
	if n := len(messages); n > 0 && !typing {
		view.LatestID = messages[n-1].ID
	}
	return view
}

// WriteShell renders the full page.
func WriteShell(w io.Writer, view ShellView) error {
	return templates.ExecuteTemplate(w, "shell", view)
}

// WriteCard renders one city card. A nil info renders nothing.
func WriteCard(w io.Writer, info *ai.CityInfo) error {
	if info == nil {
		return nil
	}
	return templates.ExecuteTemplate(w, "card", info)
}

// CardText renders the card for a terminal.
func CardText(info *ai.CityInfo) string {
	if info == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", info.CityName)
	fmt.Fprintf(&b, "\"%s\"\n\n", info.Intro)
	fmt.Fprintf(&b, "Top %d Attractions\n", len(info.Attractions))
	for i, a := range info.Attractions {
		fmt.Fprintf(&b, "  %d. %s\n     %s\n", i+1, a.Name, a.Description)
	}
	fmt.Fprintf(&b, "\nPro Travel Tip\n  %s\n", info.TravelTip)
	return b.String()
}

func clock(t time.Time) string {
	return t.Format("15:04")
}

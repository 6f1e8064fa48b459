package page

import (
	"fmt"
	"html"
	"strings"

	"github.com/zellyn/pylearn/internal/curriculum"
)

// BuildSidebar renders the course navigation shared by every page: one
// collapsible group per module, lessons in manifest order.
func BuildSidebar(m *curriculum.Manifest) string {
	var b strings.Builder
	for _, mod := range m.Modules() {
		b.WriteString("\n        <div class=\"lesson-group\">\n")
		b.WriteString("            <div class=\"lesson-group-header\">\n")
		fmt.Fprintf(&b, "                <h3>%s</h3>\n", html.EscapeString(mod.Name))
		b.WriteString("                <span class=\"toggle-icon\">▼</span>\n")
		b.WriteString("            </div>\n")
		b.WriteString("            <ul>")
		for _, e := range mod.Lessons {
			fmt.Fprintf(&b, "\n                <li><a href=\"%s\">%s</a></li>", html.EscapeString(e.Filename()), html.EscapeString(e.Label()))
		}
		b.WriteString("\n            </ul>\n")
		b.WriteString("        </div>")
	}
	return b.String()
}

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/lotas/fenster/internal/types"
)

// Markdown formats the saved session and bookmarks as a markdown document.
func Markdown(snap *types.SessionSnapshot, bms []types.Bookmark) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# fenster session\n")
	fmt.Fprintf(&b, "> Exported %s\n", time.Now().Format("2006-01-02 15:04"))

	if snap != nil && len(snap.Tabs) > 0 {
		n := len(snap.Tabs)
		noun := "tabs"
		if n == 1 {
			noun = "tab"
		}
		fmt.Fprintf(&b, "\n## Open %s (%d)\n\n", noun, n)
		for i, tab := range snap.Tabs {
			title := tab.Title
			if title == "" {
				title = tab.URL
			}
			marker := ""
			if tab.Pinned {
				marker = " 📌"
			}
			if i == snap.ActiveIndex {
				marker += " (active)"
			}
			fmt.Fprintf(&b, "- [%s](%s)%s\n", title, tab.URL, marker)
		}
	}

	if len(bms) > 0 {
		fmt.Fprintf(&b, "\n## Bookmarks (%d)\n\n", len(bms))
		for _, bm := range bms {
			title := bm.Title
			if title == "" {
				title = bm.URL
			}
			fmt.Fprintf(&b, "- [%s](%s)\n", title, bm.URL)
		}
	}

	return b.String()
}

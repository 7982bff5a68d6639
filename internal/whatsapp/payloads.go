package whatsapp

import "github.com/clinicahortense/concierge/internal/catalog"

// maxFooterLen is the Graph API character budget for list footers.
const maxFooterLen = 60

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type listPayload struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Interactive      interactiveList `json:"interactive"`
}

type interactiveList struct {
	Type   string      `json:"type"`
	Header *listHeader `json:"header,omitempty"`
	Body   listText    `json:"body"`
	Footer *listText   `json:"footer,omitempty"`
	Action listAction  `json:"action"`
}

type listHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type listText struct {
	Text string `json:"text"`
}

type listAction struct {
	Button   string        `json:"button"`
	Sections []listSection `json:"sections"`
}

type listSection struct {
	Title string    `json:"title"`
	Rows  []listRow `json:"rows"`
}

type listRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func buildInteractiveList(menu *catalog.MenuNode) interactiveList {
	rows := make([]listRow, 0, len(menu.Rows))
	for _, r := range menu.Rows {
		rows = append(rows, listRow{ID: r.ID, Title: r.Title, Description: r.Description})
	}
	il := interactiveList{
		Type: "list",
		Body: listText{Text: menu.Body},
		Action: listAction{
			Button:   menu.Button,
			Sections: []listSection{{Title: "Menu", Rows: rows}},
		},
	}
	if menu.Header != "" {
		il.Header = &listHeader{Type: "text", Text: menu.Header}
	}
	if menu.Footer != "" {
		il.Footer = &listText{Text: truncateFooter(menu.Footer)}
	}
	return il
}

func truncateFooter(footer string) string {
	runes := []rune(footer)
	if len(runes) <= maxFooterLen {
		return footer
	}
	return string(runes[:maxFooterLen-1]) + "…"
}

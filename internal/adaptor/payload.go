package adaptor

// Payload is the JSON answer to AJAX requests. The page script swaps each
// snippet into the element with the matching id.
type Payload struct {
	Snippets         map[string]string `json:"snippets,omitempty"`
	Redirect         string            `json:"redirect,omitempty"`
	GridURL          string            `json:"_datagrid_url,omitempty"`
	InlineEdited     string            `json:"_datagrid_inline_edited,omitempty"`
	InlineEditCancel string            `json:"_datagrid_inline_edit_cancel,omitempty"`
}

func (p *Payload) AddSnippet(name, html string) {
	if p.Snippets == nil {
		p.Snippets = make(map[string]string)
	}
	p.Snippets["snippet--"+name] = html
}

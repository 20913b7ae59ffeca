// Package tags holds the style and script tags emitted for a page and
// renders them into an HTML document.
package tags

import (
	"fmt"
	"html"
	"strings"
)

// Kind is the type of an emitted tag.
type Kind int

const (
	KindStyle Kind = iota
	KindScript
	KindScriptModule
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindScriptModule:
		return "script-module"
	}
	return "style"
}

// Position is where in the document a tag is placed.
type Position int

const (
	// Head places the tag before </head>.
	Head Position = iota
	// Footer places the tag before </body>.
	Footer
)

// Tag is one registered style or script.
type Tag struct {
	Handle   string
	Kind     Kind
	URL      string
	Position Position
	HTML     string
}

// Emitter receives the tags produced for a page.
type Emitter interface {
	Emit(Tag)
}

// Style returns a stylesheet link tag.
func Style(handle, url string) Tag {
	return Tag{
		Handle:   handle,
		Kind:     KindStyle,
		URL:      url,
		Position: Head,
		HTML: fmt.Sprintf(`<link rel="stylesheet" id="%s-css" href="%s">`,
			html.EscapeString(handle), html.EscapeString(url)),
	}
}

// ModuleScript returns a <script type="module"> tag.
func ModuleScript(handle, url string) Tag {
	return Tag{
		Handle:   handle,
		Kind:     KindScriptModule,
		URL:      url,
		Position: Footer,
		HTML: fmt.Sprintf(`<script type="module" src="%s" id="%s-js"></script>`,
			html.EscapeString(url), html.EscapeString(handle)),
	}
}

// ClassicScript returns a plain <script> tag.
func ClassicScript(handle, url string) Tag {
	return Tag{
		Handle:   handle,
		Kind:     KindScript,
		URL:      url,
		Position: Footer,
		HTML: fmt.Sprintf(`<script src="%s" id="%s-js"></script>`,
			html.EscapeString(url), html.EscapeString(handle)),
	}
}

// AddAttr inserts a boolean attribute into the opening <script tag of t.
// Tags that already carry the attribute, and non-script tags, are returned
// unchanged.
func AddAttr(t Tag, attr string) Tag {
	if t.Kind == KindStyle || !strings.HasPrefix(t.HTML, "<script ") {
		return t
	}
	open := t.HTML
	if i := strings.IndexByte(open, '>'); i >= 0 {
		open = open[:i]
	}
	for _, field := range strings.Fields(open) {
		if field == attr {
			return t
		}
	}
	t.HTML = strings.Replace(t.HTML, "<script ", "<script "+attr+" ", 1)
	return t
}

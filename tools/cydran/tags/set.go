package tags

import (
	"strings"
)

// Set collects the tags of one page in registration order. Like a host
// page-assembly queue, it keeps the first tag registered under a handle and
// ignores later ones.
type Set struct {
	tags    []Tag
	handles map[string]bool
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{handles: make(map[string]bool)}
}

// Emit registers t unless its handle is already taken.
func (s *Set) Emit(t Tag) {
	if s.handles == nil {
		s.handles = make(map[string]bool)
	}
	if s.handles[t.Handle] {
		return
	}
	s.handles[t.Handle] = true
	s.tags = append(s.tags, t)
}

// Tags returns the registered tags in order.
func (s *Set) Tags() []Tag {
	return append([]Tag(nil), s.tags...)
}

// Len returns the number of registered tags.
func (s *Set) Len() int {
	return len(s.tags)
}

// Head renders the head-positioned tags, one per line.
func (s *Set) Head() string {
	return s.render(Head)
}

// Footer renders the footer-positioned tags, one per line.
func (s *Set) Footer() string {
	return s.render(Footer)
}

func (s *Set) render(pos Position) string {
	var b strings.Builder
	for _, t := range s.tags {
		if t.Position != pos {
			continue
		}
		b.WriteString(t.HTML)
		b.WriteString("\n")
	}
	return b.String()
}

// Inject places the head tags before </head> and the footer tags before
// </body>. Documents without </head> get the head tags before <body, or at
// the start; documents without </body> get the footer tags at the end.
func (s *Set) Inject(document string) string {
	if head := s.Head(); head != "" {
		if idx := strings.Index(document, "</head>"); idx >= 0 {
			document = document[:idx] + head + document[idx:]
		} else if idx := strings.Index(document, "<body"); idx >= 0 {
			document = document[:idx] + head + document[idx:]
		} else {
			document = head + document
		}
	}

	if footer := s.Footer(); footer != "" {
		if idx := strings.LastIndex(document, "</body>"); idx >= 0 {
			document = document[:idx] + footer + document[idx:]
		} else {
			if document != "" && !strings.HasSuffix(document, "\n") {
				document += "\n"
			}
			document += footer
		}
	}

	return document
}

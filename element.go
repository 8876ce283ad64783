package svg

import (
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// element is one node of the parsed markup tree. The tree form (rather
// than pure streaming) is what makes forward references resolvable:
// gradient hrefs and use targets may point at elements that appear later
// in the document.
type element struct {
	name     string
	attrs    []xml.Attr
	children []*element
}

// attr returns the value of the named attribute. Namespace prefixes
// (xlink:href) are matched on the local name.
func (e *element) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// parseElementTree tokenizes the document into an element tree and
// returns the first svg element found. The decoder is non-strict and
// charset tolerant; a document without an svg element is a parse
// failure.
func parseElementTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	doc := &element{name: "#document"}
	stack := []*element{doc}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A syntax error after at least one complete element is
			// tolerated; garbage before any markup is not.
			if len(doc.children) > 0 && len(stack) == 1 {
				break
			}
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: t.Copy().Attr}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if root := doc.find("svg"); root != nil {
		return root, nil
	}
	return nil, fmt.Errorf("%w: no svg element", ErrParse)
}

// find returns the first element with the given name, depth first.
func (e *element) find(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

// findByID searches the subtree for an element with the given id.
func (e *element) findByID(id string) *element {
	if v, ok := e.attr("id"); ok && v == id {
		return e
	}
	for _, c := range e.children {
		if found := c.findByID(id); found != nil {
			return found
		}
	}
	return nil
}

package svgdoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	svgNamespace   = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"
)

// paintAttrs are stripped when building the silhouette used to measure geometry,
// so that unpainted markers still produce a path.
var paintAttrs = map[string]bool{
	"style":          true,
	"class":          true,
	"fill":           true,
	"fill-opacity":   true,
	"stroke":         true,
	"stroke-width":   true,
	"stroke-opacity": true,
	"opacity":        true,
	"display":        true,
	"visibility":     true,
}

// node is one element (or run of character data) of the parsed document.
type node struct {
	name     xml.Name
	attrs    []xml.Attr
	text     []byte
	children []*node
	parent   *node
}

func (n *node) isText() bool {
	return n.name.Local == ""
}

func (n *node) attr(local string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// parseTree reads the whole document into a node tree. Names keep their raw
// prefixes so the tree can be written back out byte-for-byte compatible.
func parseTree(r io.Reader) (*node, error) {
	decoder := xml.NewDecoder(r)
	decoder.Entity = xml.HTMLEntity

	var root, cur *node
	for {
		tok, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name, attrs: append([]xml.Attr(nil), t.Attr...), parent: cur}
			if cur == nil {
				if root != nil {
					return nil, errors.New("xml: multiple root elements")
				}
				root = n
			} else {
				cur.children = append(cur.children, n)
			}
			cur = n
		case xml.EndElement:
			if cur == nil {
				return nil, fmt.Errorf("xml: unexpected </%s>", qualified(t.Name))
			}
			// RawToken does not pair end tags with their start tags.
			if t.Name != cur.name {
				return nil, fmt.Errorf("xml: </%s> closes <%s>", qualified(t.Name), qualified(cur.name))
			}
			cur = cur.parent
		case xml.CharData:
			if cur != nil {
				cur.children = append(cur.children, &node{text: t.Copy(), parent: cur})
			}
		}
	}

	if root == nil {
		return nil, errors.New("xml: empty document")
	}
	if cur != nil {
		return nil, fmt.Errorf("xml: unclosed <%s>", qualified(cur.name))
	}
	return root, nil
}

// writeStart writes the opening tag of n as name, dropping id (and paint
// attributes when strip is set).
func writeStart(b *bytes.Buffer, name string, n *node, dropID, strip bool) {
	b.WriteByte('<')
	b.WriteString(name)
	for _, a := range n.attrs {
		if a.Name.Space == "" {
			if dropID && a.Name.Local == "id" {
				continue
			}
			if strip && paintAttrs[a.Name.Local] {
				continue
			}
		}
		b.WriteByte(' ')
		b.WriteString(qualified(a.Name))
		b.WriteString(`="`)
		_ = xml.EscapeText(b, []byte(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
}

// write serializes n and its subtree.
func (n *node) write(b *bytes.Buffer, strip bool) {
	if n.isText() {
		_ = xml.EscapeText(b, n.text)
		return
	}
	name := qualified(n.name)
	writeStart(b, name, n, false, strip)
	for _, c := range n.children {
		c.write(b, strip)
	}
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// standalone builds a self-contained SVG that renders only n: the document
// header, every defs block, n's ancestors as groups (keeping transforms), then n.
// With silhouette set, paint is stripped and a plain fill is forced.
func (d *Document) standalone(n *node, silhouette bool) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="%s" xmlns:xlink="%s"`, svgNamespace, xlinkNamespace)
	for _, a := range d.root.attrs {
		if a.Name.Space == "xmlns" && a.Name.Local != "xlink" {
			fmt.Fprintf(&b, ` xmlns:%s="`, a.Name.Local)
			_ = xml.EscapeText(&b, []byte(a.Value))
			b.WriteByte('"')
		}
	}
	fmt.Fprintf(&b, ` width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(d.size.Width), formatFloat(d.size.Height),
		formatFloat(d.viewBox.X), formatFloat(d.viewBox.Y),
		formatFloat(d.viewBox.Width), formatFloat(d.viewBox.Height))

	if n == d.root {
		if silhouette {
			b.WriteString(`<g fill="#000000">`)
		}
		for _, c := range n.children {
			c.write(&b, silhouette)
		}
		if silhouette {
			b.WriteString(`</g>`)
		}
		b.WriteString("</svg>")
		return b.Bytes()
	}

	for _, def := range d.defs {
		def.write(&b, false)
	}
	if silhouette {
		b.WriteString(`<g fill="#000000">`)
	}

	var chain []*node
	for p := n.parent; p != nil && p != d.root; p = p.parent {
		chain = append(chain, p)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		writeStart(&b, "g", chain[i], true, silhouette)
	}
	n.write(&b, silhouette)
	for range chain {
		b.WriteString("</g>")
	}

	if silhouette {
		b.WriteString(`</g>`)
	}
	b.WriteString("</svg>")
	return b.Bytes()
}

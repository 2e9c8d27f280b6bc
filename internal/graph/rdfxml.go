package graph

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/roach88/owlsym/internal/vocab"
)

const (
	rdfNS        = vocab.RDFNamespace
	xmlNS        = "http://www.w3.org/XML/1998/namespace"
	rdfXMLLitIRI = rdfNS + "XMLLiteral"
)

// syntaxAttrs are rdf: attributes that steer the grammar and never become
// property attributes.
var syntaxAttrs = map[string]bool{
	"about": true, "ID": true, "nodeID": true, "resource": true,
	"datatype": true, "parseType": true, "bagID": true,
	"aboutEach": true, "aboutEachPrefix": true,
}

// scope is the xml:base and xml:lang in effect for an element.
type scope struct {
	base string
	lang string
}

// rdfxmlDecoder turns an RDF/XML document into triples following the
// RDF 1.1 XML syntax grammar: typed and nested node elements, property
// attributes, rdf:li numbering and the Resource, Literal and Collection
// parse types.
type rdfxmlDecoder struct {
	src   []byte
	dec   *xml.Decoder
	emit  func(Triple) error
	blank int
	li    map[Node]int
}

func decodeRDFXML(g *Graph, r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d := &rdfxmlDecoder{
		src: src,
		dec: xml.NewDecoder(bytes.NewReader(src)),
		li:  make(map[Node]int),
		emit: func(t Triple) error {
			_, err := g.Add(t)
			return err
		},
	}
	return d.document()
}

func (d *rdfxmlDecoder) errorf(format string, args ...any) error {
	line, _ := d.dec.InputPos()
	return fmt.Errorf("rdfxml line %d: %s", line, fmt.Sprintf(format, args...))
}

// token is dec.Token inside an element, where the document may not end.
func (d *rdfxmlDecoder) token() (xml.Token, error) {
	tok, err := d.dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

// next returns the next start or end element, skipping character data
// that is only whitespace. Other character data is an error.
func (d *rdfxmlDecoder) next() (xml.Token, error) {
	for {
		tok, err := d.token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement, xml.EndElement:
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, d.errorf("unexpected text %q", strings.TrimSpace(string(t)))
			}
		}
	}
}

func (d *rdfxmlDecoder) document() error {
	root := scope{}
	for {
		tok, err := d.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sc := root.enter(start)
		if start.Name.Space == rdfNS && start.Name.Local == "RDF" {
			return d.nodeElements(sc)
		}
		if _, err := d.nodeElement(start, sc); err != nil {
			return err
		}
	}
}

// nodeElements reads node elements until the enclosing end element.
func (d *rdfxmlDecoder) nodeElements(sc scope) error {
	for {
		tok, err := d.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if _, err := d.nodeElement(t, sc.enter(t)); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// nodeElement reads one node element and its property elements and
// returns its subject.
func (d *rdfxmlDecoder) nodeElement(start xml.StartElement, sc scope) (Node, error) {
	subject, err := d.subjectOf(start, sc)
	if err != nil {
		return Node{}, err
	}
	if err := d.nodeBody(start, subject, sc); err != nil {
		return Node{}, err
	}
	return subject, nil
}

func (d *rdfxmlDecoder) subjectOf(start xml.StartElement, sc scope) (Node, error) {
	if start.Name.Space == rdfNS && start.Name.Local != "Description" && !isMemberName(start.Name.Local) {
		switch start.Name.Local {
		case "RDF", "ID", "about", "parseType", "resource", "nodeID", "datatype", "li":
			return Node{}, d.errorf("rdf:%s is not a node element", start.Name.Local)
		}
	}
	about, hasAbout := rdfAttr(start, "about")
	id, hasID := rdfAttr(start, "ID")
	nodeID, hasNodeID := rdfAttr(start, "nodeID")
	switch {
	case hasAbout:
		return IRI(resolve(sc.base, about)), nil
	case hasID:
		return IRI(resolve(sc.base, "#"+id)), nil
	case hasNodeID:
		return d.namedBlank(nodeID), nil
	default:
		return d.newBlank(), nil
	}
}

// nodeBody emits the type and property attribute triples of a node
// element, then reads its property elements.
func (d *rdfxmlDecoder) nodeBody(start xml.StartElement, subject Node, sc scope) error {
	if start.Name.Space != rdfNS || start.Name.Local != "Description" {
		if err := d.triple(subject, IRI(vocab.RDFType), IRI(start.Name.Space+start.Name.Local)); err != nil {
			return err
		}
	}
	if err := d.propertyAttrs(start, subject, sc); err != nil {
		return err
	}
	for {
		tok, err := d.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := d.propertyElement(t, subject, sc.enter(t)); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (d *rdfxmlDecoder) propertyAttrs(start xml.StartElement, subject Node, sc scope) error {
	for _, a := range start.Attr {
		if !isPropertyAttr(a.Name) {
			continue
		}
		pred := a.Name.Space + a.Name.Local
		obj := langLiteral(a.Value, sc.lang)
		if pred == vocab.RDFType {
			obj = IRI(resolve(sc.base, a.Value))
		}
		if err := d.triple(subject, IRI(pred), obj); err != nil {
			return err
		}
	}
	return nil
}

// propertyElement reads one property element of subject.
func (d *rdfxmlDecoder) propertyElement(start xml.StartElement, subject Node, sc scope) error {
	pred, err := d.predicateOf(start, subject)
	if err != nil {
		return err
	}
	reifyID, reify := rdfAttr(start, "ID")

	parseType, hasParseType := rdfAttr(start, "parseType")
	if hasParseType {
		var obj Node
		switch parseType {
		case "Resource":
			obj = d.newBlank()
			if err := d.triple(subject, pred, obj); err != nil {
				return err
			}
			if err := d.nodeBody(xml.StartElement{Name: xml.Name{Space: rdfNS, Local: "Description"}}, obj, sc); err != nil {
				return err
			}
		case "Collection":
			if obj, err = d.collection(sc); err != nil {
				return err
			}
			if err := d.triple(subject, pred, obj); err != nil {
				return err
			}
		default:
			lexical, err := d.rawContent()
			if err != nil {
				return err
			}
			obj = literalNode(lexical, rdfXMLLitIRI, "")
			if err := d.triple(subject, pred, obj); err != nil {
				return err
			}
		}
		return d.reify(reify, reifyID, sc, subject, pred, obj)
	}

	resource, hasResource := rdfAttr(start, "resource")
	nodeID, hasNodeID := rdfAttr(start, "nodeID")
	datatype, hasDatatype := rdfAttr(start, "datatype")

	// Content decides between a literal and a nested node element.
	var text strings.Builder
	for {
		tok, err := d.token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
			continue
		case xml.StartElement:
			if hasResource || hasNodeID || hasDatatype {
				return d.errorf("property element %s has both a reference and content", start.Name.Local)
			}
			if strings.TrimSpace(text.String()) != "" {
				return d.errorf("property element %s mixes text and a node element", start.Name.Local)
			}
			nested := sc.enter(t)
			obj, err := d.subjectOf(t, nested)
			if err != nil {
				return err
			}
			if err := d.triple(subject, pred, obj); err != nil {
				return err
			}
			if err := d.nodeBody(t, obj, nested); err != nil {
				return err
			}
			if err := d.reify(reify, reifyID, sc, subject, pred, obj); err != nil {
				return err
			}
			if tok, err := d.next(); err != nil {
				return err
			} else if _, ok := tok.(xml.EndElement); !ok {
				return d.errorf("property element %s has more than one node element", start.Name.Local)
			}
			return nil
		case xml.EndElement:
			var obj Node
			switch {
			case hasResource:
				obj = IRI(resolve(sc.base, resource))
			case hasNodeID:
				obj = d.namedBlank(nodeID)
			case text.Len() > 0 || !hasPropertyAttrs(start):
				if hasDatatype {
					obj = literalNode(text.String(), resolve(sc.base, datatype), "")
				} else {
					obj = langLiteral(text.String(), sc.lang)
				}
			default:
				obj = d.newBlank()
			}
			if err := d.triple(subject, pred, obj); err != nil {
				return err
			}
			if obj.IsResource() {
				if err := d.propertyAttrs(start, obj, sc); err != nil {
					return err
				}
			}
			return d.reify(reify, reifyID, sc, subject, pred, obj)
		}
	}
}

func (d *rdfxmlDecoder) predicateOf(start xml.StartElement, subject Node) (Node, error) {
	if start.Name.Space == rdfNS {
		switch start.Name.Local {
		case "li":
			d.li[subject]++
			return IRI(rdfNS + "_" + strconv.Itoa(d.li[subject])), nil
		case "Description", "RDF", "ID", "about", "parseType", "resource", "nodeID", "datatype":
			return Node{}, d.errorf("rdf:%s is not a property element", start.Name.Local)
		}
	}
	if start.Name.Space == "" {
		return Node{}, d.errorf("property element %s has no namespace", start.Name.Local)
	}
	return IRI(start.Name.Space + start.Name.Local), nil
}

// collection reads the node elements of a parseType="Collection" property
// and links them into an RDF list.
func (d *rdfxmlDecoder) collection(sc scope) (Node, error) {
	var items []Node
	for {
		tok, err := d.next()
		if err != nil {
			return Node{}, err
		}
		if _, ok := tok.(xml.EndElement); ok {
			break
		}
		start := tok.(xml.StartElement)
		item, err := d.nodeElement(start, sc.enter(start))
		if err != nil {
			return Node{}, err
		}
		items = append(items, item)
	}

	head := IRI(vocab.RDFNil)
	for i := len(items) - 1; i >= 0; i-- {
		cell := d.newBlank()
		if err := d.triple(cell, IRI(vocab.RDFFirst), items[i]); err != nil {
			return Node{}, err
		}
		if err := d.triple(cell, IRI(vocab.RDFRest), head); err != nil {
			return Node{}, err
		}
		head = cell
	}
	return head, nil
}

// rawContent returns the exact source text between the current start
// element and its matching end element.
func (d *rdfxmlDecoder) rawContent() (string, error) {
	from := d.dec.InputOffset()
	depth := 1
	for {
		to := d.dec.InputOffset()
		tok, err := d.token()
		if err != nil {
			return "", err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				return string(d.src[from:to]), nil
			}
		}
	}
}

// reify emits the statement triples for a property element carrying
// rdf:ID.
func (d *rdfxmlDecoder) reify(ok bool, id string, sc scope, s, p, o Node) error {
	if !ok {
		return nil
	}
	stmt := IRI(resolve(sc.base, "#"+id))
	for _, t := range []Triple{
		{stmt, IRI(vocab.RDFType), IRI(rdfNS + "Statement")},
		{stmt, IRI(rdfNS + "subject"), s},
		{stmt, IRI(rdfNS + "predicate"), p},
		{stmt, IRI(rdfNS + "object"), o},
	} {
		if err := d.emit(t); err != nil {
			return err
		}
	}
	return nil
}

func (d *rdfxmlDecoder) triple(s, p, o Node) error {
	return d.emit(Triple{Subject: s, Predicate: p, Object: o})
}

// Generated and document blank node labels live in separate namespaces.
func (d *rdfxmlDecoder) newBlank() Node {
	d.blank++
	return Blank("g" + strconv.Itoa(d.blank))
}

func (d *rdfxmlDecoder) namedBlank(id string) Node {
	return Blank("n" + id)
}

func (sc scope) enter(start xml.StartElement) scope {
	for _, a := range start.Attr {
		if a.Name.Space != xmlNS {
			continue
		}
		switch a.Name.Local {
		case "base":
			sc.base = resolve(sc.base, a.Value)
		case "lang":
			sc.lang = a.Value
		}
	}
	return sc
}

func rdfAttr(start xml.StartElement, local string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Space == rdfNS && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func isPropertyAttr(name xml.Name) bool {
	switch {
	case name.Space == xmlNS, name.Space == "xmlns", name.Space == "" && name.Local == "xmlns":
		return false
	case name.Space == "":
		return false
	case name.Space == rdfNS:
		return !syntaxAttrs[name.Local] && name.Local != "li"
	}
	return true
}

func hasPropertyAttrs(start xml.StartElement) bool {
	for _, a := range start.Attr {
		if isPropertyAttr(a.Name) {
			return true
		}
	}
	return false
}

func isMemberName(local string) bool {
	if !strings.HasPrefix(local, "_") {
		return false
	}
	_, err := strconv.Atoi(local[1:])
	return err == nil
}

func langLiteral(value, lang string) Node {
	return literalNode(value, "", lang)
}

// resolve resolves ref against base. An unparseable base or reference is
// returned unchanged.
func resolve(base, ref string) string {
	if base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

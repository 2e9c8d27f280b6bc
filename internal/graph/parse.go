package graph

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/knakk/rdf"

	"github.com/roach88/owlsym/internal/vocab"
)

// Format names an RDF serialization.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatRDFXML   Format = "rdfxml"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTurtle, FormatRDFXML, FormatNTriples, FormatNQuads}

// ErrUnsupportedFormat is returned for format names that have no decoder.
var ErrUnsupportedFormat = errors.New("unsupported rdf format")

// ParseFormat validates a format name. The empty string is accepted and
// means "detect from the input".
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return "", nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnsupportedFormat, name, Formats)
}

// ParseError reports a document that could not be decoded.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse %s (%s): %v", e.Path, e.Format, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DetectFormat picks a format from the file extension, sniffing the first
// bytes of the document when the extension is ambiguous (.owl is used for
// both RDF/XML and Turtle in the wild).
func DetectFormat(path string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl", ".turtle":
		return FormatTurtle
	case ".nt":
		return FormatNTriples
	case ".nq":
		return FormatNQuads
	case ".rdf", ".xml", ".owx":
		return FormatRDFXML
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n\ufeff")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<rdf:RDF")) {
		return FormatRDFXML
	}
	return FormatTurtle
}

// ParseFile reads and decodes the document at path. An empty format is
// detected with DetectFormat.
func ParseFile(path string, format Format) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if format == "" {
		head, _ := br.Peek(512)
		format = DetectFormat(path, head)
	}

	g, err := Decode(br, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return g, nil
}

// Decode reads a whole document in the given format into a new Graph.
// N-Quads graph labels are dropped: all quads land in one graph.
func Decode(r io.Reader, format Format) (*Graph, error) {
	g := New()
	var err error
	switch format {
	case FormatTurtle:
		err = decodeKnakk(g, r, rdf.Turtle)
	case FormatRDFXML:
		err = decodeRDFXML(g, r)
	case FormatNTriples, FormatNQuads:
		err = decodeNQuads(g, r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	return g, nil
}

func decodeKnakk(g *Graph, r io.Reader, f rdf.Format) error {
	dec := rdf.NewTripleDecoder(r, f)
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		t, err := tripleOf(fromKnakk(tr.Subj), fromKnakk(tr.Pred), fromKnakk(tr.Obj))
		if err != nil {
			return err
		}
		if _, err := g.Add(t); err != nil {
			return err
		}
	}
}

func decodeNQuads(g *Graph, r io.Reader) error {
	qr := nquads.NewReader(r, false)
	for {
		q, err := qr.ReadQuad()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		t, err := tripleOf(fromQuad(q.Subject), fromQuad(q.Predicate), fromQuad(q.Object))
		if err != nil {
			return err
		}
		if _, err := g.Add(t); err != nil {
			return err
		}
	}
}

// termResult carries a converted term or the reason it could not be.
type termResult struct {
	node Node
	err  error
}

func tripleOf(s, p, o termResult) (Triple, error) {
	for _, r := range []termResult{s, p, o} {
		if r.err != nil {
			return Triple{}, r.err
		}
	}
	return Triple{Subject: s.node, Predicate: p.node, Object: o.node}, nil
}

func fromKnakk(t any) termResult {
	switch v := t.(type) {
	case rdf.IRI:
		return termResult{node: IRI(v.String())}
	case rdf.Blank:
		return termResult{node: Blank(strings.TrimPrefix(v.String(), "_:"))}
	case rdf.Literal:
		return termResult{node: literalNode(v.String(), v.DataType.String(), v.Lang())}
	default:
		return termResult{err: fmt.Errorf("unsupported term %T", t)}
	}
}

func fromQuad(v quad.Value) termResult {
	switch v := v.(type) {
	case quad.IRI:
		return termResult{node: IRI(string(v))}
	case quad.BNode:
		return termResult{node: Blank(string(v))}
	case quad.String:
		return termResult{node: Literal(string(v))}
	case quad.LangString:
		return termResult{node: literalNode(string(v.Value), "", v.Lang)}
	case quad.TypedString:
		return termResult{node: literalNode(string(v.Value), string(v.Type), "")}
	case quad.TypedStringer:
		ts := v.TypedString()
		return termResult{node: literalNode(string(ts.Value), string(ts.Type), "")}
	default:
		return termResult{err: fmt.Errorf("unsupported quad value %T", v)}
	}
}

// literalNode normalizes the implicit datatypes (xsd:string for plain
// literals, rdf:langString for tagged ones) to an empty Datatype so the
// same literal compares equal regardless of which decoder produced it.
func literalNode(value, datatype, lang string) Node {
	if lang != "" || datatype == vocab.XSDString || datatype == vocab.RDFLangString {
		datatype = ""
	}
	return Node{Kind: KindLiteral, Value: value, Datatype: datatype, Lang: lang}
}

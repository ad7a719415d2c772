package caldav

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/mo"
)

// Status is a raw WebDAV status line, e.g. "HTTP/1.1 200 OK".
type Status struct {
	Raw string
}

// Code extracts the numeric status code from Raw. ok is false when Raw
// doesn't contain a parseable three-digit code.
func (s Status) Code() (code int, ok bool) {
	fields := strings.Fields(s.Raw)
	for _, f := range fields {
		if len(f) == 3 {
			if n, err := strconv.Atoi(f); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// IsSuccess reports whether Raw's status code falls in [200, 300). This
// parses the code numerically rather than substring-matching " 2", which a
// non-2xx line whose reason phrase contains " 2" (e.g. "HTTP/1.1 500 Error 2")
// would false-positive.
func (s Status) IsSuccess() bool {
	code, ok := s.Code()
	return ok && code >= 200 && code < 300
}

// HrefProp is a property whose value is a single nested href, such as
// current-user-principal or calendar-home-set; CurrentUserPrincipal and
// CalendarHomeSet decode into this.
type HrefProp struct {
	Href string
}

// URI resolves Href against base.
func (h HrefProp) URI(base *url.URL) (*url.URL, error) {
	ref, err := url.Parse(h.Href)
	if err != nil {
		return nil, fmt.Errorf("caldav: invalid href %q: %w", h.Href, err)
	}
	return base.ResolveReference(ref), nil
}

// Propstat is one <propstat> block: a decoded prop of type P, paired with
// the status that block reported for that prop set.
type Propstat[P any] struct {
	Prop   P
	Status Status
}

// PropstatResponse is one <response> element: an href plus zero or more
// propstat blocks (multiple when the server splits props across several
// statuses, e.g. 200 for props it has and 404 for props it doesn't).
type PropstatResponse[P any] struct {
	Href      string
	Status    mo.Option[Status]
	Propstats []Propstat[P]
	Error     mo.Option[string]
}

// Multistatus is a decoded <multistatus> document, generic over the
// per-response prop schema P so callers can decode exactly the properties a
// given workflow cares about (current-user-principal, calendar-home-set,
// displayname/resourcetype/color, calendar-data, ...).
type Multistatus[P any] struct {
	Responses []PropstatResponse[P]
	SyncToken mo.Option[string]
}

// MkcolResponse is a decoded extended-MKCOL response body: a single set of
// propstat blocks with no enclosing per-href response (RFC 5689 §5.1).
type MkcolResponse[P any] struct {
	Propstats []Propstat[P]
}

// decodeProp turns a <prop> element into P. A workflow state machine supplies
// one of these per response schema it needs.
type decodeProp[P any] func(*etree.Element) (P, error)

// localName strips any namespace prefix etree left on a tag, e.g.
// "D:response" -> "response". Servers are inconsistent about whether etree
// reports a Space or leaves the prefix baked into Tag, so every lookup in
// this file goes through this rather than comparing Tag directly.
func localName(tag string) string {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// childByLocalName returns the first child of elem whose tag, ignoring any
// namespace prefix, equals name. It does not check namespace URI: CalDAV and
// WebDAV servers are wildly inconsistent about which prefix (if any) they
// bind to DAV:/urn:ietf:params:xml:ns:caldav, so matching on local name alone
// is the pragmatic, and in practice universal, choice.
func childByLocalName(elem *etree.Element, name string) *etree.Element {
	for _, child := range elem.ChildElements() {
		if localName(child.Tag) == name {
			return child
		}
	}
	return nil
}

// childrenByLocalName returns every child of elem matching name by local tag
// name, preserving document order.
func childrenByLocalName(elem *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, child := range elem.ChildElements() {
		if localName(child.Tag) == name {
			out = append(out, child)
		}
	}
	return out
}

// DecodeMultistatus parses a <multistatus> response body, decoding each
// response's <prop> block with decode.
func DecodeMultistatus[P any](body []byte, decode decodeProp[P]) (Multistatus[P], error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return Multistatus[P]{}, fmt.Errorf("caldav: malformed multistatus xml: %w", err)
	}

	root := doc.Root()
	if root == nil || localName(root.Tag) != "multistatus" {
		return Multistatus[P]{}, fmt.Errorf("caldav: response root is not multistatus")
	}

	var ms Multistatus[P]
	for _, respElem := range childrenByLocalName(root, "response") {
		resp, err := decodePropstatResponse(respElem, decode)
		if err != nil {
			return Multistatus[P]{}, err
		}
		ms.Responses = append(ms.Responses, resp)
	}

	if tokenElem := childByLocalName(root, "sync-token"); tokenElem != nil {
		ms.SyncToken = mo.Some(tokenElem.Text())
	}

	return ms, nil
}

func decodePropstatResponse[P any](respElem *etree.Element, decode decodeProp[P]) (PropstatResponse[P], error) {
	var resp PropstatResponse[P]

	hrefElem := childByLocalName(respElem, "href")
	if hrefElem == nil {
		return resp, fmt.Errorf("caldav: response element missing href")
	}
	resp.Href = strings.TrimSpace(hrefElem.Text())

	if statusElem := childByLocalName(respElem, "status"); statusElem != nil {
		resp.Status = mo.Some(Status{Raw: strings.TrimSpace(statusElem.Text())})
	}

	if errorElem := childByLocalName(respElem, "error"); errorElem != nil {
		if len(errorElem.ChildElements()) > 0 {
			resp.Error = mo.Some(localName(errorElem.ChildElements()[0].Tag))
		}
	}

	for _, propstatElem := range childrenByLocalName(respElem, "propstat") {
		propElem := childByLocalName(propstatElem, "prop")
		if propElem == nil {
			continue
		}
		prop, err := decode(propElem)
		if err != nil {
			return resp, err
		}

		statusElem := childByLocalName(propstatElem, "status")
		var status Status
		if statusElem != nil {
			status = Status{Raw: strings.TrimSpace(statusElem.Text())}
		}

		resp.Propstats = append(resp.Propstats, Propstat[P]{Prop: prop, Status: status})
	}

	return resp, nil
}

// DecodeMkcolResponse parses an extended-MKCOL response body.
func DecodeMkcolResponse[P any](body []byte, decode decodeProp[P]) (MkcolResponse[P], error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return MkcolResponse[P]{}, fmt.Errorf("caldav: malformed mkcol-response xml: %w", err)
	}

	root := doc.Root()
	if root == nil || localName(root.Tag) != "mkcol-response" {
		return MkcolResponse[P]{}, fmt.Errorf("caldav: response root is not mkcol-response")
	}

	var mr MkcolResponse[P]
	for _, propstatElem := range childrenByLocalName(root, "propstat") {
		propElem := childByLocalName(propstatElem, "prop")
		if propElem == nil {
			continue
		}
		prop, err := decode(propElem)
		if err != nil {
			return mr, err
		}

		var status Status
		if statusElem := childByLocalName(propstatElem, "status"); statusElem != nil {
			status = Status{Raw: strings.TrimSpace(statusElem.Text())}
		}

		mr.Propstats = append(mr.Propstats, Propstat[P]{Prop: prop, Status: status})
	}

	return mr, nil
}

// ChildByLocalName returns the first child of elem whose tag, ignoring any
// namespace prefix, equals name. Exported for prop decoders in package
// coroutines.
func ChildByLocalName(elem *etree.Element, name string) *etree.Element {
	return childByLocalName(elem, name)
}

// HrefIn finds elem's child named containerName and returns that child's
// own href child's text, e.g. HrefIn(prop, "current-user-principal")
// extracts "/principals/alice/" from
// <current-user-principal><href>/principals/alice/</href></current-user-principal>.
func HrefIn(elem *etree.Element, containerName string) string {
	container := childByLocalName(elem, containerName)
	if container == nil {
		return ""
	}
	href := childByLocalName(container, "href")
	if href == nil {
		return ""
	}
	return strings.TrimSpace(href.Text())
}

// TextProp returns the trimmed text content of elem's child named name as an
// mo.Option, absent when the child itself is absent.
func TextProp(elem *etree.Element, name string) mo.Option[string] {
	return textProp(elem, name)
}

// textProp decodes a single named child element's text content as an
// optional string: absent when the element itself is absent, Some("") when
// present but empty. Callers that want spec.md's "blank normalizes to
// absent" behavior collapse Some("") themselves at the projection boundary.
func textProp(propElem *etree.Element, name string) mo.Option[string] {
	child := childByLocalName(propElem, name)
	if child == nil {
		return mo.None[string]()
	}
	return mo.Some(strings.TrimSpace(child.Text()))
}

package securepay

import (
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"
)

var successStatusCodes = []string{"0", "00", "000"}

// ActionResult is one Txn, PeriodicItem or TokenItem from a response. Fields
// keep document order; nested elements are keyed by their dotted path, for
// example "CreditCardInfo.pan".
type ActionResult struct {
	ID     string
	fields []resultField
}

type resultField struct {
	name, value string
}

// Get returns the value of a field and whether it was present.
func (a ActionResult) Get(name string) (string, bool) {
	for _, f := range a.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return "", false
}

// Fields returns the field names in document order.
func (a ActionResult) Fields() []string {
	names := make([]string, len(a.fields))
	for i, f := range a.fields {
		names[i] = f.name
	}
	return names
}

func (a ActionResult) ResponseCode() string {
	v, _ := a.Get("responseCode")
	return v
}

// Response is a parsed gateway reply. It is read-only.
type Response struct {
	cfg               *Config
	statusCode        string
	statusDescription string
	requestType       RequestType
	results           []ActionResult
	raw               []byte
}

// ParseResponse reads a SecurePayMessage reply. It fails only on malformed
// XML; a non-success status yields an empty result list.
func ParseResponse(cfg *Config, raw []byte) (*Response, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("securepay: parse response xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("securepay: parse response xml: no root element")
	}

	resp := &Response{
		cfg:               configOrDefault(cfg),
		statusCode:        elementText(findPath(root, "Status", "statusCode")),
		statusDescription: elementText(findPath(root, "Status", "statusDescription")),
		requestType:       RequestType(elementText(findChild(root, "RequestType"))),
		raw:               slices.Clone(raw),
	}
	if !resp.IsSuccessful() {
		return resp, nil
	}

	body, list, item, ok := resultListPath(resp.requestType)
	if !ok {
		return resp, nil
	}
	listEl := findPath(root, body, list)
	if listEl == nil {
		return resp, nil
	}
	for _, el := range listEl.ChildElements() {
		if localName(el.Tag) != item {
			continue
		}
		result := ActionResult{ID: el.SelectAttrValue("ID", "")}
		collectFields(&result, "", el)
		resp.results = append(resp.results, result)
	}
	return resp, nil
}

// resultListPath maps the RequestType echoed in a reply to its list of
// results. Echo replies carry none.
func resultListPath(rt RequestType) (body, list, item string, ok bool) {
	switch rt {
	case RequestTypePayment, RequestTypePeriodic, RequestTypeAddToken, RequestTypeLookupToken:
		body, list, item = actionListPath(rt)
		return body, list, item, true
	default:
		return "", "", "", false
	}
}

func collectFields(result *ActionResult, prefix string, el *etree.Element) {
	for _, c := range el.ChildElements() {
		name := prefix + localName(c.Tag)
		if len(c.ChildElements()) > 0 {
			collectFields(result, name+".", c)
			continue
		}
		result.fields = append(result.fields, resultField{name: name, value: elementText(c)})
	}
}

func elementText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

func localName(tag string) string {
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

func (r *Response) StatusCode() string {
	return r.statusCode
}

func (r *Response) StatusDescription() string {
	return r.statusDescription
}

// RequestType returns the RequestType echoed by the gateway.
func (r *Response) RequestType() RequestType {
	return r.requestType
}

// IsSuccessful reports whether the gateway accepted the message. Status codes
// "0", "00" and "000" are equivalent.
func (r *Response) IsSuccessful() bool {
	return slices.Contains(successStatusCodes, r.statusCode)
}

// Results returns a copy of the parsed action results.
func (r *Response) Results() []ActionResult {
	return slices.Clone(r.results)
}

// IsAllApproved reports whether there is at least one result and every result
// carries an approved response code.
func (r *Response) IsAllApproved() bool {
	if len(r.results) == 0 {
		return false
	}
	for _, res := range r.results {
		if !r.cfg.isApprovedCode(res.ResponseCode()) {
			return false
		}
	}
	return true
}

// IsFirstApproved reports whether the first result carries an approved
// response code.
func (r *Response) IsFirstApproved() bool {
	return len(r.results) > 0 && r.cfg.isApprovedCode(r.results[0].ResponseCode())
}

func (r *Response) first(name string) (string, bool) {
	if len(r.results) == 0 {
		return "", false
	}
	return r.results[0].Get(name)
}

func (r *Response) FirstResponseCode() (string, bool) { return r.first("responseCode") }
func (r *Response) FirstResponseText() (string, bool) { return r.first("responseText") }
func (r *Response) FirstTxnID() (string, bool)        { return r.first("txnID") }
func (r *Response) FirstPreauthID() (string, bool)    { return r.first("preauthID") }
func (r *Response) FirstClientID() (string, bool)     { return r.first("clientID") }
func (r *Response) FirstTokenValue() (string, bool)   { return r.first("tokenValue") }

// Raw returns a copy of the reply as received.
func (r *Response) Raw() []byte {
	return slices.Clone(r.raw)
}

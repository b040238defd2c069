package securepay

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Node is one named value in an outgoing message. A node with Children is
// written as a grouping element and its Value is ignored.
type Node struct {
	Name     string
	Value    string
	Children []Node
}

func leaf(name, value string) Node {
	return Node{Name: name, Value: value}
}

func group(name string, children ...Node) Node {
	return Node{Name: name, Children: children}
}

// IsGroup reports whether the node wraps child nodes.
func (n Node) IsGroup() bool {
	return len(n.Children) > 0
}

// Child returns the first direct child named name.
func (n Node) Child(name string) (Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return Node{}, false
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// appendNodes writes nodes under parent in order.
func appendNodes(parent *etree.Element, nodes []Node) {
	for _, n := range nodes {
		el := parent.CreateElement(n.Name)
		if n.IsGroup() {
			appendNodes(el, n.Children)
			continue
		}
		el.SetText(n.Value)
	}
}

// messageWriter assembles a SecurePayMessage document.
type messageWriter struct {
	cfg  *Config
	doc  *etree.Document
	root *etree.Element
}

func newMessageWriter(cfg *Config) *messageWriter {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", fmt.Sprintf(`version="%s" encoding="%s"`, cfg.XMLVersion, cfg.CharsetEncoding))
	return &messageWriter{
		cfg:  cfg,
		doc:  doc,
		root: doc.CreateElement("SecurePayMessage"),
	}
}

func (w *messageWriter) messageInfo(messageID, timestamp, apiVersion string, withTimeout bool) {
	mi := w.root.CreateElement("MessageInfo")
	mi.CreateElement("messageID").SetText(messageID)
	mi.CreateElement("messageTimestamp").SetText(timestamp)
	if withTimeout {
		mi.CreateElement("timeoutValue").SetText(fmt.Sprint(w.cfg.TimeoutValue))
	}
	mi.CreateElement("apiVersion").SetText(apiVersion)
}

func (w *messageWriter) merchantInfo(merchantID, password string) {
	mi := w.root.CreateElement("MerchantInfo")
	mi.CreateElement("merchantID").SetText(merchantID)
	mi.CreateElement("password").SetText(password)
}

func (w *messageWriter) requestType(rt RequestType) {
	w.root.CreateElement("RequestType").SetText(string(rt))
}

// actionList writes <Payment><TxnList count="1"><Txn ID="1">...</Txn></TxnList></Payment>
// or the periodic equivalent.
func (w *messageWriter) actionList(rt RequestType, nodes []Node) {
	bodyName, listName, itemName := actionListPath(rt)
	body := w.root.CreateElement(bodyName)
	list := body.CreateElement(listName)
	list.CreateAttr("count", "1")
	item := list.CreateElement(itemName)
	item.CreateAttr("ID", "1")
	appendNodes(item, nodes)
}

func (w *messageWriter) bytes() ([]byte, error) {
	if w.cfg.UseIndentation {
		w.doc.Indent(w.cfg.IndentSpaces)
	}
	out, err := w.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("securepay: serialize request xml: %w", err)
	}
	return out, nil
}

// actionListPath names the body, list and item elements that carry actions
// of the given request type.
func actionListPath(rt RequestType) (body, list, item string) {
	switch rt {
	case RequestTypePeriodic:
		return "Periodic", "PeriodicList", "PeriodicItem"
	case RequestTypeAddToken, RequestTypeLookupToken:
		return "Token", "TokenList", "TokenItem"
	default:
		return "Payment", "TxnList", "Txn"
	}
}

// findChild returns the first child of parent whose local name matches,
// ignoring any namespace prefix.
func findChild(parent *etree.Element, localName string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, c := range parent.ChildElements() {
		tag := c.Tag
		if tag == localName {
			return c
		}
		if idx := strings.LastIndex(tag, ":"); idx >= 0 {
			if tag[idx+1:] == localName {
				return c
			}
		}
	}
	return nil
}

// findPath walks findChild through each name in turn.
func findPath(parent *etree.Element, names ...string) *etree.Element {
	el := parent
	for _, name := range names {
		el = findChild(el, name)
		if el == nil {
			return nil
		}
	}
	return el
}

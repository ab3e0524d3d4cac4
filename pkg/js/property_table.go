package js

import (
	"sort"
	"sync"
)

// ObjectKind distinguishes host object types. Each kind has one PropertyTable
// per context.
type ObjectKind int

const (
	KindNode ObjectKind = iota
	KindElement
	KindTextNode
	KindBoundingClientRect
	KindBlob
)

func (k ObjectKind) String() string {
	switch k {
	case KindNode:
		return "Node"
	case KindElement:
		return "Element"
	case KindTextNode:
		return "Text"
	case KindBoundingClientRect:
		return "BoundingClientRect"
	case KindBlob:
		return "Blob"
	}
	return "unknown"
}

// PropertyTag selects the handler for a property name.
type PropertyTag int

const (
	tagNone PropertyTag = iota

	// Node / EventTarget
	tagTargetID
	tagNodeType
	tagNodeName
	tagChildNodes
	tagParentNode
	tagFirstChild
	tagLastChild
	tagPreviousSibling
	tagNextSibling
	tagIsConnected
	tagTextContent
	tagAppendChild
	tagRemoveChild
	tagInsertBefore
	tagRemove
	tagAddEventListener
	tagRemoveEventListener

	// Element
	tagStyle
	tagTagName
	tagOffsetLeft
	tagOffsetTop
	tagOffsetWidth
	tagOffsetHeight
	tagClientWidth
	tagClientHeight
	tagClientTop
	tagClientLeft
	tagScrollTop
	tagScrollLeft
	tagScrollHeight
	tagScrollWidth
	tagGetBoundingClientRect
	tagClick
	tagScroll
	tagScrollBy
	tagToBlob
	tagGetAttribute
	tagSetAttribute
	tagHasAttribute
	tagRemoveAttribute
	tagAttributes
	tagChildren

	// Text
	tagData
	tagNodeValue
	tagLength

	// BoundingClientRect
	tagX
	tagY
	tagWidth
	tagHeight
	tagTop
	tagRight
	tagBottom
	tagLeft

	// Blob
	tagSize
	tagType
	tagArrayBuffer
	tagText
	tagSlice
)

// metricTags maps metric data properties onto the native metric they read.
var metricTags = map[PropertyTag]Metric{
	tagOffsetLeft:   MetricOffsetLeft,
	tagOffsetTop:    MetricOffsetTop,
	tagOffsetWidth:  MetricOffsetWidth,
	tagOffsetHeight: MetricOffsetHeight,
	tagClientWidth:  MetricClientWidth,
	tagClientHeight: MetricClientHeight,
	tagClientTop:    MetricClientTop,
	tagClientLeft:   MetricClientLeft,
	tagScrollTop:    MetricScrollTop,
	tagScrollLeft:   MetricScrollLeft,
	tagScrollHeight: MetricScrollHeight,
	tagScrollWidth:  MetricScrollWidth,
}

// PropertyTable is the immutable name-to-tag map of one object kind.
type PropertyTable struct {
	kind  ObjectKind
	tags  map[string]PropertyTag
	names []string
}

// Resolve looks up the tag for a property name.
func (t *PropertyTable) Resolve(name string) (PropertyTag, bool) {
	tag, ok := t.tags[name]
	return tag, ok
}

// Names returns the property names in sorted order. Callers must not modify it.
func (t *PropertyTable) Names() []string { return t.names }

// Kind returns the object kind the table belongs to.
func (t *PropertyTable) Kind() ObjectKind { return t.kind }

func newPropertyTable(kind ObjectKind, tags map[string]PropertyTag) *PropertyTable {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return &PropertyTable{kind: kind, tags: tags, names: names}
}

func propertyMapFor(kind ObjectKind) map[string]PropertyTag {
	switch kind {
	case KindNode:
		return map[string]PropertyTag{
			"targetId":            tagTargetID,
			"nodeType":            tagNodeType,
			"nodeName":            tagNodeName,
			"childNodes":          tagChildNodes,
			"parentNode":          tagParentNode,
			"firstChild":          tagFirstChild,
			"lastChild":           tagLastChild,
			"previousSibling":     tagPreviousSibling,
			"nextSibling":         tagNextSibling,
			"isConnected":         tagIsConnected,
			"textContent":         tagTextContent,
			"appendChild":         tagAppendChild,
			"removeChild":         tagRemoveChild,
			"insertBefore":        tagInsertBefore,
			"remove":              tagRemove,
			"addEventListener":    tagAddEventListener,
			"removeEventListener": tagRemoveEventListener,
		}
	case KindElement:
		return map[string]PropertyTag{
			"style":                 tagStyle,
			"nodeName":              tagNodeName,
			"tagName":               tagTagName,
			"offsetLeft":            tagOffsetLeft,
			"offsetTop":             tagOffsetTop,
			"offsetWidth":           tagOffsetWidth,
			"offsetHeight":          tagOffsetHeight,
			"clientWidth":           tagClientWidth,
			"clientHeight":          tagClientHeight,
			"clientTop":             tagClientTop,
			"clientLeft":            tagClientLeft,
			"scrollTop":             tagScrollTop,
			"scrollLeft":            tagScrollLeft,
			"scrollHeight":          tagScrollHeight,
			"scrollWidth":           tagScrollWidth,
			"getBoundingClientRect": tagGetBoundingClientRect,
			"click":                 tagClick,
			"scroll":                tagScroll,
			"scrollBy":              tagScrollBy,
			"toBlob":                tagToBlob,
			"getAttribute":          tagGetAttribute,
			"setAttribute":          tagSetAttribute,
			"hasAttribute":          tagHasAttribute,
			"removeAttribute":       tagRemoveAttribute,
			"attributes":            tagAttributes,
			"children":              tagChildren,
		}
	case KindTextNode:
		return map[string]PropertyTag{
			"data":      tagData,
			"nodeValue": tagNodeValue,
			"length":    tagLength,
		}
	case KindBoundingClientRect:
		return map[string]PropertyTag{
			"x":      tagX,
			"y":      tagY,
			"width":  tagWidth,
			"height": tagHeight,
			"top":    tagTop,
			"right":  tagRight,
			"bottom": tagBottom,
			"left":   tagLeft,
		}
	case KindBlob:
		return map[string]PropertyTag{
			"size":        tagSize,
			"type":        tagType,
			"arrayBuffer": tagArrayBuffer,
			"text":        tagText,
			"slice":       tagSlice,
		}
	}
	return map[string]PropertyTag{}
}

type tableKey struct {
	ctx  ContextID
	kind ObjectKind
}

var propertyTables = struct {
	sync.Mutex
	m map[tableKey]*PropertyTable
}{m: make(map[tableKey]*PropertyTable)}

// propertyTableFor returns the table of a kind for a context, building it on
// first use.
func propertyTableFor(ctx ContextID, kind ObjectKind) *PropertyTable {
	key := tableKey{ctx: ctx, kind: kind}
	propertyTables.Lock()
	defer propertyTables.Unlock()
	if t, ok := propertyTables.m[key]; ok {
		return t
	}
	t := newPropertyTable(kind, propertyMapFor(kind))
	propertyTables.m[key] = t
	return t
}

// releasePropertyTables drops every table cached for a context.
func releasePropertyTables(ctx ContextID) {
	propertyTables.Lock()
	defer propertyTables.Unlock()
	for key := range propertyTables.m {
		if key.ctx == ctx {
			delete(propertyTables.m, key)
		}
	}
}

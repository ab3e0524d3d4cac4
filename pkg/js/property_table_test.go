package js

import (
	"errors"
	"sort"
	"sync"
	"testing"
)

func TestPropertyTableResolve(t *testing.T) {
	table := propertyTableFor(9001, KindElement)
	defer releasePropertyTables(9001)

	tests := []struct {
		name string
		tag  PropertyTag
		ok   bool
	}{
		{"getAttribute", tagGetAttribute, true},
		{"setAttribute", tagSetAttribute, true},
		{"offsetWidth", tagOffsetWidth, true},
		{"toBlob", tagToBlob, true},
		{"style", tagStyle, true},
		{"appendChild", tagNone, false},
		{"nope", tagNone, false},
	}
	for _, tt := range tests {
		tag, ok := table.Resolve(tt.name)
		if ok != tt.ok || tag != tt.tag {
			t.Errorf("Resolve(%q) = %v, %v; want %v, %v", tt.name, tag, ok, tt.tag, tt.ok)
		}
	}
	if table.Kind() != KindElement {
		t.Errorf("Kind() = %v", table.Kind())
	}
	if !sort.StringsAreSorted(table.Names()) {
		t.Error("Names() not sorted")
	}
}

func TestEveryMetricTagIsInTheElementTable(t *testing.T) {
	tags := propertyMapFor(KindElement)
	seen := make(map[PropertyTag]bool)
	for _, tag := range tags {
		seen[tag] = true
	}
	for tag, m := range metricTags {
		if !seen[tag] {
			t.Errorf("metric %v has no element property", m)
		}
	}
	if len(metricTags) != 12 {
		t.Errorf("metric tags: got %d, want 12", len(metricTags))
	}
}

func TestPropertyTableCachedPerContext(t *testing.T) {
	defer releasePropertyTables(9002)
	defer releasePropertyTables(9003)

	var wg sync.WaitGroup
	tables := make([]*PropertyTable, 16)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i] = propertyTableFor(9002, KindNode)
		}(i)
	}
	wg.Wait()
	for _, tbl := range tables {
		if tbl != tables[0] {
			t.Fatal("concurrent construction produced distinct tables")
		}
	}
	if propertyTableFor(9003, KindNode) == tables[0] {
		t.Error("contexts share a table")
	}
	releasePropertyTables(9002)
	if propertyTableFor(9002, KindNode) == tables[0] {
		t.Error("released table was reused")
	}
}

func TestCallbackRegistry(t *testing.T) {
	r := newCallbackRegistry()
	ctx := &Context{id: 77}
	noop := func(any) error { return nil }

	if _, err := r.Register(ctx, nil, noop); !IsKind(err, KindArgument) {
		t.Errorf("nil resolve: got %v", err)
	}
	if _, err := r.Register(ctx, noop, nil); !errors.Is(err, &BridgeError{Kind: KindArgument}) {
		t.Errorf("nil reject: got %v", err)
	}

	a, err := r.Register(ctx, noop, noop)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.Register(ctx, noop, noop)
	if a == b {
		t.Fatal("call ids collide")
	}
	pc, ok := r.Take(a)
	if !ok || pc.ContextID != 77 || pc.ID != a {
		t.Fatalf("Take(a) = %+v, %v", pc, ok)
	}
	if _, ok := r.Take(a); ok {
		t.Error("entry taken twice")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d", r.Len())
	}
	if n := r.clear(); n != 1 || r.Len() != 0 {
		t.Errorf("clear() = %d, Len() = %d", n, r.Len())
	}
}

func TestBridgeErrorMatching(t *testing.T) {
	cause := errors.New("disk full")
	err := nativeOperationError("toBlob", cause)
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	if !errors.Is(err, &BridgeError{Kind: KindNativeOperation, Op: "toBlob"}) {
		t.Error("kind/op match failed")
	}
	if errors.Is(err, &BridgeError{Kind: KindNativeOperation, Op: "click"}) {
		t.Error("op mismatch matched")
	}
	if err.Error() != "disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
	var be *BridgeError
	if !errors.As(error(nativeUnavailable("toBlob", "gone")), &be) || be.Kind != KindNativeUnavailable {
		t.Error("errors.As failed")
	}
}

package vango

import (
	"testing"

	"github.com/vango-dev/vango-lite/pkg/vdom"
)

func TestMemoCallsAtMostOncePerProps(t *testing.T) {
	obs := &recordingObserver{}
	s, root := newTestSession(t, WithObserver(obs))
	calls := 0
	label := Memo(vdom.Static("Label", func(p vdom.Props) any {
		calls++
		return vdom.El("span", p.String("text"))
	}))

	text := "a"
	tree := func() *vdom.VNode { return vdom.CreateElement(label, vdom.Props{"text": text}) }

	if err := s.Render(tree(), root, RootIdentity); err != nil {
		t.Fatal(err)
	}
	if err := s.Render(tree(), root, RootIdentity); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("calls = %d after identical props, want 1", calls)
	}
	if got := root.InnerHTML(); got != "<span>a</span>" {
		t.Errorf("HTML = %q, want <span>a</span>", got)
	}

	text = "b"
	if err := s.Render(tree(), root, RootIdentity); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("calls = %d after new props, want 2", calls)
	}

	snap := obs.snapshot()
	if snap.hits != 1 || snap.misses != 2 {
		t.Errorf("hits/misses = %d/%d, want 1/2", snap.hits, snap.misses)
	}
	if label.Len() != 2 {
		t.Errorf("Len() = %d, want 2", label.Len())
	}
}

func TestMemoKeepsLaterHooksAligned(t *testing.T) {
	s, root := newTestSession(t)
	inner := Memo(Func("Inner", func(c *Ctx, p vdom.Props) any {
		n, _ := UseState(c, 10)
		return vdom.Textf("%s=%d", p.String("label"), n)
	}))

	var ref *Ref[string]
	sibling := Func("Sibling", func(c *Ctx, _ vdom.Props) any {
		ref = UseRef(c, "sibling")
		return nil
	})

	tree := vdom.El("div",
		vdom.CreateElement(inner, vdom.Props{"label": "x"}),
		vdom.CreateElement(sibling, nil),
	)
	if err := s.Render(tree, root, RootIdentity); err != nil {
		t.Fatal(err)
	}
	first := ref
	if err := s.ReRender(); err != nil {
		t.Fatalf("ReRender() with memo hit error = %v", err)
	}
	if ref != first {
		t.Error("sibling ref changed after memo hit")
	}
	if got := root.InnerHTML(); got != "<div>x=10</div>" {
		t.Errorf("HTML = %q, want <div>x=10</div>", got)
	}
	if s.Store().Len(RootIdentity) != 2 {
		t.Errorf("Store().Len() = %d, want 2", s.Store().Len(RootIdentity))
	}
}

func TestMemoEvictsLeastRecentlyUsed(t *testing.T) {
	obs := &recordingObserver{}
	s, root := newTestSession(t, WithObserver(obs))
	calls := map[string]int{}
	label := Memo(vdom.Static("Label", func(p vdom.Props) any {
		calls[p.String("text")]++
		return p.String("text")
	}), WithCacheSize(2), WithMemoName("label"))

	for _, text := range []string{"a", "b", "c", "a"} {
		if err := s.Render(vdom.CreateElement(label, vdom.Props{"text": text}), root, RootIdentity); err != nil {
			t.Fatal(err)
		}
	}

	if calls["a"] != 2 {
		t.Errorf("calls[a] = %d, want 2 after eviction", calls["a"])
	}
	if label.Len() != 2 {
		t.Errorf("Len() = %d, want 2", label.Len())
	}
	if got := obs.snapshot().evictions; got != 2 {
		t.Errorf("evictions = %d, want 2", got)
	}
	if label.ComponentName() != "label" {
		t.Errorf("ComponentName() = %q, want label", label.ComponentName())
	}
}

func TestMemoUnboundedAndReset(t *testing.T) {
	s, root := newTestSession(t)
	label := Memo(vdom.Static("Label", func(p vdom.Props) any { return p.Int("n", 0) }), WithCacheSize(0))

	for i := 0; i < DefaultMemoCacheSize+10; i++ {
		if err := s.Render(vdom.CreateElement(label, vdom.Props{"n": i}), root, RootIdentity); err != nil {
			t.Fatal(err)
		}
	}
	if label.Len() != DefaultMemoCacheSize+10 {
		t.Errorf("Len() = %d, want %d", label.Len(), DefaultMemoCacheSize+10)
	}
	label.Reset()
	if label.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", label.Len())
	}
}

func TestMemoCacheIsPerSession(t *testing.T) {
	calls := 0
	label := Memo(vdom.Static("Label", func(vdom.Props) any { calls++; return "x" }))

	for i := 0; i < 2; i++ {
		s, root := newTestSession(t)
		if err := s.Render(vdom.CreateElement(label, nil), root, RootIdentity); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d across two sessions, want 2", calls)
	}
}

func TestPropsKey(t *testing.T) {
	fn := func() {}
	comp := vdom.Static("C", func(vdom.Props) any { return nil })

	same := [][2]vdom.Props{
		{{"a": 1, "b": "x"}, {"b": "x", "a": 1}},
		{{"m": map[string]int{"z": 1, "y": 2}}, {"m": map[string]int{"y": 2, "z": 1}}},
		{{"list": []int{1, 2}}, {"list": []int{1, 2}}},
		{{"node": vdom.El("p", "hi")}, {"node": vdom.El("p", "hi")}},
		{{"comp": comp}, {"comp": comp}},
		{{"fn": fn}, {"fn": fn}},
		{{"s": point{1, 2}}, {"s": point{1, 2}}},
		{nil, {}},
	}
	for i, pair := range same {
		if a, b := PropsKey(pair[0]), PropsKey(pair[1]); a != b {
			t.Errorf("case %d: keys differ: %s vs %s", i, a, b)
		}
	}

	different := [][2]vdom.Props{
		{{"a": 1}, {"a": 2}},
		{{"a": "1"}, {"a": 1}},
		{{"list": []int{1, 2}}, {"list": []int{2, 1}}},
		{{"node": vdom.El("p", "hi")}, {"node": vdom.El("p", "bye")}},
		{{"fn": func() {}}, {"fn": func() {}}},
		{{"comp": comp}, {"comp": vdom.Static("C", nil)}},
		{{"n": 1}, {"n": int64(1)}},
		{{"n": 1}, {"n": 1.0}},
		{{"n": int32(1)}, {"n": int64(1)}},
		{{"n": uint(1)}, {"n": 1}},
		{{"n": float32(2)}, {"n": 2.0}},
	}
	for i, pair := range different {
		if a, b := PropsKey(pair[0]), PropsKey(pair[1]); a == b {
			t.Errorf("case %d: keys equal: %s", i, a)
		}
	}
}

func TestPropsKeyNumbers(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1, `{"n":1}`},
		{1.0, `{"n":1.0}`},
		{2.5, `{"n":2.5}`},
		{int64(1), `{"n":int64(1)}`},
		{uint8(7), `{"n":uint8(7)}`},
	}
	for _, tt := range tests {
		if got := PropsKey(vdom.Props{"n": tt.in}); got != tt.want {
			t.Errorf("PropsKey(%T %v) = %s, want %s", tt.in, tt.in, got, tt.want)
		}
	}
}

func TestPropsKeyCycle(t *testing.T) {
	cycle := []any{nil}
	cycle[0] = cycle
	if key := PropsKey(vdom.Props{"c": cycle}); key == "" {
		t.Error("PropsKey() of cyclic value is empty")
	}
}

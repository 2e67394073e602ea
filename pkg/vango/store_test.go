package vango

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vango-lite/pkg/vdom"
)

func TestHookKindsAreRecorded(t *testing.T) {
	s, root := newTestSession(t)
	comp := Func("Kinds", func(c *Ctx, _ vdom.Props) any {
		UseState(c, 0)
		UseRef(c, "")
		UseEffect(c, func() Cleanup { return nil }, nil)
		return nil
	})
	if err := s.Render(vdom.CreateElement(comp, nil), root, RootIdentity); err != nil {
		t.Fatal(err)
	}

	want := []HookKind{HookState, HookRef, HookEffect}
	if diff := cmp.Diff(want, s.Store().Kinds(RootIdentity)); diff != "" {
		t.Errorf("Kinds() mismatch (-want +got):\n%s", diff)
	}
}

func TestHookOrderViolations(t *testing.T) {
	tests := []struct {
		name   string
		render func(c *Ctx, second bool)
	}{
		{
			name: "swapped kinds",
			render: func(c *Ctx, second bool) {
				if second {
					UseRef(c, 0)
					UseState(c, 0)
					return
				}
				UseState(c, 0)
				UseRef(c, 0)
			},
		},
		{
			name: "extra hook",
			render: func(c *Ctx, second bool) {
				UseState(c, 0)
				if second {
					UseEffect(c, func() Cleanup { return nil }, nil)
				}
			},
		},
		{
			name: "missing hook",
			render: func(c *Ctx, second bool) {
				UseState(c, 0)
				if !second {
					UseRef(c, 0)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			s, root := newTestSession(t, WithObserver(obs))
			second := false
			comp := Func("Conditional", func(c *Ctx, _ vdom.Props) any {
				tt.render(c, second)
				return nil
			})

			if err := s.Render(vdom.CreateElement(comp, nil), root, RootIdentity); err != nil {
				t.Fatalf("first Render() error = %v", err)
			}
			second = true
			err := s.ReRender()
			if !errors.Is(err, ErrHookOrderViolation) {
				t.Fatalf("ReRender() error = %v, want ErrHookOrderViolation", err)
			}
			if obs.snapshot().violations != 1 {
				t.Errorf("violations = %d, want 1", obs.snapshot().violations)
			}
		})
	}
}

func TestLenientHookOrderResetsSlot(t *testing.T) {
	obs := &recordingObserver{}
	s, root := newTestSession(t, WithStrictHookOrder(false), WithObserver(obs))
	second := false
	var got string
	comp := Func("Lenient", func(c *Ctx, _ vdom.Props) any {
		if second {
			r := UseRef(c, "fresh")
			got = r.Current()
			return nil
		}
		UseState(c, 1)
		return nil
	})

	if err := s.Render(vdom.CreateElement(comp, nil), root, RootIdentity); err != nil {
		t.Fatal(err)
	}
	second = true
	if err := s.ReRender(); err != nil {
		t.Fatalf("ReRender() error = %v, want nil in lenient mode", err)
	}
	if got != "fresh" {
		t.Errorf("ref after reset = %q, want fresh", got)
	}
	if obs.snapshot().violations != 1 {
		t.Errorf("violations = %d, want 1", obs.snapshot().violations)
	}
}

func TestHookTypeMismatch(t *testing.T) {
	s, root := newTestSession(t)
	second := false
	comp := Func("Mismatch", func(c *Ctx, _ vdom.Props) any {
		if second {
			UseState(c, "text")
		} else {
			UseState(c, 1)
		}
		return nil
	})
	if err := s.Render(vdom.CreateElement(comp, nil), root, RootIdentity); err != nil {
		t.Fatal(err)
	}
	second = true
	if err := s.ReRender(); !errors.Is(err, ErrHookTypeMismatch) {
		t.Errorf("ReRender() error = %v, want ErrHookTypeMismatch", err)
	}
}

func TestHookOutsidePass(t *testing.T) {
	s, root := newTestSession(t)
	var saved *Ctx
	comp := Func("Leak", func(c *Ctx, _ vdom.Props) any {
		saved = c
		return nil
	})
	if err := s.Render(vdom.CreateElement(comp, nil), root, RootIdentity); err != nil {
		t.Fatal(err)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNoRenderContext) {
			t.Errorf("recover() = %v, want ErrNoRenderContext", r)
		}
	}()
	UseState(saved, 0)
}

func TestStoreDrop(t *testing.T) {
	st := NewStore()
	st.list("a").records = append(st.list("a").records, &hookRecord{kind: HookState})
	st.list("b")

	st.Drop("a")
	if st.Len("a") != 0 {
		t.Errorf("Len(a) = %d after Drop, want 0", st.Len("a"))
	}
	if diff := cmp.Diff([]Identity{"b"}, st.Identities()); diff != "" {
		t.Errorf("Identities() mismatch (-want +got):\n%s", diff)
	}
}

func TestHookKindString(t *testing.T) {
	for kind, want := range map[HookKind]string{
		HookState:   "State",
		HookEffect:  "Effect",
		HookRef:     "Ref",
		HookKind(0): "Unknown",
	} {
		if got := kind.String(); got != want {
			t.Errorf("HookKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

package vtest

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/vango-lite/pkg/host/memtree"
	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

// Harness is a mounted tree under test.
type Harness struct {
	t       testing.TB
	Session *vango.Session
	Root    *memtree.Node
}

// Mount renders tree into a new session. Render errors fail the test.
func Mount(t testing.TB, tree *vdom.VNode, opts ...vango.Option) *Harness {
	t.Helper()
	h, err := mount(tree, opts...)
	if err != nil {
		t.Fatalf("vtest: render failed: %v", err)
	}
	h.t = t
	t.Cleanup(func() { h.Session.Close() })
	return h
}

func mount(tree *vdom.VNode, opts ...vango.Option) (*Harness, error) {
	doc := memtree.New()
	root, err := doc.Container("div")
	if err != nil {
		return nil, err
	}
	opts = append([]vango.Option{vango.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	s := vango.NewSession(doc, opts...)
	if err := s.Render(tree, root, vango.RootIdentity); err != nil {
		s.Close()
		return nil, err
	}
	return &Harness{Session: s, Root: root}, nil
}

// HTML returns the rendered markup.
func (h *Harness) HTML() string {
	return h.Root.InnerHTML()
}

// Dispatch runs the on<event> handler of the element with the given id.
func (h *Harness) Dispatch(id, event string) *Harness {
	h.t.Helper()
	node := h.Root.Find(id)
	if node == nil {
		h.t.Fatalf("vtest: no element with id %q in:\n%s", id, truncate(h.HTML(), 500))
	}
	if err := node.Dispatch(event); err != nil {
		h.t.Fatalf("vtest: dispatch %s on %q: %v", event, id, err)
	}
	return h
}

// Click dispatches a click on the element with the given id.
func (h *Harness) Click(id string) *Harness {
	h.t.Helper()
	return h.Dispatch(id, "click")
}

// ReRender runs another pass over the mounted tree.
func (h *Harness) ReRender() *Harness {
	h.t.Helper()
	if err := h.Session.ReRender(); err != nil {
		h.t.Fatalf("vtest: re-render failed: %v", err)
	}
	return h
}

// WaitFor polls until the markup contains expected, for asynchronous
// renders such as lazy loads.
func (h *Harness) WaitFor(expected string, timeout time.Duration) *Harness {
	h.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if strings.Contains(h.HTML(), expected) {
			return h
		}
		if time.Now().After(deadline) {
			h.t.Fatalf("vtest: timed out waiting for %q, got:\n%s", expected, truncate(h.HTML(), 500))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// ExpectContains asserts that the markup contains expected.
func (h *Harness) ExpectContains(expected string) *Harness {
	h.t.Helper()
	check(h.t, h.HTML(), expected, true, fmt.Sprintf("%q", expected))
	return h
}

// ExpectNotContains asserts that the markup does not contain unexpected.
func (h *Harness) ExpectNotContains(unexpected string) *Harness {
	h.t.Helper()
	check(h.t, h.HTML(), unexpected, false, fmt.Sprintf("%q", unexpected))
	return h
}

// ExpectHTML asserts that the markup equals expected.
func (h *Harness) ExpectHTML(expected string) *Harness {
	h.t.Helper()
	if html := h.HTML(); html != expected {
		h.t.Errorf("rendered output = %q, want %q", html, expected)
	}
	return h
}

// RenderToString renders node once in a throwaway session and returns the
// markup, or "" if the render failed.
func RenderToString(node *vdom.VNode) string {
	h, err := mount(node)
	if err != nil {
		return ""
	}
	defer h.Session.Close()
	return h.HTML()
}

// ExpectContains renders node and asserts that the output contains expected.
//
//	vtest.ExpectContains(t, vdom.CreateElement(Greeting, vdom.Props{"name": "Ada"}), "Hello Ada")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	check(t, RenderToString(node), expected, true, fmt.Sprintf("%q", expected))
}

// ExpectNotContains renders node and asserts that the output lacks unexpected.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	check(t, RenderToString(node), unexpected, false, fmt.Sprintf("%q", unexpected))
}

// ExpectElement renders node and asserts that a tag element is present.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	check(t, RenderToString(node), "<"+tag, true, "<"+tag+"> element")
}

// ExpectAttribute renders node and asserts that some element carries
// attr="value".
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	check(t, RenderToString(node), attr+`="`+value+`"`, true, fmt.Sprintf("attribute %s=%q", attr, value))
}

// check reports an error unless strings.Contains(html, needle) == want.
func check(t testing.TB, html, needle string, want bool, what string) {
	t.Helper()
	if strings.Contains(html, needle) == want {
		return
	}
	verb := "contain"
	if !want {
		verb = "not contain"
	}
	t.Errorf("expected rendered output to %s %s, got:\n%s", verb, what, truncate(html, 500))
}

// truncate cuts s to max bytes, marking the cut with "...".
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

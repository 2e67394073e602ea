package vtest_test

import (
	"testing"

	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
	"github.com/vango-dev/vango-lite/pkg/vtest"
)

var toggle = vango.Func("Toggle", func(c *vango.Ctx, _ vdom.Props) any {
	on, set := vango.UseState(c, false)
	label := "off"
	if on {
		label = "on"
	}
	return vdom.CreateElement("button", vdom.Props{
		"id":        "toggle",
		"className": "btn-primary",
		"onclick":   func() { set.Set(!on) },
	}, label)
})

func TestHarness(t *testing.T) {
	h := vtest.Mount(t, vdom.CreateElement(toggle, nil))
	h.ExpectContains(">off<").
		Click("toggle").
		ExpectContains(">on<").
		ExpectNotContains(">off<").
		Click("toggle").
		ExpectHTML(`<button class="btn-primary" id="toggle" data-on-click="true">off</button>`)

	if h.Session.Passes() != 3 {
		t.Errorf("Passes() = %d, want 3", h.Session.Passes())
	}
}

func TestHarnessReRender(t *testing.T) {
	label := "a"
	comp := vdom.Static("Label", func(vdom.Props) any { return label })
	h := vtest.Mount(t, vdom.El("p", vdom.CreateElement(comp, nil)))
	label = "b"
	h.ReRender().ExpectHTML("<p>b</p>")
}

func TestRenderAssertions(t *testing.T) {
	node := vdom.CreateElement(toggle, nil)
	vtest.ExpectContains(t, node, "off")
	vtest.ExpectNotContains(t, node, "on<")
	vtest.ExpectElement(t, node, "button")
	vtest.ExpectAttribute(t, node, "class", "btn-primary")
}

func TestRenderToStringFailure(t *testing.T) {
	if got := vtest.RenderToString(vdom.CreateElement(3.5, nil)); got != "" {
		t.Errorf("RenderToString() of invalid node = %q, want empty", got)
	}
}

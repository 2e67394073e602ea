package demo

import (
	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

func init() {
	register(Demo{
		Name:        "counter",
		Description: "UseState with increment, decrement and reset buttons",
		Build: func(Options) Tree {
			return Tree{Root: vdom.CreateElement(Counter, vdom.Props{"step": 1})}
		},
	})
}

// Counter renders a count and buttons that change it by the step prop.
var Counter = vango.Func("Counter", func(c *vango.Ctx, p vdom.Props) any {
	count, setCount := vango.UseState(c, 0)
	step := p.Int("step", 1)

	return vdom.CreateElement("div", vdom.Props{"className": "counter"},
		vdom.CreateElement("span", vdom.Props{"id": "count"}, vdom.Textf("Count: %d", count)),
		button("dec", "-", func() { setCount.Update(func(n int) int { return n - step }) }),
		button("inc", "+", func() { setCount.Update(func(n int) int { return n + step }) }),
		button("reset", "Reset", func() { setCount.Set(0) }),
	)
})

func button(id, label string, onClick func()) *vdom.VNode {
	return vdom.CreateElement("button", vdom.Props{"id": id, "onclick": onClick}, label)
}

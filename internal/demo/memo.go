package demo

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

func init() {
	register(Demo{
		Name:        "memo",
		Description: "Memoized rows recompute only when their props change",
		Build:       buildMemo,
	})
}

func buildMemo(opts Options) Tree {
	var computed atomic.Int64
	row := vango.Memo(vdom.Static("Row", func(p vdom.Props) any {
		computed.Add(1)
		return vdom.El("li", strings.ToUpper(p.String("label")))
	}), opts.Memo...)

	// Rendered after the rows, so the count includes this pass.
	stats := vdom.Static("MemoStats", func(vdom.Props) any {
		return vdom.CreateElement("p", vdom.Props{"id": "computed"}, vdom.Textf("Computed: %d", computed.Load()))
	})

	list := vango.Func("MemoList", func(c *vango.Ctx, _ vdom.Props) any {
		items, setItems := vango.UseState(c, []string{"alpha", "beta"})
		_, setTick := vango.UseState(c, 0)

		return vdom.CreateElement("div", vdom.Props{"className": "memo"},
			vdom.CreateElement("ul", nil, vdom.Range(items, func(item string, _ int) any {
				return vdom.CreateElement(row, vdom.Props{"label": item})
			})),
			vdom.CreateElement(stats, nil),
			button("add", "Add", func() {
				setItems.Update(func(prev []string) []string {
					return append(append([]string(nil), prev...), fmt.Sprintf("item%d", len(prev)))
				})
			}),
			button("tick", "Re-render", func() { setTick.Update(func(n int) int { return n + 1 }) }),
		)
	})
	return Tree{Root: vdom.CreateElement(list, nil)}
}

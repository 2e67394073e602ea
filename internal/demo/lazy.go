package demo

import (
	"context"
	"time"

	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

func init() {
	register(Demo{
		Name:        "lazy",
		Description: "Lazy component behind a Suspense boundary",
		Build:       buildLazy,
	})
}

// Chart is the component the lazy demo loads.
var Chart = vdom.Static("Chart", func(p vdom.Props) any {
	return vdom.CreateElement("figure", vdom.Props{"id": "chart"},
		vdom.El("figcaption", p.String("title")),
		vdom.El("svg"),
	)
})

func buildLazy(opts Options) Tree {
	delay := opts.LoadDelay
	lazyChart := vango.Lazy("Chart", func(ctx context.Context) (vdom.Component, error) {
		select {
		case <-time.After(delay):
			return Chart, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, opts.Lazy...)

	page := vango.Func("Dashboard", func(c *vango.Ctx, _ vdom.Props) any {
		_, setTick := vango.UseState(c, 0)
		return vdom.CreateElement("main", nil,
			vdom.El("h1", "Dashboard"),
			vango.SuspenseBoundary(
				vdom.CreateElement("p", vdom.Props{"className": "fallback"}, "Loading dashboard..."),
				vdom.CreateElement("section", nil,
					vdom.CreateElement(lazyChart, vdom.Props{"title": "Revenue"}),
				),
			),
			button("tick", "Re-render", func() { setTick.Update(func(n int) int { return n + 1 }) }),
		)
	})
	return Tree{Root: vdom.CreateElement(page, nil), Lazy: []*vango.LazyComponent{lazyChart}}
}

package demo

import (
	"fmt"

	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

func init() {
	register(Demo{
		Name:        "effects",
		Description: "UseEffect with dependencies and cleanup, UseRef render counter",
		Build: func(Options) Tree {
			return Tree{Root: vdom.CreateElement(Subscription, nil)}
		},
	})
}

// Subscription subscribes to a topic in an effect keyed by the topic.
// Switching topics runs the cleanup of the previous subscription first;
// re-rendering with the same topic does not resubscribe.
var Subscription = vango.Func("Subscription", func(c *vango.Ctx, _ vdom.Props) any {
	topic, setTopic := vango.UseState(c, 1)
	log, setLog := vango.UseState[[]string](c, nil)
	_, setTick := vango.UseState(c, 0)
	renders := vango.UseRef(c, 0)

	renders.Update(func(n int) int { return n + 1 })

	appendLog := func(entry string) {
		setLog.Update(func(prev []string) []string {
			return append(append([]string(nil), prev...), entry)
		})
	}
	vango.UseEffect(c, func() vango.Cleanup {
		appendLog(fmt.Sprintf("subscribe %d", topic))
		return func() { appendLog(fmt.Sprintf("unsubscribe %d", topic)) }
	}, vango.Deps(topic))

	return vdom.CreateElement("div", vdom.Props{"className": "effects"},
		vdom.CreateElement("p", vdom.Props{"id": "topic"}, vdom.Textf("Topic: %d", topic)),
		vdom.CreateElement("p", vdom.Props{"id": "renders"}, vdom.Textf("Renders: %d", renders.Current())),
		vdom.CreateElement("ul", vdom.Props{"id": "log"},
			vdom.Range(log, func(entry string, _ int) any {
				return vdom.El("li", entry)
			}),
		),
		button("next", "Next topic", func() { setTopic.Update(func(n int) int { return n + 1 }) }),
		button("tick", "Re-render", func() { setTick.Update(func(n int) int { return n + 1 }) }),
	)
})

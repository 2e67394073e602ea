package demo

import "github.com/vango-dev/vango-lite/pkg/vdom"

func init() {
	register(Demo{
		Name:        "hello",
		Description: "Static element tree, no hooks",
		Build: func(Options) Tree {
			return Tree{Root: vdom.CreateElement("div", vdom.Props{"className": "app-container"},
				vdom.CreateElement("h1", nil, "Hello from vango-lite!"),
				vdom.CreateElement("p", nil, "This tree was built with CreateElement."),
				vdom.CreateElement(Badge, vdom.Props{"label": "static"}),
			)}
		},
	})
}

// Badge is a hook-free component.
var Badge = vdom.Static("Badge", func(p vdom.Props) any {
	return vdom.CreateElement("span", vdom.Props{"className": "badge"}, p.String("label"))
})

// Package memtree is an in-memory host tree.
//
// It implements host.Document and host.Node, serializes to HTML and supports
// simulated interactions: Find locates an element by its "id" property and
// Dispatch calls the element's "on<event>" handler property.
//
//	doc := memtree.New()
//	root, _ := doc.Container("div")
//	// mount into root ...
//	fmt.Println(root.HTML())
//	_ = root.Find("inc").Dispatch("click")
//
// All nodes of a Document share one lock, so a tree can be read from one
// goroutine while a render pass rebuilds it on another. Readers may observe
// a tree that is partially rebuilt.
package memtree

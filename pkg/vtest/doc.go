// Package vtest provides testing helpers for vango-lite components.
//
// # Harness
//
// Mount renders a tree in a fresh session backed by an in-memory host tree
// and closes the session when the test ends:
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, vdom.CreateElement(Counter, nil))
//	    h.ExpectContains("Count: 0")
//	    h.Click("inc").ExpectContains("Count: 1")
//	}
//
// # Render Assertions
//
// Assert on the rendered HTML of a one-off render:
//
//	vtest.ExpectContains(t, node, "Welcome")
//	vtest.ExpectNotContains(t, node, "Login")
//	vtest.ExpectAttribute(t, node, "class", "btn-primary")
package vtest

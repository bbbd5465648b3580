package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vibrowser/internal/dom"
	"vibrowser/internal/htmlparser"
)

func TestSetTextByIDReplacesChildren(t *testing.T) {
	res := htmlparser.Parse(`<div id="a"><p>old</p></div>`)
	require.True(t, SetTextByID(res.Root, "a", "new"))
	el := QueryByID(res.Root, "a")
	require.Equal(t, "new", el.Children[0].Data)
}

func TestSetStyleByIDMergesDeclarations(t *testing.T) {
	res := htmlparser.Parse(`<div id="a" style="color: red;"></div>`)
	require.True(t, SetStyleByID(res.Root, "a", "font-size", "12px"))
	el := QueryByID(res.Root, "a")
	style, _ := el.Attr("style")
	require.Contains(t, style, "color: red")
	require.Contains(t, style, "font-size: 12px")

	require.True(t, SetStyleByID(res.Root, "a", "color", "blue"))
	el = QueryByID(res.Root, "a")
	style, _ = el.Attr("style")
	require.Contains(t, style, "color: blue")
	require.NotContains(t, style, "color: red")
}

func TestQuerySelectorAllFindsByClass(t *testing.T) {
	res := htmlparser.Parse(`<div><p class="warn">a</p><p class="warn">b</p><p>c</p></div>`)
	matches := QuerySelectorAll(res.Root, ".warn")
	require.Len(t, matches, 2)
}

func TestDispatchInvokesHandlersInOrderAndReportsNoHandler(t *testing.T) {
	res := htmlparser.Parse(`<button id="btn"></button>`)
	reg := NewRegistry()
	var calls []string
	reg.AddListener("btn", Click, func(root *dom.Node, ev Event) { calls = append(calls, "first") })
	reg.AddListener("btn", Click, func(root *dom.Node, ev Event) { calls = append(calls, "second") })

	result := reg.Dispatch(res.Root, Event{Type: Click, TargetID: "btn"})
	require.True(t, result.OK)
	require.Equal(t, []string{"first", "second"}, calls)

	miss := reg.Dispatch(res.Root, Event{Type: Input, TargetID: "btn"})
	require.False(t, miss.OK)
	require.Equal(t, "No handler for event", miss.Message)
}

package format_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/toolbridge/slack-mcp-server/pkg/service/format"
)

func TestStripEmpty(t *testing.T) {
	t.Run("removes empty values", func(t *testing.T) {
		in := map[string]any{
			"keep":    "value",
			"empty":   "",
			"nothing": nil,
			"list":    []any{},
			"nested":  map[string]any{"inner": ""},
		}

		out, ok := format.StripEmpty(in).(map[string]any)
		gt.Bool(t, ok).True()
		gt.Number(t, len(out)).Equal(1)
		gt.Value(t, out["keep"]).Equal("value")
	})

	t.Run("preserves false and zero", func(t *testing.T) {
		in := map[string]any{
			"flag":  false,
			"count": 0,
			"ratio": 0.0,
		}

		out, ok := format.StripEmpty(in).(map[string]any)
		gt.Bool(t, ok).True()
		gt.Value(t, out["flag"]).Equal(false)
		gt.Value(t, out["count"]).Equal(0)
		gt.Value(t, out["ratio"]).Equal(0.0)
	})

	t.Run("drops empty list elements", func(t *testing.T) {
		in := []any{"a", "", nil, map[string]any{}, "b"}

		out, ok := format.StripEmpty(in).([]any)
		gt.Bool(t, ok).True()
		gt.Array(t, out).Length(2)
		gt.Value(t, out[0]).Equal("a")
		gt.Value(t, out[1]).Equal("b")
	})

	t.Run("whole value strips to nil", func(t *testing.T) {
		gt.Value(t, format.StripEmpty(map[string]any{"a": "", "b": []any{}})).Nil()
		gt.Value(t, format.StripEmpty("")).Nil()
		gt.Value(t, format.StripEmpty(nil)).Nil()
	})

	t.Run("idempotent", func(t *testing.T) {
		in := map[string]any{"keep": "value", "empty": ""}
		once := format.StripEmpty(in)
		twice := format.StripEmpty(once)
		gt.Value(t, twice).Equal(once)
	})
}

func TestStripMessage(t *testing.T) {
	t.Run("restores empty text", func(t *testing.T) {
		msg := map[string]any{"id": "123.456", "text": ""}
		out := format.StripMessage(msg)
		gt.Value(t, out["text"]).Equal("")
		gt.Value(t, out["id"]).Equal("123.456")
	})

	t.Run("keeps non-empty text", func(t *testing.T) {
		msg := map[string]any{"id": "123.456", "text": "hello", "reactions": map[string]any{}}
		out := format.StripMessage(msg)
		gt.Value(t, out["text"]).Equal("hello")
		_, hasReactions := out["reactions"]
		gt.Bool(t, hasReactions).False()
	})

	t.Run("fully empty message keeps text only", func(t *testing.T) {
		out := format.StripMessage(map[string]any{"text": "", "user": ""})
		gt.Number(t, len(out)).Equal(1)
		gt.Value(t, out["text"]).Equal("")
	})
}

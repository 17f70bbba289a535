package schwab

import (
	"math"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("keys keep their order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("b", 1).Append("a", "hello").Append("Cost Basis", 2.5)
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"b":1,"a":"hello","Cost Basis":2.5}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("marshal error is kept", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", math.NaN()).Append("b", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() expected an error for NaN")
		}
	})
}

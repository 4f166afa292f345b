package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybridge/tallybridge/internal/tabular"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "YES uppercase", input: "Yes\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			got := Confirm(strings.NewReader(tt.input), &out, "Run full sync?")
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Run full sync?")
		})
	}
}

func TestConfirmTyped(t *testing.T) {
	var out strings.Builder
	ok := ConfirmTyped(strings.NewReader("Acme Ltd\n"), &out, "This deletes all synced data.", "Acme Ltd")
	assert.True(t, ok)

	ok = ConfirmTyped(strings.NewReader("acme\n"), &out, "This deletes all synced data.", "Acme Ltd")
	assert.False(t, ok, "a partial match must not confirm")
}

func TestRenderFrame(t *testing.T) {
	view, err := tabular.New([]tabular.ColumnSpec{
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "amount", Label: "Amount"},
	})
	require.NoError(t, err)

	t.Run("empty view renders the empty message", func(t *testing.T) {
		out := RenderFrame(view)
		assert.Contains(t, out, "No data found")
	})

	t.Run("rows and footer", func(t *testing.T) {
		view.SetRecords([]tabular.Record{
			{"name": "Cash", "amount": "1,500.00"},
			{"name": "Sales Account", "amount": "9,000.00"},
		})
		out := RenderFrame(view)
		assert.Contains(t, out, "Name")
		assert.Contains(t, out, "Cash")
		assert.Contains(t, out, "Sales Account")
		assert.Contains(t, out, "Showing 1 to 2 of 2 entries")
	})

	t.Run("sort indicator on the active column", func(t *testing.T) {
		view.Sort("name")
		out := RenderFrame(view)
		assert.Contains(t, out, "Name ↑")
		view.Sort("name")
		out = RenderFrame(view)
		assert.Contains(t, out, "Name ↓")
	})
}

func TestNotifier(t *testing.T) {
	var out strings.Builder
	n := NewNotifier(&out)
	n.Success("done")
	n.Error("broke")
	n.Warning("careful")
	n.Info("fyi")

	text := out.String()
	assert.Contains(t, text, "done")
	assert.Contains(t, text, "broke")
	assert.Contains(t, text, "careful")
	assert.Contains(t, text, "fyi")
	assert.Equal(t, 4, strings.Count(text, "\n"))
}

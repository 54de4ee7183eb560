package errors

import (
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnnotatedError(t *testing.T) {
	err := New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := NewSentinel("test error")
	require.NotErrorIs(t, err, NewSentinel("test error"))
	wrapped := Wrap(sentinel, "load draft", slog.String("draft_id", "abc"))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "load draft: test error", wrapped.Error())

	// Ensure log values are coming through.
	var annotated *AnnotatedError
	require.ErrorAs(t, err, &annotated)
	group := annotated.LogValue().Group()
	require.Contains(t, group, slog.String("id", "123"))

	// Assert there's a valid source
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	source := group[sourceIdx]
	require.Contains(t, source.Value.String(), "annotatederror_test.go")
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(nil, "nothing to wrap"))
	require.NoError(t, Mark(nil, NewSentinel("sentinel")))
}

func TestMark(t *testing.T) {
	sentinel := NewSentinel("persistence failed")
	cause := New("insert row")
	marked := Mark(cause, sentinel)
	require.ErrorIs(t, marked, sentinel)
	require.ErrorIs(t, marked, cause)
}

func TestSlogError(t *testing.T) {
	inner := New("upstream timeout", slog.String("provider", "openai"))
	outer := Wrap(inner, "predict sections", slog.Int("attempt", 1))

	attr := SlogError(outer)
	require.Equal(t, "error", attr.Key)
	group := attr.Value.Group()
	require.Contains(t, group, slog.String("message", "predict sections: upstream timeout"))
	require.Contains(t, group, slog.String("provider", "openai"))
	require.Contains(t, group, slog.Int("attempt", 1))
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewsPatch_IsEmpty(t *testing.T) {
	t.Parallel()

	title := "t"
	published := false

	require.True(t, NewsPatch{}.IsEmpty())
	require.False(t, NewsPatch{Title: &title}.IsEmpty())
	require.False(t, NewsPatch{Published: &published}.IsEmpty(), "false is still a value to write")
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "whole seconds",
			in:   time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC),
			want: "2024-03-05 07:08:09",
		},
		{
			name: "micros padded",
			in:   time.Date(2024, 3, 5, 7, 8, 9, 1500, time.UTC),
			want: "2024-03-05 07:08:09.000001",
		},
		{
			name: "full micros",
			in:   time.Date(2024, 12, 31, 23, 59, 59, 123456000, time.UTC),
			want: "2024-12-31 23:59:59.123456",
		},
		{
			name: "sub-micro dropped",
			in:   time.Date(2024, 1, 1, 0, 0, 0, 999, time.UTC),
			want: "2024-01-01 00:00:00",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, FormatTimestamp(tc.in))
		})
	}
}

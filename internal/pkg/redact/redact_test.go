package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecret_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty_stays_empty", in: "", want: ""},
		{name: "plain_secret", in: "dst_admin_2024", want: "[REDACTED_SECRET]"},
		{name: "whitespace_is_a_value", in: " ", want: "[REDACTED_SECRET]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Secret(tt.in))
		})
	}
}

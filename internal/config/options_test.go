package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptions_Retries(t *testing.T) {
	zero := 0
	five := 5
	negative := -2

	tests := []struct {
		name string
		opts *Options
		want int
	}{
		{name: "nil options", opts: nil, want: DefaultMaxRetries},
		{name: "unset", opts: &Options{}, want: DefaultMaxRetries},
		{name: "disabled", opts: &Options{MaxRetries: &zero}, want: 0},
		{name: "explicit", opts: &Options{MaxRetries: &five}, want: 5},
		{name: "negative clamps", opts: &Options{MaxRetries: &negative}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.opts.Retries())
		})
	}
}

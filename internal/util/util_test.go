package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		0:                  "0 B",
		1023:               "1023 B",
		1024:               "1.0 KB",
		1536:               "1.5 KB",
		5 << 20:            "5.0 MB",
		3 << 30:            "3.0 GB",
		1<<20 + 1<<20/2:    "1.5 MB",
	}

	for in, want := range cases {
		assert.Equal(t, want, FormatBytes(in), "FormatBytes(%d)", in)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "non positive", in: -time.Second, want: "0s"},
		{name: "fraction rounds up", in: 200 * time.Millisecond, want: "1s"},
		{name: "seconds", in: 45 * time.Second, want: "45s"},
		{name: "just under a minute rounds up", in: 59*time.Second + time.Millisecond, want: "1m0s"},
		{name: "minutes", in: 2*time.Minute + 30*time.Second, want: "2m30s"},
		{name: "hours drop seconds", in: 23*time.Hour + 59*time.Minute + 10*time.Second, want: "23h59m"},
		{name: "past a day", in: 26 * time.Hour, want: "26h0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestChecksum(t *testing.T) {
	t.Parallel()

	got, err := Checksum(strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got)
}

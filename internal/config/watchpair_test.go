package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbomb79/castmirror/internal/config"
)

func TestParseWatchPair(t *testing.T) {
	cases := []struct {
		raw      string
		wantSrc  string
		wantDst  string
		wantErr  bool
	}{
		{raw: "/src:/dst", wantSrc: "/src", wantDst: "/dst"},
		{raw: "/src,/dst", wantSrc: "/src", wantDst: "/dst"},
		{raw: "/src;/dst", wantSrc: "/src", wantDst: "/dst"},
		{raw: "/src=/dst", wantSrc: "/src", wantDst: "/dst"},
		{raw: "/src /dst", wantSrc: "/src", wantDst: "/dst"},
		{raw: "/src:/a:b/dst", wantSrc: "/src", wantDst: "/a:b/dst"},
		{raw: "noseparator", wantErr: true},
		{raw: ":/dst", wantErr: true},
		{raw: "/src:", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := config.ParseWatchPair(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, got.Src)
			assert.Equal(t, tc.wantDst, got.Dst)
		})
	}
}

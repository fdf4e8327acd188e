package ens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToChecksumAddressNormalizesCase(t *testing.T) {
	checksummed := "0x77a3b79a2De700AfcfC761fED837a67D7d8fAe1B"

	got, err := ToChecksumAddress(strings.ToLower(checksummed))
	require.NoError(t, err)
	require.Equal(t, checksummed, got)

	// Already-checksummed input passes through unchanged.
	again, err := ToChecksumAddress(checksummed)
	require.NoError(t, err)
	require.Equal(t, checksummed, again)
}

func TestToChecksumAddressRejectsGarbage(t *testing.T) {
	for _, bad := range []string{
		"",
		"athlete.eth",
		"0xnotanaddress",
		"0x77a3b79a2De700AfcfC761fED837a67D7d8fAe",   // too short
		"0x77a3b79a2De700AfcfC761fED837a67D7d8fAe1B1", // too long
	} {
		_, err := ToChecksumAddress(bad)
		require.Error(t, err, "input %q", bad)
	}
}

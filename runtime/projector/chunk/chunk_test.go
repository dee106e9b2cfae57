package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBase64ReassemblyByteForByte(t *testing.T) {
	payload := strings.Repeat("ab01", 1000) // 4000 chars
	parts := Base64(payload, 1500)

	require.Len(t, parts, 3)
	for i, p := range parts {
		require.Equal(t, i, p.ChunkIndex)
	}

	var rebuilt strings.Builder
	for _, p := range parts {
		rebuilt.WriteString(p.Data)
	}
	require.Equal(t, payload, rebuilt.String())
}

func TestBase64EmptyInputYieldsNoParts(t *testing.T) {
	require.Nil(t, Base64("", 1024))
}

func TestBase64ExactMultipleOfChunkSize(t *testing.T) {
	payload := strings.Repeat("x", 300)
	parts := Base64(payload, 100)
	require.Len(t, parts, 3)
	for _, p := range parts {
		require.Len(t, p.Data, 100)
	}
}

func TestBase64NonPositiveMaxFallsBackToDefault(t *testing.T) {
	payload := strings.Repeat("y", 10)
	parts := Base64(payload, 0)
	require.Len(t, parts, 1)
	require.Equal(t, payload, parts[0].Data)
}

package artifactstore

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint(" https://acct.r2.cloudflarestorage.com/bucket "))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestObjectKey(t *testing.T) {
	require.Equal(t, "presentations/presentation_a.html", ObjectKey("presentations", "presentation_a.html"))
	require.Equal(t, "presentation_a.pptx", ObjectKey("", "/out/presentation_a.pptx"))
}

func TestNewMinioMirrorTrimsPrefix(t *testing.T) {
	m, err := NewMinioMirror(Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "decks",
		Region:    "auto",
		Prefix:    "/presentations/",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.Equal(t, "presentations", m.prefix)
	require.Equal(t, "decks", m.bucket)
}

package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentTypeFor(t *testing.T) {
	require.Equal(t, "text/html; charset=utf-8", ContentTypeFor("presentation_x.HTML", "x"))
	require.Equal(t, PPTXContentType, ContentTypeFor("deck.pptx", "x"))
	require.Equal(t, "image/svg+xml", ContentTypeFor("assets/logo.svg", "x"))
	require.Equal(t, "application/octet-stream", ContentTypeFor("blob.bin", "application/octet-stream"))
	require.Equal(t, "fallback", ContentTypeFor("README", "fallback"))
}

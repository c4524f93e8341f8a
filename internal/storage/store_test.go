package storage

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	return New(t.TempDir(), "test-secret", ttl, "http://localhost:8080/")
}

func uploadFixture(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestSaveAndPath(t *testing.T) {
	store := newStore(t, time.Hour)

	key, err := store.Save("verification", uploadFixture(t, "id.png", "fake image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "verification/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	path, err := store.Path(key)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestPathRejectsTraversal(t *testing.T) {
	store := newStore(t, time.Hour)

	for _, key := range []string{
		"../etc/passwd",
		"verification/../../etc/passwd",
		"verification/..",
	} {
		_, err := store.Path(key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestSignedURLRoundTrip(t *testing.T) {
	store := newStore(t, time.Hour)
	key := "lease/doc.pdf"

	signed := store.SignedURL(key)
	assert.True(t, strings.HasPrefix(signed, "http://localhost:8080/api/files/"+key))

	parsed, err := url.Parse(signed)
	require.NoError(t, err)
	exp := parsed.Query().Get("exp")
	sig := parsed.Query().Get("sig")

	assert.NoError(t, store.Verify(key, exp, sig))

	t.Run("tampered key", func(t *testing.T) {
		assert.ErrorIs(t, store.Verify("lease/other.pdf", exp, sig), ErrSignatureInvalid)
	})

	t.Run("tampered signature", func(t *testing.T) {
		assert.ErrorIs(t, store.Verify(key, exp, "deadbeef"), ErrSignatureInvalid)
	})

	t.Run("tampered expiry", func(t *testing.T) {
		assert.ErrorIs(t, store.Verify(key, "9999999999", sig), ErrSignatureInvalid)
	})

	t.Run("garbage expiry", func(t *testing.T) {
		assert.ErrorIs(t, store.Verify(key, "soon", sig), ErrSignatureInvalid)
	})
}

func TestSignedURLExpires(t *testing.T) {
	store := newStore(t, -time.Minute)
	key := "lease/doc.pdf"

	signed := store.SignedURL(key)
	parsed, err := url.Parse(signed)
	require.NoError(t, err)

	err = store.Verify(key, parsed.Query().Get("exp"), parsed.Query().Get("sig"))
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

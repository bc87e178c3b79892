package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicBaseURL(t *testing.T) {
	u, err := publicBaseURL("http://storage.yandexcloud.net", "kinoteka-media")
	require.NoError(t, err)
	assert.Equal(t, "https://kinoteka-media.storage.yandexcloud.net", u.String())

	_, err = publicBaseURL("not a url", "bucket")
	assert.Error(t, err)
}

func TestClient_PublicKeyAndURL(t *testing.T) {
	base, err := publicBaseURL("https://storage.yandexcloud.net", "media")
	require.NoError(t, err)

	c := &Client{bucketName: "media", publicPrefix: normalizePrefix("/public"), publicBase: base}

	key := c.PublicKey("posters/abc.jpg")
	assert.Equal(t, "public/posters/abc.jpg", key)
	assert.Equal(t, "https://media.storage.yandexcloud.net/public/posters/abc.jpg", c.PublicURL(key))
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "", normalizePrefix(""))
	assert.Equal(t, "", normalizePrefix("/"))
	assert.Equal(t, "public/", normalizePrefix("public"))
	assert.Equal(t, "a/b/", normalizePrefix("/a/b/"))
}

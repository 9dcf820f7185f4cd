package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver("ortoclub")

	tests := []struct {
		name string
		host string
		want string
	}{
		{"subdomain", "demo.ortoclub.com", "demo"},
		{"bare apex", "ortoclub.com", "ortoclub"},
		{"reserved www", "www.example.com", "ortoclub"},
		{"reserved api", "api.example.com", "ortoclub"},
		{"localhost with port", "localhost:3000", "ortoclub"},
		{"subdomain localhost with port", "demo.localhost:3000", "demo"},
		{"subdomain localhost", "demo.localhost", "demo"},
		{"bare dot localhost", ".localhost", "ortoclub"},
		{"subdomain with port", "demo.ortoclub.com:8443", "demo"},
		{"forwarded host chain", "demo.ortoclub.com, proxy.internal", "demo"},
		{"forwarded chain with spaces", " clinic.ortoclub.com ,other.host", "clinic"},
		{"uppercase normalized", "DEMO.ortoclub.com", "demo"},
		{"invalid slug chars", "de_mo.ortoclub.com", "ortoclub"},
		{"leading hyphen", "-demo.ortoclub.com", "ortoclub"},
		{"trailing hyphen", "demo-.ortoclub.com", "ortoclub"},
		{"hyphenated slug", "sao-paulo.ortoclub.com", "sao-paulo"},
		{"first label of ccTLD host", "clinic.ortoclub.com.br", "clinic"},
		{"empty", "", "ortoclub"},
		{"deep localhost", "a.b.localhost", "ortoclub"},
		{"ipv6 loopback with port", "[::1]:3000", "ortoclub"},
		{"ipv6 loopback", "[::1]", "ortoclub"},
		{"non-numeric colon suffix kept", "demo.ortoclub.com:abc", "ortoclub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.host))
		})
	}
}

// Resolve must be idempotent: identical input always yields an identical
// slug, because the edge filter and the request handlers both call it and
// must agree.
func TestResolver_ResolveIsPure(t *testing.T) {
	r := NewResolver("ortoclub")

	hosts := []string{
		"demo.ortoclub.com",
		"www.example.com",
		"demo.localhost:3000",
		"a.ortoclub.com, b.proxy.net, c.proxy.net",
	}
	for _, h := range hosts {
		first := r.Resolve(h)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, r.Resolve(h))
		}
	}
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("demo"))
	assert.True(t, ValidSlug("sao-paulo-2"))
	assert.True(t, ValidSlug("a"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("-demo"))
	assert.False(t, ValidSlug("demo-"))
	assert.False(t, ValidSlug("Demo"))
	assert.False(t, ValidSlug("de.mo"))

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ValidSlug(string(long)))
	assert.True(t, ValidSlug(string(long[:50])))
}

func TestStripPort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"demo.ortoclub.com:8443", "demo.ortoclub.com"},
		{"demo.ortoclub.com", "demo.ortoclub.com"},
		{"[::1]:3000", "::1"},
		{"[::1]", "::1"},
		{"[fe80::1", "[fe80::1"},
		{"demo.ortoclub.com:abc", "demo.ortoclub.com:abc"},
		{"demo.ortoclub.com:", "demo.ortoclub.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripPort(tt.in), tt.in)
	}
}

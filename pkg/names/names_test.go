package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	cases := map[string]string{
		"/a/b/c": "/a/b/c",
		"/a//b/": "/a/b",
		"//":     "/",
		"/":      "/",
		"/a/":    "/a",
	}
	for in, want := range cases {
		assert.Equal(t, want, Canonicalize(in), "input %q", in)
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "/chatter", Resolve("/ns/node", "/chatter"))
	assert.Equal(t, "/ns/chatter", Resolve("/ns/node", "chatter"))
	assert.Equal(t, "/chatter", Resolve("/node", "chatter"))
}

func TestAncestors(t *testing.T) {
	assert.Equal(t, []string{"/ns/node", "/ns", "/"}, Ancestors("/ns/node"))
	assert.Equal(t, []string{"/node", "/"}, Ancestors("/node"))
}

func TestIsPrefix(t *testing.T) {
	assert.True(t, IsPrefix("/foo", "/foo/bar"))
	assert.True(t, IsPrefix("/foo", "/foo"))
	assert.False(t, IsPrefix("/foo", "/foobar"))
	assert.True(t, IsPrefix("/", "/a/b"))
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain text unchanged", in: "平凡的简介", want: "平凡的简介"},
		{name: "tags removed", in: "<i>Attack</i> on <b>Titan</b>", want: "Attack on Titan"},
		{name: "br becomes newline", in: "first<br>second<br/>third", want: "first\nsecond\nthird"},
		{name: "blank lines compressed", in: "a<br><br><br>b", want: "a\nb"},
		{name: "surrounding space trimmed", in: "  <i> hello </i>  ", want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel", Truncate("hello", 3))

	// 多字节字符按字符数截断，不能截出半个字符
	assert.Equal(t, "进击的", Truncate("进击的巨人", 3))
}

func TestSearchCache(t *testing.T) {
	t.Parallel()

	c := NewSearchCache[string](2, time.Minute)

	c.Set("a", "one")
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "one", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	// 超出容量时最久未用的被淘汰
	c.Set("b", "two")
	c.Set("c", "three")
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestSearchCacheExpiry(t *testing.T) {
	t.Parallel()

	c := NewSearchCache[int](10, 10*time.Millisecond)
	c.Set("k", 7)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 7, got)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

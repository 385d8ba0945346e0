package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/gerby-reader/internal/content"
)

func TestTextFlattensBlocks(t *testing.T) {
	got := Text(`<p>Let  $X$ be
a scheme.</p><ul><li>one</li><li>two</li></ul>`)
	assert.Equal(t, "Let $X$ be a scheme.\n\n- one\n- two", got)
}

func TestTextDropsScriptsButKeepsMath(t *testing.T) {
	got := Text(content.TrustedHTML(`<p>a<script>alert(1)</script><script type="math/tex">x^2</script>b</p><style>p{}</style>`))
	assert.Equal(t, "ax^2b", got)
}

func TestTextBreaks(t *testing.T) {
	assert.Equal(t, "a\nb", Text("a<br>b"))
	assert.Equal(t, "", Text(""))
}

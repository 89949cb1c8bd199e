package highlight_test

import (
	"strings"
	"testing"

	"memorize/internal/highlight"
)

const goSource = `package demo

// Greet says hello.
func Greet(name string) string {
	return "hello " + name
}
`

func TestHTMLGo(t *testing.T) {
	h := highlight.New(1)
	defer h.Close()

	start := strings.Index(goSource, "// Greet")
	end := strings.Index(goSource, "\n}") + 2
	out, err := h.HTML("/tmp/demo.go", []byte(goSource), start, end)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	for _, want := range []string{
		`<span class="comment">// Greet says hello.</span>`,
		`<span class="keyword">func</span>`,
		`<span class="function">Greet</span>`,
		`<span class="keyword">return</span>`,
		`<span class="string">&#34;hello &#34;</span>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "package") {
		t.Errorf("output leaks text outside the range:\n%s", out)
	}
}

func TestHTMLPartialToken(t *testing.T) {
	h := highlight.New(1)
	defer h.Close()

	start := strings.Index(goSource, "turn")
	out, err := h.HTML("demo.go", []byte(goSource), start, start+4)
	if err != nil {
		t.Fatal(err)
	}
	if out != `<span class="keyword">turn</span>` {
		t.Errorf("got %q", out)
	}
}

func TestHTMLPlain(t *testing.T) {
	h := highlight.New(1)
	defer h.Close()

	doc := []byte("a < b && c > d\nnext")
	out, err := h.HTML("notes.txt", doc, 0, 14)
	if err != nil {
		t.Fatal(err)
	}
	if out != "a &lt; b &amp;&amp; c &gt; d" {
		t.Errorf("got %q", out)
	}
}

func TestHTMLBadRange(t *testing.T) {
	h := highlight.New(1)
	defer h.Close()

	for _, r := range [][2]int{{-1, 2}, {3, 2}, {0, 100}} {
		if _, err := h.HTML("x.go", []byte("package x"), r[0], r[1]); err == nil {
			t.Errorf("expected an error for range %v", r)
		}
	}
}

func TestSupports(t *testing.T) {
	tests := map[string]bool{
		"/a/b.go":   true,
		"/a/B.GO":   true,
		"/a/b.py":   false,
		"":          false,
		"/a/go.mod": false,
	}
	for path, want := range tests {
		if got := highlight.Supports(path); got != want {
			t.Errorf("Supports(%q) = %v, want %v", path, got, want)
		}
	}
}

package transform

import "testing"

func TestMarkup(t *testing.T) {
	runCases(t, Options{}, []lowerCase{
		{`<div val="123">Hello</div>`, "h(\"div\",{ \"val\":\"123\"},`Hello`,)"},
		{`<a/>`, `h("a",null)`},
		{`<>x</>`, "h(Fragment,null,`x`,)"},
		{`<Foo.Bar {...p} on />`, `h(Foo.Bar,{ ...p, "on":true} )`},
		{`<a href={url}>go</a>`, "h(\"a\",{ \"href\":url},`go`,)"},
		{`<p>{x} {/* c */}</p>`, "h(\"p\",null,x,` `,\"\",)"},
		{"<ul>\n  <li>a</li>\n</ul>", "h(\"ul\",null,h(\"li\",null,`a`,),)"},
		{"<p>$`</p>", "h(\"p\",null,`\\$\\``,)"},
		{`<p>{...xs}</p>`, `h("p",null,...xs,)`},
		{`<my-el data-x="1" />`, `h("my-el",{ "data-x":"1"} )`},
	})
}

func TestMarkupCustomNames(t *testing.T) {
	got, _ := lower(t, `<><b/></>`, Options{Names: Names{Factory: "jsx", Fragment: "Frag"}})
	if want := `jsx(Frag,null,jsx("b",null),)`; got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

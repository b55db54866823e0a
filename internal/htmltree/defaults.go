package htmltree

// userAgentCSS approximates the browser defaults that matter to the audit:
// the canvas colors, heading sizes, hidden elements and the focus ring.
const userAgentCSS = `
html { color: #000000; background-color: #ffffff; font-size: 16px; font-weight: 400; }
h1 { font-size: 2em; font-weight: 700; }
h2 { font-size: 1.5em; font-weight: 700; }
h3 { font-size: 1.17em; font-weight: 700; }
h4 { font-size: 1em; font-weight: 700; }
h5 { font-size: 0.83em; font-weight: 700; }
h6 { font-size: 0.67em; font-weight: 700; }
b, strong, th { font-weight: 700; }
small { font-size: 0.83em; }
a[href] { color: #0000ee; }
button, input, select, textarea { color: #000000; font-size: 13.333px; }
button, input[type=submit], input[type=reset], input[type=button] { background-color: #efefef; }
input, select, textarea { background-color: #ffffff; }
[hidden], area, datalist, dialog:not([open]) { display: none; }
:focus { outline: auto 2px #101010; }
`

// inherited lists the properties passed from parent to child.
var inherited = []string{"color", "font-size", "font-weight", "visibility"}

// skippedTags are never part of the visual tree.
var skippedTags = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"template": true,
	"noscript": true,
	"meta":     true,
	"link":     true,
	"title":    true,
	"base":     true,
}

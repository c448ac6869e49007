package format

import (
	"strings"

	"github.com/gomarkdown/markdown"
)

const previewPageShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Context preview</title>
<style>
body { font-family: sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; }
blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 1rem; color: #444; }
</style>
</head>
<body>
%BODY%
</body>
</html>
`

// RenderPreviewHTML converts a markdown preview report into a standalone
// HTML page.
func RenderPreviewHTML(report string) []byte {
	body := markdown.ToHTML([]byte(report), nil, nil)
	page := strings.Replace(previewPageShell, "%BODY%", string(body), 1)
	return []byte(page)
}

package format

import "strings"

// Context block delimiters - must match what the assembly pipeline emits
const (
	blockOpenPrefix = `<context source="`
	blockOpenSuffix = `">`
	blockCloseTag   = `</context>`
)

// attributeUnescaper reverses the escaping applied to source attributes.
// Single-pass replacement, so "&amp;quot;" correctly becomes "&quot;".
var attributeUnescaper = strings.NewReplacer(
	"&quot;", `"`,
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// Block is one source-attributed segment of an assembled context bundle.
type Block struct {
	Source string
	Text   string
}

// ParseBlocks splits an assembled bundle back into its source blocks.
// Malformed trailing content, such as a block cut off mid-tag, is ignored.
func ParseBlocks(bundle string) []Block {
	var blocks []Block
	rest := bundle

	for {
		start := strings.Index(rest, blockOpenPrefix)
		if start == -1 {
			return blocks
		}
		rest = rest[start+len(blockOpenPrefix):]

		sourceEnd := strings.Index(rest, blockOpenSuffix)
		if sourceEnd == -1 {
			return blocks
		}
		source := rest[:sourceEnd]
		rest = rest[sourceEnd+len(blockOpenSuffix):]

		textEnd := strings.Index(rest, blockCloseTag)
		if textEnd == -1 {
			return blocks
		}
		blocks = append(blocks, Block{
			Source: attributeUnescaper.Replace(source),
			Text:   rest[:textEnd],
		})
		rest = rest[textEnd+len(blockCloseTag):]
	}
}

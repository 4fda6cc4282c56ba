package document

import "fmt"

// ImageToken builds the markdown image token spliced into content on
// asset insertion.
func ImageToken(altText, url string) string {
	return fmt.Sprintf("![%s](%s)", altText, url)
}

// InsertAt splices text into content at the given byte offset.
// Offsets outside [0, len(content)] fall back to the document end, which
// covers the "no cursor offset known" case.
func InsertAt(content, text string, offset int) string {
	if offset < 0 || offset > len(content) {
		offset = len(content)
	}
	return content[:offset] + text + content[offset:]
}

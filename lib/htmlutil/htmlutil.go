package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	// block-level boundaries would otherwise glue words together
	switch node.Data {
	case "br", "p", "div", "tr", "li":
		buffer.WriteString("\n")
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func RemoveNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || c == '\n' {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// TextLines flattens a parsed document into trimmed, non-empty text
// lines. The last-resort fixture scanner works off these lines when no
// selector matches anything.
func TextLines(node *html.Node) []string {
	text := RemoveNonPrintable(GetText(node))

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(line, " \t")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

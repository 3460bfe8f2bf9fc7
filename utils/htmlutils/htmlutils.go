// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package htmlutils provides utility functions for working with HTML.
package htmlutils

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Node2string appends the whitespace-normalized text under n to sb, one
// space between text nodes.
func Node2string(n *html.Node, sb *strings.Builder) (err error) {
	if n.Type == html.TextNode {
		tmp := strings.Join(strings.Fields(n.Data), " ")

		// a REPLACEMENT CHARACTER (U+FFFD) means the document was decoded
		// with the wrong charset
		if strings.ContainsRune(tmp, utf8.RuneError) {
			return fmt.Errorf("charset mismatch found: `%s'", tmp)
		}

		if len(tmp) > 0 {
			if sb.Len() != 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(tmp)
		}
	} else {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			err = Node2string(child, sb)
			if err != nil {
				break
			}
		}
	}

	return err
}

// Text returns the text under n, or "" when n is nil or the text is not valid.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}

	sb := strings.Builder{}
	if err := Node2string(n, &sb); err != nil {
		return ""
	}

	return sb.String()
}

// Validates that response seems to be an HTML response.
func hasHTMLContentType(media string) bool {
	const expectedMedia = "text/html"

	return strings.EqualFold(
		expectedMedia,
		media[0:min(len(media), len(expectedMedia))],
	)
}

// AsReader converts an HTTP response body to an io.Reader with the correct charset.
func AsReader(resp *http.Response) (io.Reader, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	media := resp.Header.Get("Content-Type")
	if !hasHTMLContentType(media) {
		return nil, fmt.Errorf("media type is %s", media)
	}

	rr, err := charset.NewReader(resp.Body, media)
	if err != nil {
		return nil, err
	}

	return rr, nil
}

// AsNode parses an io.Reader as an HTML node.
func AsNode(r io.Reader) (*html.Node, error) {
	n, err := html.Parse(r)
	if nil != err {
		return nil, fmt.Errorf("parsing body as HTML: %w", err)
	}

	return n, nil
}

// Attr returns the value of the attribute key of n.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}

	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

// FindByID returns the first element under n with the given id attribute.
func FindByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && Attr(n, "id") == id {
		return n
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := FindByID(child, id); found != nil {
			return found
		}
	}

	return nil
}

// FindAll returns, in document order, the elements under n with the given
// tag name.
func FindAll(n *html.Node, tag string) []*html.Node {
	if n == nil {
		return nil
	}

	var out []*html.Node

	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
			out = append(out, n)
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	return out
}

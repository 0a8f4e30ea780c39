package content

import (
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	errNoTranscriptLink  = errors.New("no transcript link found in HTML")
	errFailedToParseHTML = errors.New("failed to parse HTML for transcript link")
)

// FindTranscriptLink locates a transcript document link (VTT, SRT, TXT, PDF,
// JSON) in the HTML of a podcast episode page.
//
// Candidates are ranked by how much they look like a transcript link:
//  1. Anchor text mentions "transcript" and href has a transcript-document
//     extension
//  2. href has a transcript-document extension
//  3. Anchor text mentions "transcript"
//
// The best-matching href is returned, or an error if none are found. The
// caller resolves relative URLs against the page URL.
func FindTranscriptLink(html string) (string, error) {
	html = strings.TrimSpace(html)
	if html == "" {
		return "", errEmptyHTML
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", errors.Join(errFailedToParseHTML, err)
	}

	type candidate struct {
		href string
		text string
	}

	var (
		high []candidate // text mentions transcript AND href is document-like
		med  []candidate // href is document-like
		low  []candidate // text mentions transcript
	)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		text := strings.TrimSpace(sel.Text())
		docLike := isTranscriptDocumentHref(href)
		textLike := strings.Contains(strings.ToLower(text), "transcript")

		c := candidate{href: href, text: text}
		switch {
		case docLike && textLike:
			high = append(high, c)
		case docLike:
			med = append(med, c)
		case textLike:
			low = append(low, c)
		}
	})

	switch {
	case len(high) > 0:
		return high[0].href, nil
	case len(med) > 0:
		return med[0].href, nil
	case len(low) > 0:
		return low[0].href, nil
	default:
		return "", errNoTranscriptLink
	}
}

// isTranscriptDocumentHref returns true if the href looks like a transcript
// document worth fetching.
func isTranscriptDocumentHref(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		// If the URL can't be parsed, fall back to a simple suffix check
		return hasTranscriptExtension(href)
	}
	return hasTranscriptExtension(u.Path)
}

func hasTranscriptExtension(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".vtt", ".srt", ".txt", ".pdf", ".json":
		return true
	default:
		return false
	}
}

// ResolveAgainst resolves a possibly relative transcript href against the
// episode page URL.
func ResolveAgainst(baseURL, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errNoTranscriptLink
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}

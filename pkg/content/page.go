// Package content extracts transcript-relevant material from HTML episode
// pages: the main readable text and links to transcript documents.
package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

var errEmptyHTML = errors.New("empty HTML content")

// ExtractMainText reduces a full HTML episode page to its main readable text.
// Readability does the heavy lifting; if it finds nothing, the whole body
// text is the fallback. Used by the RSS strategy when a feed points its
// transcript tag at an HTML page instead of a transcript file.
func ExtractMainText(htmlContent string) (string, error) {
	htmlContent = strings.TrimSpace(htmlContent)
	if htmlContent == "" {
		return "", errEmptyHTML
	}

	article, err := readability.FromReader(strings.NewReader(htmlContent), nil)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return normalizeWhitespace(text), nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	if text := strings.TrimSpace(doc.Find("body").First().Text()); text != "" {
		return normalizeWhitespace(text), nil
	}

	return "", errors.New("no readable text found")
}

// ExtractTitle pulls the episode title out of an HTML page, trying
// readability first and falling back to <title>, <h1>, then og:title.
func ExtractTitle(htmlContent string) (string, error) {
	htmlContent = strings.TrimSpace(htmlContent)
	if htmlContent == "" {
		return "", errEmptyHTML
	}

	article, err := readability.FromReader(strings.NewReader(htmlContent), nil)
	if err == nil {
		if title := strings.TrimSpace(article.Title); title != "" {
			return title, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title, nil
	}
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title, nil
	}
	if title, exists := doc.Find("meta[property='og:title']").Attr("content"); exists && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title), nil
	}

	return "", errors.New("title not found")
}

// normalizeWhitespace collapses runs of whitespace into single spaces for a
// compact string.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

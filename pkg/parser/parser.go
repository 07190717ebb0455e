package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/money-is-time/models"
	"github.com/go-shiori/go-readability"
)

type Parser struct{}

// Page extracts page metadata: title, site name and excerpt from
// go-readability, the declared language from the root element and the
// readable text used for language detection. rawURL may be empty for local
// files.
func (p *Parser) Page(rawURL string, html []byte) (models.Page, error) {
	page := models.Page{URL: rawURL}

	parsedURL := &url.URL{}
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return page, fmt.Errorf("failed to parse URL: %w", err)
		}
		parsedURL = u
		page.Domain = strings.ToLower(u.Hostname())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return page, fmt.Errorf("failed to parse HTML: %w", err)
	}
	page.Language = strings.TrimSpace(doc.Find("html").AttrOr("lang", ""))
	page.Title = normalizeText(doc.Find("title").First().Text())

	rp := readability.NewParser()
	article, err := rp.Parse(bytes.NewReader(html), parsedURL)
	if err != nil {
		// pages without a readable article still get annotated
		page.Text = normalizeText(doc.Find("body").Text())
		return page, nil
	}

	if title := normalizeText(article.Title); title != "" {
		page.Title = title
	}
	page.SiteName = normalizeText(article.SiteName)
	page.Excerpt = normalizeText(article.Excerpt)
	page.Text = normalizeText(article.TextContent)
	if page.Text == "" {
		page.Text = normalizeText(doc.Find("body").Text())
	}

	return page, nil
}

// normalizeText collapses whitespace runs and drops empty lines.
func normalizeText(s string) string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(s))
	scanner.Buffer(make([]byte, 0, 64*1024), len(s)+1)
	for scanner.Scan() {
		if line := strings.Join(strings.Fields(scanner.Text()), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

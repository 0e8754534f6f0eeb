package types

import (
	"bytes"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is the raw markup of one fetched URL.
type Page struct {
	// URL is the address that was requested.
	URL string

	// FinalURL is the URL after any redirects.
	FinalURL string

	// StatusCode is the HTTP status code. Soft-block pages below the
	// fetcher's ceiling are returned as pages, not errors.
	StatusCode int

	// Headers are the response HTTP headers.
	Headers http.Header

	// ContentType is the MIME type of the response.
	ContentType string

	// Body is the decoded response body.
	Body []byte

	// Attempts is how many requests were needed to get a usable body.
	Attempts int

	// FetchDuration is how long the final attempt took.
	FetchDuration time.Duration

	// FetchedAt is when this page was received.
	FetchedAt time.Time

	doc *goquery.Document
}

// Document returns a parsed goquery document, lazily initializing it.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, &ParseError{URL: p.URL, Err: err}
	}
	p.doc = doc
	return doc, nil
}

// IsSuccess returns true if the response status is 2xx.
func (p *Page) IsSuccess() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

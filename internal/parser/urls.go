package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imageAttrs are checked in order for an image's source, covering lazy loaders.
var imageAttrs = []string{"src", "data-src", "data-lazy-src"}

// Absolutize resolves raw against base. Protocol-relative URLs become https.
// It reports false when raw is empty or resolves to a non-http(s) URL
// (mailto:, javascript:, data:), returning raw unchanged.
func Absolutize(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw, true
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw, false
	}
	if !u.IsAbs() {
		if base == nil {
			return raw, false
		}
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return raw, false
	}
	return u.String(), true
}

// ImageSource returns the first absolutizable source of an <img>.
func ImageSource(img *goquery.Selection, base *url.URL) string {
	for _, attr := range imageAttrs {
		v, ok := img.Attr(attr)
		if !ok {
			continue
		}
		if abs, ok := Absolutize(base, v); ok {
			return abs
		}
	}
	return ""
}

// RewriteLinks makes every img src and a href under root absolute.
// Lazy-loaded images get their real source promoted into src.
func RewriteLinks(root *goquery.Selection, base *url.URL) {
	root.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src := ImageSource(img, base); src != "" {
			img.SetAttr("src", src)
		}
	})
	root.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if abs, ok := Absolutize(base, href); ok {
			a.SetAttr("href", abs)
		}
	})
}

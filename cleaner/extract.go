package cleaner

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/distill/models"
)

// ExtractLinks parses the raw HTML and separates links into internal and
// external based on whether their host matches the source URL's host.
// Without a source URL, relative hrefs stay unresolved and count as
// internal since they can only point within the originating site.
func ExtractLinks(rawHTML string, sourceURL string) models.LinksResult {
	result := models.LinksResult{
		Internal: []models.Link{},
		External: []models.Link{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return result
	}

	base := parseBase(sourceURL)

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}

		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			parsed = base.ResolveReference(parsed)
		}

		// Keep http(s) targets and path-bearing relative hrefs; drop
		// javascript:, mailto:, tel: and bare fragments.
		switch parsed.Scheme {
		case "http", "https":
		case "":
			if parsed.Path == "" {
				return
			}
		default:
			return
		}

		absURL := parsed.String()
		if _, ok := seen[absURL]; ok {
			return
		}
		seen[absURL] = struct{}{}

		link := models.Link{Href: absURL, Text: strings.TrimSpace(s.Text())}

		if parsed.Host == "" || (base != nil && strings.EqualFold(parsed.Host, base.Host)) {
			result.Internal = append(result.Internal, link)
		} else {
			result.External = append(result.External, link)
		}
	})

	return result
}

// ExtractImages parses the raw HTML and returns image elements, with src
// resolved against the source URL when one is available. Data URIs are
// skipped.
func ExtractImages(rawHTML string, sourceURL string) []models.Image {
	images := []models.Image{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return images
	}

	base := parseBase(sourceURL)

	seen := make(map[string]struct{})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}

		parsed, err := url.Parse(src)
		if err != nil {
			return
		}
		if base != nil {
			parsed = base.ResolveReference(parsed)
		}

		absURL := parsed.String()
		if _, ok := seen[absURL]; ok {
			return
		}
		seen[absURL] = struct{}{}

		images = append(images, models.Image{
			Src: absURL,
			Alt: strings.TrimSpace(s.AttrOr("alt", "")),
		})
	})

	return images
}

// parseBase returns the parsed source URL, or nil when it is empty or
// unparseable so callers fall back to leaving references unresolved.
func parseBase(sourceURL string) *url.URL {
	if sourceURL == "" {
		return nil
	}
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil
	}
	return base
}

// ExtractOGMetadata parses Open Graph meta tags from the raw HTML.
func ExtractOGMetadata(rawHTML string) models.OGMetadata {
	og := models.OGMetadata{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return og
	}

	doc.Find("meta[property]").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if content == "" {
			return
		}
		switch prop {
		case "og:title":
			og.Title = content
		case "og:description":
			og.Description = content
		case "og:image":
			og.Image = content
		case "og:url":
			og.URL = content
		case "og:site_name":
			og.SiteName = content
		case "og:type":
			og.Type = content
		}
	})

	return og
}

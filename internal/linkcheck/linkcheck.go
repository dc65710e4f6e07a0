// Package linkcheck verifies that relative links inside a generated site
// resolve to files that were actually written.
package linkcheck

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// BrokenLink is one unresolvable relative reference.
type BrokenLink struct {
	Page string // generated page containing the link, relative to the site root
	Href string // the href value as written
}

// BrokenLinks aggregates findings for reporting.
type BrokenLinks []BrokenLink

// Err summarizes the findings as a single error, or nil when empty.
func (b BrokenLinks) Err() error {
	if len(b) == 0 {
		return nil
	}
	return fmt.Errorf("%d broken internal link(s), first: %s -> %s", len(b), b[0].Page, b[0].Href)
}

// VerifyDir parses every .html file under siteDir and checks that each
// relative href resolves to an existing file in the tree. Absolute URLs,
// anchors, and mailto links are ignored.
func VerifyDir(siteDir string) (BrokenLinks, error) {
	var pages []string
	err := filepath.WalkDir(siteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var broken BrokenLinks
	for _, page := range pages {
		hrefs, err := extractHrefs(page)
		if err != nil {
			return nil, err
		}
		rel, _ := filepath.Rel(siteDir, page)
		for _, href := range hrefs {
			if !isRelative(href) {
				continue
			}
			target := resolveTarget(rel, href)
			if _, err := os.Stat(filepath.Join(siteDir, filepath.FromSlash(target))); err != nil {
				broken = append(broken, BrokenLink{Page: filepath.ToSlash(rel), Href: href})
			}
		}
	}
	return broken, nil
}

func extractHrefs(htmlPath string) ([]string, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return extractHrefsFromReader(file)
}

func extractHrefsFromReader(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					hrefs = append(hrefs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hrefs, nil
}

// isRelative reports whether the href points into the generated tree.
func isRelative(href string) bool {
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "/") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// resolveTarget resolves href against the page's directory within the site.
func resolveTarget(pageRel, href string) string {
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		href = href[:i]
	}
	dir := path.Dir(filepath.ToSlash(pageRel))
	return path.Clean(path.Join(dir, href))
}

package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"squish/internal/util"
)

const containerPath = "META-INF/container.xml"

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opfPackage struct {
	Items []opfItem `xml:"manifest>item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// isDocument matches content documents; the EPUB3 navigation document is not one.
func (i opfItem) isDocument() bool {
	switch strings.ToLower(strings.TrimSpace(i.MediaType)) {
	case "application/xhtml+xml", "text/html":
	default:
		return false
	}
	for _, p := range strings.Fields(i.Properties) {
		if p == "nav" {
			return false
		}
	}
	return true
}

// extractEPUB visits the manifest's documents in manifest order and collects
// the text of every <p>, each followed by a blank line.
func extractEPUB(filename string) (string, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", util.ErrInvalidEPUB, filename, err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var container epubContainer
	if err := decodeXML(files, containerPath, &container); err != nil {
		return "", err
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return "", fmt.Errorf("%w: no rootfile in %s", util.ErrInvalidEPUB, containerPath)
	}
	opfPath := container.Rootfiles[0].FullPath

	var pkg opfPackage
	if err := decodeXML(files, opfPath, &pkg); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, item := range pkg.Items {
		if !item.isDocument() {
			continue
		}
		href, err := url.PathUnescape(item.Href)
		if err != nil {
			href = item.Href
		}
		name := path.Join(path.Dir(opfPath), href)
		raw, err := readFile(files, name)
		if err != nil {
			return "", err
		}
		if err := appendParagraphs(&b, raw); err != nil {
			return "", fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return b.String(), nil
}

func appendParagraphs(b *strings.Builder, raw []byte) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(string(raw))))
	if err != nil {
		return err
	}
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
		b.WriteString("\n\n")
	})
	return nil
}

func decodeXML(files map[string]*zip.File, name string, v any) error {
	raw, err := readFile(files, name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", util.ErrInvalidEPUB, name, err)
	}
	return nil
}

func readFile(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", util.ErrInvalidEPUB, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

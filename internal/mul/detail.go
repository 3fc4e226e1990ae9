package mul

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Availability is one (era, faction) pair scraped from a detail page.
// Availability on the catalog is binary: listed means the faction
// fields the unit in that era.
type Availability struct {
	Era     string
	Faction string
}

// ParseAvailability extracts availability records from a detail page.
//
// The page renders availability as an accordion: one panel per era with
// the era name in the heading link ("Star League (2571 - 2780)"), and a
// table inside the panel with one faction link per row.
func ParseAvailability(html []byte) []Availability {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	var records []Availability
	doc.Find(".panel.panel-default").Each(func(_ int, panel *goquery.Selection) {
		era := strings.TrimSpace(panel.Find(".panel-heading .media-body a").First().Text())
		if i := strings.Index(era, "("); i >= 0 {
			era = strings.TrimSpace(era[:i])
		}
		if era == "" {
			return
		}

		panel.Find(".panel-body").First().Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			faction := strings.TrimSpace(row.Find("a").First().Text())
			if faction != "" {
				records = append(records, Availability{Era: era, Faction: faction})
			}
		})
	})
	return records
}

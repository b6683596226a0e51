package prizetable

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DOM parses the document and walks the rows of the first table body with the
// same qualification rules as TBody. Tolerates markup the patterns trip over,
// such as attributes on tbody or unclosed cells.
type DOM struct{}

func (DOM) Name() string { return StrategyDOM }

func (DOM) Extract(html string) []PrizeTier {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var tiers []PrizeTier
	doc.Find("tbody").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		tier, ok := tierFromCells(
			cells.Eq(0).Text(),
			cells.Eq(1).Text(),
			cells.Eq(2).Text(),
			cells.Eq(3).Text(),
		)
		if ok {
			tiers = append(tiers, tier)
		}
	})

	return tiers
}

package prizetable

import (
	"regexp"
	"strconv"
)

var (
	rowPattern = regexp.MustCompile(
		`(?is)<tr[^>]*class="[^"]*"[^>]*>.*?` +
			`<td[^>]*>(\d)등</td>.*?` +
			`<td[^>]*>([\d,]+)원</td>.*?` +
			`<td[^>]*>([\d,]+)</td>.*?` +
			`<td[^>]*>([\d,]+)원</td>`)

	tbodyPattern = regexp.MustCompile(`(?s)<tbody>(.*?)</tbody>`)
	trPattern    = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	tdPattern    = regexp.MustCompile(`(?is)<td[^>]*>.*?</td>`)
	rankPattern  = regexp.MustCompile(`(\d)등`)
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	digitsRun    = regexp.MustCompile(`[\d,]+`)
)

// RowPattern matches class-annotated rows carrying rank, total prize, winner
// count and per-winner amount cells in that order. Every match is kept,
// duplicates included.
type RowPattern struct{}

func (RowPattern) Name() string { return StrategyRow }

func (RowPattern) Extract(html string) []PrizeTier {
	var tiers []PrizeTier
	for _, m := range rowPattern.FindAllStringSubmatch(html, -1) {
		rank, _ := strconv.Atoi(m[1])
		tiers = append(tiers, PrizeTier{
			Rank:           rank,
			TotalPrize:     ParseAmount(m[2]),
			WinnerCount:    ParseAmount(m[3]),
			PrizePerWinner: ParseAmount(m[4]),
		})
	}
	return tiers
}

// TBody walks the rows of the first table body. A row qualifies when it has
// at least four cells and the first one names a rank between 1 and 5.
type TBody struct{}

func (TBody) Name() string { return StrategyTBody }

func (TBody) Extract(html string) []PrizeTier {
	body := tbodyPattern.FindStringSubmatch(html)
	if body == nil {
		return nil
	}

	var tiers []PrizeTier
	for _, row := range trPattern.FindAllStringSubmatch(body[1], -1) {
		cells := tdPattern.FindAllString(row[1], -1)
		if len(cells) < 4 {
			continue
		}
		if tier, ok := tierFromCells(cells[0], stripTags(cells[1]), stripTags(cells[2]), stripTags(cells[3])); ok {
			tiers = append(tiers, tier)
		}
	}
	return tiers
}

// tierFromCells builds a tier from a row whose first cell carries the rank
// marker and whose next three cells carry the amounts as plain text.
func tierFromCells(rankCell, total, winners, perWinner string) (PrizeTier, bool) {
	m := rankPattern.FindStringSubmatch(rankCell)
	if m == nil {
		return PrizeTier{}, false
	}

	rank, _ := strconv.Atoi(m[1])
	if !validRank(rank) {
		return PrizeTier{}, false
	}

	return PrizeTier{
		Rank:           rank,
		TotalPrize:     firstAmount(total),
		WinnerCount:    firstAmount(winners),
		PrizePerWinner: firstAmount(perWinner),
	}, true
}

func stripTags(cell string) string {
	return tagPattern.ReplaceAllString(cell, "")
}

// firstAmount reads the first run of digits and commas, 0 when there is none.
func firstAmount(s string) int64 {
	run := digitsRun.FindString(s)
	if run == "" {
		return 0
	}
	return ParseAmount(run)
}

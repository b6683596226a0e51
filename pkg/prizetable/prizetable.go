// Package prizetable extracts per-rank prize tiers from the lottery results page.
//
// Extraction runs an ordered chain of strategies; the first one that yields at
// least one tier wins. The page layout is not under our control, so every
// strategy is best effort and never fails: no match is an empty result.
package prizetable

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// PrizeTier is one row of the prize table
type PrizeTier struct {
	Rank           int
	TotalPrize     int64
	WinnerCount    int64
	PrizePerWinner int64
}

// Lowest and highest prize ranks.
const (
	MinRank = 1
	MaxRank = 5
)

// Strategy extracts prize tiers from an HTML document
type Strategy interface {
	Name() string
	Extract(html string) []PrizeTier
}

// Strategy names
const (
	StrategyRow   = "row"
	StrategyTBody = "tbody"
	StrategyDOM   = "dom"
)

var ErrUnknownStrategy = errors.New("unknown prize table strategy")

// Chain is an ordered list of strategies tried in turn
type Chain []Strategy

// DefaultChain tries the class-annotated row pattern, then the first table body.
func DefaultChain() Chain {
	return Chain{RowPattern{}, TBody{}}
}

// ChainByNames builds a chain from strategy names, keeping their order.
func ChainByNames(names []string) (Chain, error) {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case StrategyRow:
			chain = append(chain, RowPattern{})
		case StrategyTBody:
			chain = append(chain, TBody{})
		case StrategyDOM:
			chain = append(chain, DOM{})
		case "":
			continue
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
		}
	}

	if len(chain) == 0 {
		return DefaultChain(), nil
	}

	return chain, nil
}

// Extract returns the tiers found by the first strategy whose result holds at
// least one rank between MinRank and MaxRank, sorted ascending by rank, and
// that strategy's name. Returns an empty name when nothing matched.
func (c Chain) Extract(html string) ([]PrizeTier, string) {
	for _, s := range c {
		if tiers := s.Extract(html); slices.ContainsFunc(tiers, hasValidRank) {
			SortByRank(tiers)
			return tiers, s.Name()
		}
	}
	return nil, ""
}

// ExtractPrizeTiers runs the default chain over html.
func ExtractPrizeTiers(html string) []PrizeTier {
	tiers, _ := DefaultChain().Extract(html)
	return tiers
}

// SortByRank sorts tiers ascending by rank, keeping the input order of equal ranks.
func SortByRank(tiers []PrizeTier) {
	slices.SortStableFunc(tiers, func(a, b PrizeTier) int {
		return a.Rank - b.Rank
	})
}

// ParseAmount parses a comma grouped number such as "1,234,567".
// Anything that is not a valid non-negative int64 yields 0.
func ParseAmount(s string) int64 {
	v, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func validRank(rank int) bool {
	return rank >= MinRank && rank <= MaxRank
}

func hasValidRank(tier PrizeTier) bool {
	return validRank(tier.Rank)
}

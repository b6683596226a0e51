package lotto

import (
	"slices"

	"github.com/screwyprof/lotto/pkg/dhlottery"
	"github.com/screwyprof/lotto/pkg/prizetable"
)

// NewBasicPayload converts the upstream draw into its domain form, keeping the raw body.
func NewBasicPayload(n dhlottery.LottoNumber) BasicPayload {
	return BasicPayload{
		Result: DrawBasicResult{
			ReturnValue: n.ReturnValue,
			DrwNo:       int(n.DrwNo),
			DrwNoDate:   n.DrwNoDate,
			Numbers: [6]int{
				int(n.DrwtNo1), int(n.DrwtNo2), int(n.DrwtNo3),
				int(n.DrwtNo4), int(n.DrwtNo5), int(n.DrwtNo6),
			},
			BonusNo:        int(n.BnusNo),
			TotSellamnt:    n.TotSellamnt.Int64(),
			FirstWinamnt:   n.FirstWinamnt.Int64(),
			FirstPrzwnerCo: n.FirstPrzwnerCo.Int64(),
			FirstAccumamnt: n.FirstAccumamnt.Int64(),
		},
		Raw: slices.Clone(n.Raw),
	}
}

// NormalizeTiers sorts tiers by rank and keeps the first tier of each rank
// between 1 and 5.
func NormalizeTiers(tiers []PrizeTier) []PrizeTier {
	sorted := slices.Clone(tiers)
	prizetable.SortByRank(sorted)

	out := sorted[:0]
	for _, tier := range sorted {
		if tier.Rank < prizetable.MinRank || tier.Rank > prizetable.MaxRank {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Rank == tier.Rank {
			continue
		}
		out = append(out, tier)
	}

	return out
}

// Merge builds the enriched result. Falls back to the synthesized first tier
// when no usable tiers are given.
func Merge(basic DrawBasicResult, tiers []PrizeTier) Enriched {
	prizes := NormalizeTiers(tiers)
	if len(prizes) == 0 {
		return Enriched{
			Result:   EnrichedResult{DrawBasicResult: basic, Prizes: []PrizeTier{basic.FirstTier()}},
			Fallback: true,
		}
	}

	return Enriched{Result: EnrichedResult{DrawBasicResult: basic, Prizes: prizes}}
}

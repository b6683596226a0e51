package bind

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/screwyprof/lotto/lotto"
	"github.com/screwyprof/lotto/web/api"
)

// Sentinel errors for request binding
var (
	ErrDrwNoRequired = errors.New("drwNo is required")
	ErrInvalidDrwNo  = errors.New("invalid drwNo parameter")
)

// GetLottoRequest binds the drwNo query parameter to a draw id
func GetLottoRequest(r *http.Request) (lotto.DrawID, error) {
	req := api.LottoRequest{
		DrwNo: strings.TrimSpace(r.URL.Query().Get("drwNo")),
	}

	if req.DrwNo == "" {
		return lotto.DrawID{}, ErrDrwNoRequired
	}

	id, err := lotto.ParseDrawID(req.DrwNo)
	if err != nil {
		return lotto.DrawID{}, fmt.Errorf("%w: %w", ErrInvalidDrwNo, err)
	}

	return id, nil
}

// LottoResultResponse binds an enriched draw to the API response format
func LottoResultResponse(res lotto.EnrichedResult) api.LottoResult {
	prizes := make([]api.Prize, len(res.Prizes))
	for i, p := range res.Prizes {
		prizes[i] = api.Prize{
			Rank:           p.Rank,
			TotalPrize:     p.TotalPrize,
			WinnerCount:    p.WinnerCount,
			PrizePerWinner: p.PrizePerWinner,
		}
	}

	return api.LottoResult{
		ReturnValue:    res.ReturnValue,
		DrwNo:          res.DrwNo,
		DrwNoDate:      res.DrwNoDate,
		DrwtNo1:        res.Numbers[0],
		DrwtNo2:        res.Numbers[1],
		DrwtNo3:        res.Numbers[2],
		DrwtNo4:        res.Numbers[3],
		DrwtNo5:        res.Numbers[4],
		DrwtNo6:        res.Numbers[5],
		BnusNo:         res.BonusNo,
		TotSellamnt:    res.TotSellamnt,
		FirstWinamnt:   res.FirstWinamnt,
		FirstPrzwnerCo: res.FirstPrzwnerCo,
		FirstAccumamnt: res.FirstAccumamnt,
		Prizes:         prizes,
	}
}

// FailureResponse is the uniform body for a draw that could not be fetched
func FailureResponse() api.FailureResponse {
	return api.FailureResponse{
		ReturnValue: lotto.FailReturnValue,
		Error:       lotto.FailMessage,
	}
}

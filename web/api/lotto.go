package api

// LottoRequest represents the query parameters for GET /api/lotto
type LottoRequest struct {
	DrwNo string `query:"drwNo"` // Draw number or "latest"
}

// Prize represents a single prize tier in the API response
type Prize struct {
	Rank           int   `json:"rank"`
	TotalPrize     int64 `json:"totalPrize"`
	WinnerCount    int64 `json:"winnerCount"`
	PrizePerWinner int64 `json:"prizePerWinner"`
}

// LottoResult represents the API response format for an enriched draw.
// Field names follow the upstream getLottoNumber payload.
type LottoResult struct {
	ReturnValue    string  `json:"returnValue"`
	DrwNo          int     `json:"drwNo"`
	DrwNoDate      string  `json:"drwNoDate"`
	DrwtNo1        int     `json:"drwtNo1"`
	DrwtNo2        int     `json:"drwtNo2"`
	DrwtNo3        int     `json:"drwtNo3"`
	DrwtNo4        int     `json:"drwtNo4"`
	DrwtNo5        int     `json:"drwtNo5"`
	DrwtNo6        int     `json:"drwtNo6"`
	BnusNo         int     `json:"bnusNo"`
	TotSellamnt    int64   `json:"totSellamnt"`
	FirstWinamnt   int64   `json:"firstWinamnt"`
	FirstPrzwnerCo int64   `json:"firstPrzwnerCo"`
	FirstAccumamnt int64   `json:"firstAccumamnt"`
	Prizes         []Prize `json:"prizes"`
}

// FailureResponse is returned with 200 OK when the draw could not be fetched
type FailureResponse struct {
	ReturnValue string `json:"returnValue"`
	Error       string `json:"error"`
}

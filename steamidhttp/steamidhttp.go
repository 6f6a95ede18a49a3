package steamidhttp

import "steamid-convert/steamidutil"

type ConvertResponse struct {
	Input       string `json:"input"`
	Format      string `json:"format"`
	SteamID64   uint64 `json:"steamid64,string"`
	SteamID2    string `json:"steamid2"`
	SteamID3    string `json:"steamid3"`
	AccountID   uint32 `json:"account_id"`
	Instance    uint32 `json:"instance"`
	AccountType string `json:"account_type"`
	Universe    string `json:"universe"`
}

type ConvertBatchRequest struct {
	IDs []string `json:"ids"`
}

type ConvertBatchResult struct {
	Input  string           `json:"input"`
	Result *ConvertResponse `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type ConvertBatchResponse struct {
	Results []ConvertBatchResult `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewConvertResponse(input string, s steamidutil.SteamID, format steamidutil.Format) ConvertResponse {
	return ConvertResponse{
		Input:       input,
		Format:      format.String(),
		SteamID64:   s.ID64(),
		SteamID2:    s.ID2(),
		SteamID3:    s.ID3(),
		AccountID:   s.AccountID,
		Instance:    s.Instance,
		AccountType: s.AccountType.String(),
		Universe:    s.Universe.String(),
	}
}

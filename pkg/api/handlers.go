package api

import (
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"token-quest/pkg/metrics"
	"token-quest/pkg/parser"
	"token-quest/pkg/swap"
	"token-quest/pkg/types"
)

type healthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Network string `json:"network"`
}

type walletResponse struct {
	Success bool `json:"success"`
	*types.WalletInfo
}

type quoteResponse struct {
	Success bool `json:"success"`
	*types.SwapQuote
}

type swapResponse struct {
	Success bool `json:"success"`
	*types.SwapResult
}

type tokenResponse struct {
	Success bool `json:"success"`
	*types.TokenInfo
}

type validateWalletRequest struct {
	Address string `json:"address"`
}

type quoteRequest struct {
	TokenIn  string       `json:"tokenIn"`
	TokenOut string       `json:"tokenOut"`
	AmountIn types.Amount `json:"amountIn"`
}

type executeSwapRequest struct {
	WalletAddress string       `json:"walletAddress"`
	TokenIn       string       `json:"tokenIn"`
	TokenOut      string       `json:"tokenOut"`
	AmountIn      types.Amount `json:"amountIn"`
	Slippage      *float64     `json:"slippage"`
}

type tokenInfoRequest struct {
	TokenAddress string `json:"tokenAddress"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Success: true,
		Status:  "healthy",
		Service: ServiceName,
		Version: Version,
		Network: s.opts.Network,
	})
}

func (s *Server) handleValidateWallet(w http.ResponseWriter, r *http.Request) {
	var body validateWalletRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Address) == "" {
		writeError(w, http.StatusBadRequest, "Wallet address is required")
		return
	}

	ctx, cancel := s.rpcContext(r)
	defer cancel()

	info, err := s.svc.ValidateWallet(ctx, body.Address)
	if err != nil {
		s.fail(w, r, err, "Wallet validation failed: ")
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{Success: true, WalletInfo: info})
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	var body quoteRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if blank(body.TokenIn) || blank(body.TokenOut) || blank(string(body.AmountIn)) {
		writeError(w, http.StatusBadRequest, "Missing required parameters: tokenIn, tokenOut, amountIn")
		return
	}

	ctx, cancel := s.rpcContext(r)
	defer cancel()

	q, err := s.svc.GetSwapQuote(ctx, body.TokenIn, body.TokenOut, string(body.AmountIn))
	if err != nil {
		s.fail(w, r, err, "Quote calculation failed: ")
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{Success: true, SwapQuote: q})
}

func (s *Server) handleExecuteSwap(w http.ResponseWriter, r *http.Request) {
	var body executeSwapRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := types.SwapRequest{
		WalletAddress: body.WalletAddress,
		TokenIn:       body.TokenIn,
		TokenOut:      body.TokenOut,
		AmountIn:      string(body.AmountIn),
	}
	if err := parser.ValidateSwapRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}
	slippage, err := parser.ParseSlippage(body.Slippage)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Slippage = slippage

	ctx, cancel := s.rpcContext(r)
	defer cancel()

	result, err := s.svc.ExecuteSwap(ctx, req)
	if err != nil {
		s.fail(w, r, err, "Swap execution failed: ")
		return
	}

	xp := BaseXP
	if amountIn, ok := new(big.Int).SetString(result.AmountIn, 10); ok {
		xp = ExperiencePoints(amountIn)
	} else {
		zerolog.Ctx(r.Context()).Error().
			Str("amount_in", result.AmountIn).
			Msg("swap result amount is not an integer, awarding base XP")
	}
	result.XPEarned = xp
	result.Message = fmt.Sprintf("🎉 Congratulations! You found a treasure worth %d XP!", xp)
	metrics.RecordSwap(xp)

	zerolog.Ctx(r.Context()).Info().
		Str("wallet", req.WalletAddress).
		Str("amount_in", result.AmountIn).
		Str("amount_out", result.AmountOut).
		Int("xp", xp).
		Msg("swap simulated")

	writeJSON(w, http.StatusOK, swapResponse{Success: true, SwapResult: result})
}

func (s *Server) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	var body tokenInfoRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.TokenAddress) == "" {
		writeError(w, http.StatusBadRequest, "Token address is required")
		return
	}

	ctx, cancel := s.rpcContext(r)
	defer cancel()

	info, err := s.svc.GetTokenInfo(ctx, body.TokenAddress)
	if err != nil {
		s.fail(w, r, err, "Failed to get token info: ")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Success: true, TokenInfo: info})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, prefix string) {
	status := statusFor(err)
	zerolog.Ctx(r.Context()).Warn().
		Err(err).
		Str("kind", swap.KindOf(err).String()).
		Int("status", status).
		Msg("request failed")
	writeError(w, status, prefix+err.Error())
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

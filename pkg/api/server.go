// Package api exposes the swap service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"token-quest/pkg/types"
)

const (
	ServiceName = "Token Quest Backend"
	Version     = "1.0.0"

	defaultRPCTimeout = 30 * time.Second
)

// SwapService is implemented by *swap.Service.
type SwapService interface {
	ValidateWallet(ctx context.Context, address string) (*types.WalletInfo, error)
	GetTokenInfo(ctx context.Context, tokenAddress string) (*types.TokenInfo, error)
	GetSwapQuote(ctx context.Context, tokenIn, tokenOut, amountIn string) (*types.SwapQuote, error)
	ExecuteSwap(ctx context.Context, req types.SwapRequest) (*types.SwapResult, error)
}

type Options struct {
	Network    string
	CORSOrigin string
	// RPCTimeout bounds the chain work done for a single request.
	RPCTimeout time.Duration
	Logger     zerolog.Logger
}

type Server struct {
	svc  SwapService
	opts Options
}

func NewServer(svc SwapService, opts Options) *Server {
	if opts.RPCTimeout <= 0 {
		opts.RPCTimeout = defaultRPCTimeout
	}
	return &Server{svc: svc, opts: opts}
}

var routes = map[string]string{
	"/health":              http.MethodGet,
	"/api/validate-wallet": http.MethodPost,
	"/api/get-quote":       http.MethodPost,
	"/api/execute-swap":    http.MethodPost,
	"/api/token-info":      http.MethodPost,
}

// Handler returns the full middleware chain around the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/validate-wallet", s.handleValidateWallet)
	mux.HandleFunc("POST /api/get-quote", s.handleGetQuote)
	mux.HandleFunc("POST /api/execute-swap", s.handleExecuteSwap)
	mux.HandleFunc("POST /api/token-info", s.handleTokenInfo)
	mux.HandleFunc("/", s.handleFallback)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.opts.CORSOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return withRequestID(s.opts.Logger, instrument(recoverer(c.Handler(mux))))
}

// NewHTTPServer wraps the handler in an http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.opts.RPCTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	if method, ok := routes[r.URL.Path]; ok {
		w.Header().Set("Allow", method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeError(w, http.StatusNotFound, "Endpoint not found")
}

func (s *Server) rpcContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.opts.RPCTimeout)
}

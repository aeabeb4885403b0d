package repository

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"options-monitor/config"
	"options-monitor/internal/dto"
	"options-monitor/pkg/cache"
	"options-monitor/pkg/httpclient"
	"options-monitor/pkg/logger"

	"golang.org/x/time/rate"
)

// OptionChainRepository fetches bid/ask/last per strike for a ticker and expiry.
type OptionChainRepository interface {
	GetChain(ctx context.Context, ticker string, expiry time.Time) (*dto.OptionChain, error)
}

type optionChainRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	inmemoryCache  cache.Cache
	requestLimiter *rate.Limiter
	mu             sync.Mutex
}

// NewOptionChainRepository creates a Yahoo Finance backed option chain provider.
func NewOptionChainRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) OptionChainRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Yahoo.MaxRequestPerMinute)

	return &optionChainRepository{
		httpClient:     httpclient.New(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout),
		cfg:            cfg,
		logger:         log,
		inmemoryCache:  inmemoryCache,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *optionChainRepository) GetChain(ctx context.Context, ticker string, expiry time.Time) (*dto.OptionChain, error) {
	expiryDate := expiry.Format("2006-01-02")
	cacheKey := fmt.Sprintf("chain:%s:%s", ticker, expiryDate)
	if cached, ok := cache.GetTyped[*dto.OptionChain](r.inmemoryCache, cacheKey); ok {
		return cached, nil
	}

	r.mu.Lock()
	err := r.requestLimiter.Wait(ctx)
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", dto.ErrDataUnavailable, err)
	}

	// Yahoo keys expiries by midnight UTC.
	expiryUnix := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC).Unix()
	queryParams := map[string]string{
		"date": fmt.Sprintf("%d", expiryUnix),
	}

	var optionsResp dto.YahooOptionsResponse
	resp, err := r.httpClient.Get(ctx, "/v7/finance/options/"+ticker, queryParams, yahooHeaders(), &optionsResp)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch chain for %s %s: %v", dto.ErrChainUnavailable, ticker, expiryDate, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Yahoo options API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("ticker", ticker),
			logger.StringField("expiry", expiryDate))
		return nil, fmt.Errorf("%w: options api returned status %d for %s %s", dto.ErrChainUnavailable, resp.StatusCode, ticker, expiryDate)
	}

	if optionsResp.OptionChain.Error != nil {
		return nil, fmt.Errorf("%w: options api error for %s: %v", dto.ErrChainUnavailable, ticker, optionsResp.OptionChain.Error)
	}

	results := optionsResp.OptionChain.Result
	if len(results) == 0 || len(results[0].Options) == 0 {
		return nil, fmt.Errorf("%w: no chain for %s at %s", dto.ErrChainUnavailable, ticker, expiryDate)
	}

	options := results[0].Options[0]
	chain := &dto.OptionChain{
		Calls: mapQuotes(options.Calls),
		Puts:  mapQuotes(options.Puts),
	}

	r.inmemoryCache.Set(cacheKey, chain, r.cfg.Cache.DefaultExpiration)
	return chain, nil
}

func mapQuotes(quotes []dto.YahooOptionQuote) []dto.OptionQuote {
	out := make([]dto.OptionQuote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, dto.OptionQuote{
			Strike: q.Strike,
			Bid:    q.Bid,
			Ask:    q.Ask,
			Last:   q.LastPrice,
		})
	}
	return out
}

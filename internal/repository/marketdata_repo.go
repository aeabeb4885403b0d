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
	"options-monitor/pkg/ta"

	"golang.org/x/time/rate"
)

// minSessions is the least amount of daily history required before the
// indicator set is considered meaningful.
const minSessions = 60

// MarketDataRepository is the indicator provider for an underlying ticker.
type MarketDataRepository interface {
	GetCoreIndicators(ctx context.Context, ticker string) (*dto.CoreIndicators, error)
	RecentCloses(ctx context.Context, ticker string, n int) ([]float64, error)
	NextEarningsInDays(ctx context.Context, ticker string) (int, bool, error)
}

type historyEntry struct {
	bars        []dto.StockOHLCV
	marketPrice float64
}

type marketDataRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	inmemoryCache  cache.Cache
	requestLimiter *rate.Limiter
	mu             sync.Mutex
}

// NewMarketDataRepository creates a Yahoo Finance backed market data provider.
func NewMarketDataRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Yahoo.MaxRequestPerMinute)

	return &marketDataRepository{
		httpClient:     httpclient.New(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout),
		cfg:            cfg,
		logger:         log,
		inmemoryCache:  inmemoryCache,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *marketDataRepository) GetCoreIndicators(ctx context.Context, ticker string) (*dto.CoreIndicators, error) {
	hist, err := r.fetchHistory(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if len(hist.bars) < minSessions {
		return nil, fmt.Errorf("%w: %s has %d sessions, need %d", dto.ErrInsufficientData, ticker, len(hist.bars), minSessions)
	}

	n := len(hist.bars)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, bar := range hist.bars {
		closes[i] = bar.Close
		highs[i] = bar.High
		lows[i] = bar.Low
		volumes[i] = bar.Volume
	}

	price := closes[n-1]
	if hist.marketPrice > 0 {
		price = hist.marketPrice
	}

	macdLine, macdSignal := ta.MACD(closes, 12, 26, 9)

	return &dto.CoreIndicators{
		Price:        price,
		SMA20:        ta.SMA(closes, 20),
		SMA50:        ta.SMA(closes, 50),
		SMA200:       ta.SMA(closes, 200),
		RSI14:        ta.RSI(closes, 14),
		MACD:         macdLine,
		MACDSignal:   macdSignal,
		ATR14:        ta.ATR(highs, lows, closes, 14),
		AvgDollarVol: ta.AvgDollarVolume(closes, volumes, 20),
	}, nil
}

func (r *marketDataRepository) RecentCloses(ctx context.Context, ticker string, n int) ([]float64, error) {
	hist, err := r.fetchHistory(ctx, ticker)
	if err != nil {
		return nil, err
	}

	bars := hist.bars
	if n < len(bars) {
		bars = bars[len(bars)-n:]
	}
	closes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		closes = append(closes, bar.Close)
	}
	return closes, nil
}

func (r *marketDataRepository) NextEarningsInDays(ctx context.Context, ticker string) (int, bool, error) {
	if err := r.waitLimiter(ctx); err != nil {
		return 0, false, err
	}

	var summary dto.YahooQuoteSummaryResponse
	resp, err := r.httpClient.Get(ctx, "/v10/finance/quoteSummary/"+ticker,
		map[string]string{"modules": "calendarEvents"}, yahooHeaders(), &summary)
	if err != nil {
		return 0, false, fmt.Errorf("%w: earnings lookup for %s: %v", dto.ErrDataUnavailable, ticker, err)
	}
	if resp.StatusCode != http.StatusOK || summary.QuoteSummary.Error != nil {
		return 0, false, fmt.Errorf("%w: earnings lookup for %s returned status %d", dto.ErrDataUnavailable, ticker, resp.StatusCode)
	}

	results := summary.QuoteSummary.Result
	if len(results) == 0 || len(results[0].CalendarEvents.Earnings.EarningsDate) == 0 {
		return 0, false, nil
	}

	next := time.Unix(results[0].CalendarEvents.Earnings.EarningsDate[0].Raw, 0).UTC()
	days := int(next.Truncate(24*time.Hour).Sub(time.Now().UTC().Truncate(24*time.Hour)).Hours() / 24)
	return days, true, nil
}

func (r *marketDataRepository) fetchHistory(ctx context.Context, ticker string) (*historyEntry, error) {
	cacheKey := "history:" + ticker
	if cached, ok := cache.GetTyped[*historyEntry](r.inmemoryCache, cacheKey); ok {
		return cached, nil
	}

	if err := r.waitLimiter(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", now.AddDate(-1, 0, 0).Unix()),
		"period2":        fmt.Sprintf("%d", now.Unix()),
		"interval":       "1d",
		"includePrePost": "false",
	}

	var chartResp dto.YahooChartResponse
	resp, err := r.httpClient.Get(ctx, "/v8/finance/chart/"+ticker, queryParams, yahooHeaders(), &chartResp)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch history for %s: %v", dto.ErrDataUnavailable, ticker, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Yahoo chart API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("%w: chart api returned status %d for %s", dto.ErrDataUnavailable, resp.StatusCode, ticker)
	}

	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: chart api error for %s: %v", dto.ErrDataUnavailable, ticker, chartResp.Chart.Error)
	}

	if len(chartResp.Chart.Result) == 0 || len(chartResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no data returned for %s", dto.ErrInsufficientData, ticker)
	}

	result := chartResp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	var bars []dto.StockOHLCV
	for i, timestamp := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}
		// Zero close means a missing session row.
		if quote.Close[i] == 0 {
			continue
		}
		bars = append(bars, dto.StockOHLCV{
			Timestamp: timestamp,
			Open:      quote.Open[i],
			High:      quote.High[i],
			Low:       quote.Low[i],
			Close:     quote.Close[i],
			Volume:    quote.Volume[i],
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no valid sessions for %s", dto.ErrInsufficientData, ticker)
	}

	entry := &historyEntry{bars: bars, marketPrice: result.Meta.RegularMarketPrice}
	r.inmemoryCache.Set(cacheKey, entry, r.cfg.Cache.DefaultExpiration)
	return entry, nil
}

func (r *marketDataRepository) waitLimiter(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.requestLimiter.Allow() {
		r.logger.WarnContext(ctx, "Yahoo Finance API request limit reached, waiting",
			logger.IntField("max_request_per_minute", r.cfg.Yahoo.MaxRequestPerMinute),
		)
	}
	return r.requestLimiter.Wait(ctx)
}

func yahooHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://finance.yahoo.com/",
	}
}

package dto

// CoreIndicators are the latest technical values for an underlying.
type CoreIndicators struct {
	Price        float64 `json:"price"`
	SMA20        float64 `json:"sma20"`
	SMA50        float64 `json:"sma50"`
	SMA200       float64 `json:"sma200"`
	RSI14        float64 `json:"rsi14"`
	MACD         float64 `json:"macd"`
	MACDSignal   float64 `json:"macd_signal"`
	ATR14        float64 `json:"atr14"`
	AvgDollarVol float64 `json:"avg_dollar_vol"`
}

// OptionQuote is one strike row of a fetched chain.
type OptionQuote struct {
	Strike float64 `json:"strike"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Last   float64 `json:"last"`
}

// OptionChain holds both sides of a chain for a single expiry.
type OptionChain struct {
	Calls []OptionQuote `json:"calls"`
	Puts  []OptionQuote `json:"puts"`
}

// StockOHLCV is one daily bar of underlying price history.
type StockOHLCV struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// YahooChartResponse mirrors the Yahoo Finance v8 chart API payload.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// YahooOptionQuote is one contract row of the Yahoo v7 options payload.
type YahooOptionQuote struct {
	Strike    float64 `json:"strike"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	LastPrice float64 `json:"lastPrice"`
}

// YahooOptionsResponse mirrors the Yahoo Finance v7 options API payload.
type YahooOptionsResponse struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				Calls []YahooOptionQuote `json:"calls"`
				Puts  []YahooOptionQuote `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"optionChain"`
}

// YahooQuoteSummaryResponse mirrors the calendarEvents module of the Yahoo
// quoteSummary API, used for best-effort earnings date lookup.
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			CalendarEvents struct {
				Earnings struct {
					EarningsDate []struct {
						Raw int64 `json:"raw"`
					} `json:"earningsDate"`
				} `json:"earnings"`
			} `json:"calendarEvents"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteSummary"`
}

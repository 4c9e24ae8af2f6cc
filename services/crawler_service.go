package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock_tracker_backend/models"
)

// EastMoney endpoints for the A-share universe and quotes
const (
	StockListAPIURL  = "https://80.push2.eastmoney.com/api/qt/clist/get?pn=1&pz=10000&po=1&fltt=2&fs=m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23&fields=f12,f13,f14"
	StockQuoteAPIURL = "https://push2.eastmoney.com/api/qt/stock/get?fltt=2&fields=f43,f46,f47,f48,f57,f60,f86,f292&secid="
)

// CrawlerService fetches live market data over HTTP
type CrawlerService struct {
	client       *http.Client
	listURL      string
	quoteBaseURL string
}

// NewCrawlerService creates a CrawlerService with a 30s request timeout
func NewCrawlerService() *CrawlerService {
	return &CrawlerService{
		client:       &http.Client{Timeout: 30 * time.Second},
		listURL:      StockListAPIURL,
		quoteBaseURL: StockQuoteAPIURL,
	}
}

// stockListResponse represents the clist API response
type stockListResponse struct {
	Data struct {
		Total int             `json:"total"`
		Diff  []stockListItem `json:"diff"`
	} `json:"data"`
}

// stockListItem represents one stock in the clist API response
type stockListItem struct {
	Code   string `json:"f12"` // stock code
	Market int    `json:"f13"` // 1 = Shanghai, 0 = Shenzhen
	Name   string `json:"f14"` // display name
}

// stockQuoteResponse represents the quote API response
type stockQuoteResponse struct {
	Data *stockQuoteData `json:"data"`
}

// stockQuoteData represents quote fields for one stock
type stockQuoteData struct {
	ClosingPrice float64 `json:"f43"` // latest price
	OpeningPrice float64 `json:"f46"`
	Volume       int64   `json:"f47"` // lots
	Value        float64 `json:"f48"`
	Code         string  `json:"f57"`
	PreClose     float64 `json:"f60"`
	Timestamp    int64   `json:"f86"` // unix seconds of the quote
	TradeStatus  int     `json:"f292"`
}

// GetStockList fetches the full A-share stock universe
func (c *CrawlerService) GetStockList() ([]models.StockInfo, error) {
	body, err := c.get(c.listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch stock list: %w", err)
	}

	var response stockListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parse stock list: %w", err)
	}

	stocks := make([]models.StockInfo, 0, len(response.Data.Diff))
	for _, item := range response.Data.Diff {
		stocks = append(stocks, models.StockInfo{
			Code:     item.Code,
			Name:     item.Name,
			Exchange: exchangeOfMarket(item.Market),
			State:    models.StockStateListed,
		})
	}
	return stocks, nil
}

// GetStockState fetches the live listing state for a stock code. The raw
// provider status is passed through untranslated when it is not a known
// listing state, so callers can detect enumeration mismatches.
func (c *CrawlerService) GetStockState(code string) (int, error) {
	quote, err := c.fetchQuote(code)
	if err != nil {
		return 0, err
	}
	if quote == nil {
		return 0, fmt.Errorf("no quote data for %s", code)
	}

	switch quote.TradeStatus {
	case 0, 1: // trading or suspended intraday
		return models.StockStateListed, nil
	case 2:
		return models.StockStateDelisted, nil
	case 3:
		return models.StockStateTerminated, nil
	default:
		return quote.TradeStatus, nil
	}
}

// GetDailyIndex fetches today's quote for a stock. The code may be bare
// ("600000") or exchange-prefixed ("sh600000"). Returns nil when the
// provider has no data for the code.
func (c *CrawlerService) GetDailyIndex(code string) (*models.DailyIndex, error) {
	quote, err := c.fetchQuote(code)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, nil
	}

	return &models.DailyIndex{
		Date:            time.Unix(quote.Timestamp, 0),
		OpeningPrice:    decimal.NewFromFloat(quote.OpeningPrice),
		ClosingPrice:    decimal.NewFromFloat(quote.ClosingPrice),
		PreClosingPrice: decimal.NewFromFloat(quote.PreClose),
		TradingVolume:   quote.Volume,
		TradingValue:    decimal.NewFromFloat(quote.Value),
	}, nil
}

func (c *CrawlerService) fetchQuote(code string) (*stockQuoteData, error) {
	body, err := c.get(c.quoteBaseURL + secIDOf(code))
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", code, err)
	}

	var response stockQuoteResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parse quote for %s: %w", code, err)
	}
	return response.Data, nil
}

func (c *CrawlerService) get(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// exchangeOfMarket maps the provider's market number to an exchange code
func exchangeOfMarket(market int) string {
	if market == 1 {
		return models.ExchangeShanghai
	}
	return models.ExchangeShenzhen
}

// secIDOf converts a stock code to the provider's "market.code" form.
// Bare codes are resolved by prefix: 6xxxxx trades in Shanghai.
func secIDOf(code string) string {
	switch {
	case strings.HasPrefix(code, models.ExchangeShanghai):
		return "1." + code[2:]
	case strings.HasPrefix(code, models.ExchangeShenzhen):
		return "0." + code[2:]
	case strings.HasPrefix(code, "6"):
		return "1." + code
	default:
		return "0." + code
	}
}

package kis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Transaction ids and paths of the quotation endpoints.
const (
	TrIDStockPrice    = "FHKST01010100"
	TrIDOverseasDaily = "FHKST03030100"

	pathStockPrice    = "/uapi/domestic-stock/v1/quotations/inquire-price"
	pathOverseasDaily = "/uapi/overseas-price/v1/quotations/inquire-daily-chartprice"
)

// StockPrice is the current price of a domestic stock.
type StockPrice struct {
	Code         string
	Price        int64
	ChangeAmount int64
	Sign         string
	ChangeRate   float64
}

// FxPrice is the latest daily reading of an exchange rate or overseas index.
type FxPrice struct {
	Type         string
	Code         string
	Name         string
	Price        float64
	ChangeAmount float64
	Sign         string
	ChangeRate   float64
}

type stockPriceOutput struct {
	Price        string `json:"stck_prpr"`
	ChangeAmount string `json:"prdy_vrss"`
	Sign         string `json:"prdy_vrss_sign"`
	ChangeRate   string `json:"prdy_ctrt"`
}

type overseasDailyOutput struct {
	Name         string `json:"hts_kor_isnm"`
	Price        string `json:"ovrs_nmix_prpr"`
	ChangeAmount string `json:"ovrs_nmix_prdy_vrss"`
	Sign         string `json:"prdy_vrss_sign"`
	ChangeRate   string `json:"prdy_ctrt"`
}

// InquirePrice returns the current price of the stock with code.
func (c *Client) InquirePrice(ctx context.Context, code string) (StockPrice, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return StockPrice{}, ErrEmptyCode
	}

	resp, err := c.get(ctx, pathStockPrice, TrIDStockPrice, url.Values{
		"FID_COND_MRKT_DIV_CODE": {"J"},
		"FID_INPUT_ISCD":         {code},
	})
	if err != nil {
		return StockPrice{}, fmt.Errorf("inquire price %s: %w", code, err)
	}

	var out stockPriceOutput
	if err := decodeOutput(resp.Output, &out); err != nil {
		return StockPrice{}, err
	}

	p := StockPrice{Code: code, Sign: out.Sign}
	if p.Price, err = parseInt(out.Price); err != nil {
		return StockPrice{}, err
	}
	if p.ChangeAmount, err = parseInt(out.ChangeAmount); err != nil {
		return StockPrice{}, err
	}
	if p.ChangeRate, err = parseFloat(out.ChangeRate); err != nil {
		return StockPrice{}, err
	}
	return p, nil
}

// InquireFx returns today's reading for the pair identified by market
// division fxType and symbol fxCode, for example ("X", "FX@KRW").
func (c *Client) InquireFx(ctx context.Context, fxType, fxCode string) (FxPrice, error) {
	fxType, fxCode = strings.TrimSpace(fxType), strings.TrimSpace(fxCode)
	if fxType == "" || fxCode == "" {
		return FxPrice{}, ErrEmptyCode
	}

	today := c.now().Format("20060102")
	resp, err := c.get(ctx, pathOverseasDaily, TrIDOverseasDaily, url.Values{
		"FID_COND_MRKT_DIV_CODE": {fxType},
		"FID_INPUT_ISCD":         {fxCode},
		"FID_INPUT_DATE_1":       {today},
		"FID_INPUT_DATE_2":       {today},
		"FID_PERIOD_DIV_CODE":    {"D"},
	})
	if err != nil {
		return FxPrice{}, fmt.Errorf("inquire fx %s/%s: %w", fxType, fxCode, err)
	}

	var out overseasDailyOutput
	if err := decodeOutput(resp.Output1, &out); err != nil {
		return FxPrice{}, err
	}

	p := FxPrice{Type: fxType, Code: fxCode, Name: out.Name, Sign: out.Sign}
	if p.Price, err = parseFloat(out.Price); err != nil {
		return FxPrice{}, err
	}
	if p.ChangeAmount, err = parseFloat(out.ChangeAmount); err != nil {
		return FxPrice{}, err
	}
	if p.ChangeRate, err = parseFloat(out.ChangeRate); err != nil {
		return FxPrice{}, err
	}
	return p, nil
}

func decodeOutput(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("%w: missing output", ErrInvalidResponse)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return f, nil
}

package collector

import "RateScope/internal/extract"

// Record field names produced by the bank rate schema.
const (
	FieldCurrency = "currency"
	FieldSpotBuy  = "spot_buy"
	FieldSpotSell = "spot_sell"
)

// Record field names produced by the stock quote schema.
const (
	FieldQuoteTime  = "quote_time"
	FieldCode       = "code"
	FieldName       = "name"
	FieldPrice      = "price"
	FieldChange     = "change"
	FieldChangeRate = "change_rate"
	FieldOpen       = "open"
	FieldHigh       = "high"
	FieldLow        = "low"
	FieldVolume     = "volume"
	FieldPrevClose  = "prev_close"

	// Added by QuoteFetcher, not read from the page.
	FieldStockCode  = "stock_code"
	FieldUpdateTime = "update_time"
)

// BankRateSchema reads the spot board rate table of Bank of Taiwan.
var BankRateSchema = extract.Schema{
	Name:         "bank-rates",
	BaseSelector: "table[title='牌告匯率'] tr",
	Fields: []extract.Field{
		{Name: FieldCurrency, Selector: "td[data-table='幣別'] div.print_show"},
		{Name: FieldSpotBuy, Selector: "td[data-table='本行即期買入']"},
		{Name: FieldSpotSell, Selector: "td[data-table='本行即期賣出']"},
	},
}

// StockQuoteSchema reads the quote panel of a stock page.
var StockQuoteSchema = extract.Schema{
	Name:         "stock-quote",
	BaseSelector: "main.main",
	Fields: []extract.Field{
		{Name: FieldQuoteTime, Selector: "time.last-time#lastQuoteTime"},
		{Name: FieldCode, Selector: "span.astock-code[c-model='id']"},
		{Name: FieldName, Selector: "h3.astock-name[c-model='name']"},
		{Name: FieldPrice, Selector: "div.quotes-info div.deal"},
		{Name: FieldChange, Selector: "div.quotes-info span.chg[c-model='change']"},
		{Name: FieldChangeRate, Selector: "div.quotes-info span.chg-rate[c-model='changeRate']"},
		{Name: FieldOpen, Selector: "div.quotes-info div.info-row span[c-model-dazzle='text:open,class:openUpDn']"},
		{Name: FieldHigh, Selector: "div.quotes-info div.info-row span[c-model-dazzle='text:high,class:highUpDn']"},
		{Name: FieldLow, Selector: "div.quotes-info div.info-row span[c-model-dazzle='text:low,class:lowUpDn']"},
		{Name: FieldVolume, Selector: "div.quotes-info div.info-row span[c-model='volume']"},
		{Name: FieldPrevClose, Selector: "div.quotes-info div.info-row span[c-model='previousClose']"},
	},
}

// QuoteReadySelector is visible once a stock page has rendered its price.
const QuoteReadySelector = "div.quotes-info div.deal"

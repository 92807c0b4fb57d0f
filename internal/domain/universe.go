package domain

// Index describes a broad market index tracked by the morning narrative
type Index struct {
	Symbol string
	Name   string
}

// Benchmark symbols
const (
	SP500Symbol      = "^GSPC"
	NasdaqSymbol     = "^IXIC"
	DowSymbol        = "^DJI"
	DefaultBenchmark = "SPY"
)

// MarketIndices are the indices averaged by the morning narrative
var MarketIndices = []Index{
	{Symbol: SP500Symbol, Name: "S&P 500"},
	{Symbol: NasdaqSymbol, Name: "NASDAQ"},
	{Symbol: DowSymbol, Name: "Dow Jones"},
}

// SampleStocks is the default coverage universe
var SampleStocks = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META", "BRK-B",
	"V", "JNJ", "WMT", "JPM", "MA", "PG", "UNH", "DIS", "HD", "BAC",
	"NFLX", "ADBE", "CRM", "INTC", "AMD", "PYPL", "CSCO", "PFE",
}

// BasePrices anchor the synthetic fallback series
var BasePrices = map[string]float64{
	"^GSPC": 4500, "^IXIC": 14000, "^DJI": 35000, "AAPL": 180, "MSFT": 370,
	"GOOGL": 140, "AMZN": 150, "NVDA": 480, "TSLA": 240, "META": 320,
	"BRK-B": 360, "V": 250, "JNJ": 160, "WMT": 160, "JPM": 150, "MA": 400,
	"PG": 150, "UNH": 520, "DIS": 95, "HD": 320, "BAC": 30, "NFLX": 450,
	"ADBE": 550, "CRM": 210, "INTC": 45, "AMD": 140, "PYPL": 60, "CSCO": 50,
	"PFE": 30,
}

// StockNames maps symbols to display names
var StockNames = map[string]string{
	"^GSPC": "S&P 500", "^IXIC": "NASDAQ Composite", "^DJI": "Dow Jones Industrial Average",
	"AAPL": "Apple Inc.", "MSFT": "Microsoft Corporation", "GOOGL": "Alphabet Inc.",
	"AMZN": "Amazon.com Inc.", "NVDA": "NVIDIA Corporation", "TSLA": "Tesla, Inc.",
	"META": "Meta Platforms Inc.", "BRK-B": "Berkshire Hathaway Inc.", "V": "Visa Inc.",
	"JNJ": "Johnson & Johnson", "WMT": "Walmart Inc.", "JPM": "JPMorgan Chase & Co.",
	"MA": "Mastercard Inc.", "PG": "Procter & Gamble Co.", "UNH": "UnitedHealth Group Inc.",
	"DIS": "The Walt Disney Company", "HD": "The Home Depot Inc.", "BAC": "Bank of America Corp.",
	"NFLX": "Netflix Inc.", "ADBE": "Adobe Inc.", "CRM": "Salesforce Inc.",
	"INTC": "Intel Corporation", "AMD": "Advanced Micro Devices Inc.",
	"PYPL": "PayPal Holdings Inc.", "CSCO": "Cisco Systems Inc.", "PFE": "Pfizer Inc.",
}

// NameOf returns the display name for symbol, or the symbol itself
func NameOf(symbol string) string {
	if name, ok := StockNames[symbol]; ok {
		return name
	}
	return symbol
}

// SymbolToSector maps stocks to their sector ETF
var SymbolToSector = map[string]string{
	"AAPL": "XLK", "MSFT": "XLK", "NVDA": "XLK", "AMD": "XLK", "ADBE": "XLK", "CRM": "XLK", "CSCO": "XLK", "INTC": "XLK",
	"GOOGL": "XLC", "META": "XLC", "NFLX": "XLC", "DIS": "XLC",
	"AMZN": "XLY", "TSLA": "XLY", "HD": "XLY", "MCD": "XLY", "NKE": "XLY",
	"JPM": "XLF", "BAC": "XLF", "V": "XLF", "MA": "XLF", "BRK-B": "XLF",
	"UNH": "XLV", "JNJ": "XLV", "PFE": "XLV", "LLY": "XLV", "MRK": "XLV",
	"XOM": "XLE", "CVX": "XLE",
	"PG": "XLP", "WMT": "XLP", "KO": "XLP", "PEP": "XLP",
	"BA": "XLI", "CAT": "XLI", "GE": "XLI", "HON": "XLI",
	"LIN": "XLB", "SHW": "XLB",
	"NEE": "XLU", "DUK": "XLU",
}

// SectorETF pairs a sector ETF with its sector name
type SectorETF struct {
	Symbol string
	Name   string
}

// CoreSectors are the nine SPDR sectors compared by the morning narrative
var CoreSectors = []SectorETF{
	{"XLK", "Technology"}, {"XLF", "Financials"}, {"XLE", "Energy"},
	{"XLV", "Healthcare"}, {"XLI", "Industrials"}, {"XLP", "Staples"},
	{"XLU", "Utilities"}, {"XLY", "Discretionary"}, {"XLB", "Materials"},
}

// RotationSectors extends CoreSectors with communication and real estate
var RotationSectors = append(append([]SectorETF{}, CoreSectors...),
	SectorETF{"XLC", "Communication"},
	SectorETF{"IYR", "Real Estate"},
)

// SectorName returns the sector name for an ETF symbol, or "Unknown"
func SectorName(etf string) string {
	for _, s := range RotationSectors {
		if s.Symbol == etf {
			return s.Name
		}
	}
	return "Unknown"
}

// SectorOf returns the sector name of a stock and whether it is mapped
func SectorOf(symbol string) (string, bool) {
	etf, ok := SymbolToSector[symbol]
	if !ok {
		return "", false
	}
	return SectorName(etf), true
}

// Universe returns a copy of the default coverage universe
func Universe() []string {
	return append([]string(nil), SampleStocks...)
}

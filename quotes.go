package mahfaza

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// FilePriceSource reads quotes from a JSON file maintained by an
// external feed, a flat object of symbol to price:
//
//	{"2222": 27.25, "1120": 98.4}
//
// The file is re-read on every quote so a feed can rewrite it at any
// moment. The file's modification time is reported as the quote
// timestamp.
type FilePriceSource struct {
	Path string
}

// Quote implements the PriceSource interface.
func (s FilePriceSource) Quote(_ context.Context, symbol string) (Quote, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Quote{}, fmt.Errorf("reading price file: %w", err)
	}
	var prices map[string]decimal.Decimal
	if err := json.Unmarshal(data, &prices); err != nil {
		return Quote{}, fmt.Errorf("parsing price file %s: %w", s.Path, err)
	}
	price, ok := prices[normalizeSymbol(symbol)]
	if !ok {
		return Quote{}, fmt.Errorf("symbol %s: %w", symbol, ErrNotFound)
	}
	ts := time.Now()
	if info, err := os.Stat(s.Path); err == nil {
		ts = info.ModTime()
	}
	return Quote{Symbol: symbol, Price: M(price), Timestamp: ts}, nil
}

package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Symbol is one entry of the exchange symbol list.
type Symbol struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Exchange derives the listing exchange from the ticker suffix.
func (s Symbol) Exchange() string {
	switch {
	case strings.HasSuffix(s.Symbol, ".NS"):
		return "NSE"
	case strings.HasSuffix(s.Symbol, ".BO"):
		return "BSE"
	}
	return ""
}

// SymbolList is the set of instruments the bot offers for analysis.
type SymbolList struct {
	Symbols []Symbol
}

func LoadSymbols(path string) (*SymbolList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbols: %w", err)
	}
	defer f.Close()
	return ParseSymbols(f)
}

func ParseSymbols(r io.Reader) (*SymbolList, error) {
	var symbols []Symbol
	if err := json.NewDecoder(r).Decode(&symbols); err != nil {
		return nil, fmt.Errorf("decode symbols: %w", err)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbol list is empty")
	}
	return &SymbolList{Symbols: symbols}, nil
}

// ForExchange returns symbols listed on "NSE" or "BSE", in file order.
func (l *SymbolList) ForExchange(exchange string) []Symbol {
	exchange = strings.ToUpper(exchange)
	var out []Symbol
	for _, s := range l.Symbols {
		if s.Exchange() == exchange {
			out = append(out, s)
		}
	}
	return out
}

// Search matches query case-insensitively against ticker and company name.
func (l *SymbolList) Search(query string) []Symbol {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Symbol
	for _, s := range l.Symbols {
		if strings.Contains(strings.ToLower(s.Symbol), q) || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

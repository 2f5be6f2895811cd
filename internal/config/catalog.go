package config

import (
	"fmt"
	"os"

	"github.com/efreitasn/papertrade/internal/domain"
	"gopkg.in/yaml.v3"
)

// CatalogFile is the YAML layout of a catalog override:
//
//	instruments:
//	  - symbol: AAPL
//	    price: "150.00"
type CatalogFile struct {
	Instruments []InstrumentConfig `yaml:"instruments"`
}

// InstrumentConfig is one instrument entry. Price is a string so that it
// is parsed as an exact decimal.
type InstrumentConfig struct {
	Symbol string `yaml:"symbol"`
	Price  string `yaml:"price"`
}

// LoadCatalog reads a YAML catalog file and expands ${VAR} environment
// variables before parsing.
func LoadCatalog(path string) ([]domain.Instrument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses catalog YAML into instruments.
func ParseCatalog(data []byte) ([]domain.Instrument, error) {
	expanded := os.ExpandEnv(string(data))

	var file CatalogFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(file.Instruments) == 0 {
		return nil, fmt.Errorf("catalog has no instruments")
	}

	instruments := make([]domain.Instrument, 0, len(file.Instruments))
	for i, ic := range file.Instruments {
		price, err := domain.ParseMoney(ic.Price)
		if err != nil {
			return nil, fmt.Errorf("instrument %d (%s): invalid price %q: %w", i, ic.Symbol, ic.Price, err)
		}
		instruments = append(instruments, domain.Instrument{Symbol: ic.Symbol, Price: price})
	}
	return instruments, nil
}

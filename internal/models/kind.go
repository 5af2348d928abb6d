package models

// Kind identifies one of the record kinds fetched per symbol.
type Kind int

const (
	Dividends Kind = iota
	Splits
	CapitalGains
	Prices
)

// String returns the console label for the kind.
func (k Kind) String() string {
	switch k {
	case Dividends:
		return "dividends"
	case Splits:
		return "splits"
	case CapitalGains:
		return "capital gains"
	case Prices:
		return "prices"
	default:
		return "unknown"
	}
}

// Column returns the value column name used for the kind's event table.
func (k Kind) Column() string {
	switch k {
	case Dividends:
		return "dividend"
	case Splits:
		return "split_ratio"
	case CapitalGains:
		return "capital_gains"
	default:
		return ""
	}
}

// FileStem returns the filename fragment for the kind. Price filenames also
// carry the interval and an actions suffix, which the sink appends.
func (k Kind) FileStem() string {
	switch k {
	case Dividends:
		return "dividends"
	case Splits:
		return "splits"
	case CapitalGains:
		return "capital_gains"
	case Prices:
		return "prices"
	default:
		return "unknown"
	}
}

// EventKinds lists the sparse event kinds, in processing order.
var EventKinds = []Kind{Dividends, Splits, CapitalGains}

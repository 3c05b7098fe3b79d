package catalog

import "strings"

// NumberOption is one purchasable phone number in the voice-channel picker.
type NumberOption struct {
	Number    string
	AreaCode  string
	TollFree  bool
	Price     string
	Type      string
	Available bool
}

// NumberFilter selects a subset of the number pool.
type NumberFilter struct {
	TollFreeOnly bool
	LocalOnly    bool
	Query        string // matched against number, area code and type
}

var numbers = []NumberOption{
	{Number: "+1 (415) 555-0132", AreaCode: "415", TollFree: false, Price: "$1.00/mo", Type: "local", Available: true},
	{Number: "+1 (415) 555-0188", AreaCode: "415", TollFree: false, Price: "$1.00/mo", Type: "local", Available: true},
	{Number: "+1 (628) 555-0104", AreaCode: "628", TollFree: false, Price: "$1.00/mo", Type: "local", Available: true},
	{Number: "+1 (212) 555-0147", AreaCode: "212", TollFree: false, Price: "$1.50/mo", Type: "local", Available: true},
	{Number: "+1 (312) 555-0196", AreaCode: "312", TollFree: false, Price: "$1.00/mo", Type: "local", Available: false},
	{Number: "+1 (800) 555-0199", AreaCode: "800", TollFree: true, Price: "$2.00/mo", Type: "toll-free", Available: true},
	{Number: "+1 (833) 555-0126", AreaCode: "833", TollFree: true, Price: "$2.00/mo", Type: "toll-free", Available: true},
	{Number: "+1 (888) 555-0150", AreaCode: "888", TollFree: true, Price: "$2.50/mo", Type: "toll-free", Available: true},
}

// Numbers returns a copy of the full number pool.
func Numbers() []NumberOption {
	out := make([]NumberOption, len(numbers))
	copy(out, numbers)
	return out
}

// FilterNumbers applies f to the pool and returns matching options in
// catalog order.
func FilterNumbers(f NumberFilter) []NumberOption {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []NumberOption
	for _, n := range numbers {
		if f.TollFreeOnly && !n.TollFree {
			continue
		}
		if f.LocalOnly && n.TollFree {
			continue
		}
		if q != "" {
			hay := strings.ToLower(n.Number + " " + n.AreaCode + " " + n.Type)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

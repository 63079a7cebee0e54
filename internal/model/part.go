package model

// Priority weights for parts. A part whose demand exceeds its current stock
// must be produced; anything else only tops up stock.
const (
	PriorityHigh = 10
	PriorityLow  = 1
)

// Part represents one orderable flat pattern in the catalog.
type Part struct {
	ItemCode       string  `json:"item_code"`
	Name           string  `json:"name"`
	Thickness      float64 `json:"thickness"`       // mm
	UnrolledLength float64 `json:"unrolled_length"` // mm consumed along the sheet per unit
	RawWidth       float64 `json:"raw_width"`       // mm, grouping key only
	CurrentStock   int     `json:"current_stock"`
	MaxStock       int     `json:"max_stock"`
	Demand         int     `json:"demand"`
}

// Priority returns PriorityHigh when demand is not covered by stock.
func (p Part) Priority() int {
	if p.Demand > p.CurrentStock {
		return PriorityHigh
	}
	return PriorityLow
}

// Shortfall returns the units that must be produced to meet demand.
func (p Part) Shortfall() int {
	return maxInt(0, p.Demand-p.CurrentStock)
}

// Headroom returns the units that may additionally be produced without
// exceeding the stock ceiling.
func (p Part) Headroom() int {
	return maxInt(0, p.MaxStock-p.CurrentStock-p.Shortfall())
}

// AllowedQuantity is the most units of this part any pattern may contain.
// When demand exceeds MaxStock the full shortfall is still allowed.
func (p Part) AllowedQuantity() int {
	return p.Shortfall() + p.Headroom()
}

// GroupKey returns the (thickness, raw width) pair parts are nested by.
func (p Part) GroupKey() GroupKey {
	return GroupKey{Thickness: p.Thickness, RawWidth: p.RawWidth}
}

// GroupKey identifies parts that can share the same raw sheet.
type GroupKey struct {
	Thickness float64 `json:"thickness"`
	RawWidth  float64 `json:"raw_width"`
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

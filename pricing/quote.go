package pricing

import "campuseats/models"

// Quote is the resolved price of a customization.
type Quote struct {
	BasePrice float64                `json:"basePrice"`
	Size      *models.SizeOption     `json:"size,omitempty"`
	Addons    []models.AddonOption   `json:"addons"`
	Removals  []models.RemovalOption `json:"removals"`
	Quantity  int                    `json:"quantity"`
	UnitPrice float64                `json:"unitPrice"`
	Total     float64                `json:"total"`
	Display   string                 `json:"display"`
	// Unknown holds option ids that were not found in the catalog and were priced at zero.
	Unknown []string `json:"unknown,omitempty"`
}

// Quote resolves the option ids of c against the catalog and prices the result.
// Unknown ids contribute nothing and are reported in Quote.Unknown.
func (cat *Catalog) Quote(c models.Customization) Quote {
	q := Quote{
		BasePrice: c.BasePrice,
		Addons:    []models.AddonOption{},
		Removals:  []models.RemovalOption{},
		Quantity:  ClampQuantity(c.Quantity),
	}

	if c.SizeID != "" {
		if s, ok := cat.LookupSize(c.SizeID); ok {
			q.Size = &s
		} else {
			q.Unknown = append(q.Unknown, c.SizeID)
		}
	}
	for _, id := range c.AddonIDs {
		if a, ok := cat.LookupAddon(id); ok {
			q.Addons = append(q.Addons, a)
		} else {
			q.Unknown = append(q.Unknown, id)
		}
	}
	for _, id := range c.RemovalIDs {
		if r, ok := cat.LookupRemoval(id); ok {
			q.Removals = append(q.Removals, r)
		} else {
			q.Unknown = append(q.Unknown, id)
		}
	}

	q.UnitPrice = UnitPrice(q.BasePrice, q.Size, q.Addons)
	q.Total = ComputeTotal(q.BasePrice, q.Size, q.Addons, q.Quantity)
	q.Display = FormatPrice(q.Total)
	return q
}

package model

import "telegram-pix-vip/internal/domain"

// Plan is a purchasable VIP access window with a fixed price in BRL.
type Plan struct {
	Key      string
	Name     string
	PriceBRL float64
}

func (p Plan) IsZero() bool { return p.Key == "" }

// PlanCatalog is the immutable set of plans the bot offers. It is built once
// at startup and never mutated afterwards; lookups are safe from any goroutine.
type PlanCatalog struct {
	plans map[string]Plan
	order []string
}

// NewPlanCatalog validates and constructs a catalog preserving menu order.
func NewPlanCatalog(plans []Plan) (*PlanCatalog, error) {
	if len(plans) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	c := &PlanCatalog{plans: make(map[string]Plan, len(plans))}
	for _, p := range plans {
		if p.Key == "" || p.Name == "" || p.PriceBRL <= 0 {
			return nil, domain.ErrInvalidArgument
		}
		if _, dup := c.plans[p.Key]; dup {
			return nil, domain.ErrAlreadyExists
		}
		c.plans[p.Key] = p
		c.order = append(c.order, p.Key)
	}
	return c, nil
}

// DefaultPlanCatalog returns the VIP plans sold by the bot.
func DefaultPlanCatalog() *PlanCatalog {
	c, _ := NewPlanCatalog([]Plan{
		{Key: "1mes", Name: "1 Mês", PriceBRL: 23.90},
		{Key: "3meses", Name: "3 Meses", PriceBRL: 44.70},
		{Key: "12meses", Name: "12 Meses", PriceBRL: 178.00},
	})
	return c
}

// Find returns the plan for key or domain.ErrNotFound.
func (c *PlanCatalog) Find(key string) (Plan, error) {
	p, ok := c.plans[key]
	if !ok {
		return Plan{}, domain.ErrNotFound
	}
	return p, nil
}

// List returns plans in menu order.
func (c *PlanCatalog) List() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.plans[k])
	}
	return out
}

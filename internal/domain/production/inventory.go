package production

import "sort"

// Inventory counts items held by a building. Counts are never negative and an item that
// reaches zero is removed.
type Inventory map[string]int

func NewInventory() Inventory {
	return make(Inventory)
}

func (inv Inventory) Add(item string, quantity int) {
	if quantity <= 0 {
		return
	}
	inv[item] += quantity
}

func (inv Inventory) Count(item string) int {
	return inv[item]
}

// Consume removes quantity units of item, dropping the entry once it is exhausted
func (inv Inventory) Consume(item string, quantity int) {
	left := inv[item] - quantity
	if left <= 0 {
		delete(inv, item)
		return
	}
	inv[item] = left
}

// Covers reports whether every ingredient is held in the required quantity
func (inv Inventory) Covers(ingredients []Ingredient) bool {
	for _, ing := range ingredients {
		if inv[ing.Name] < ing.Quantity {
			return false
		}
	}
	return true
}

// Missing returns the shortfall per ingredient, in recipe order
func (inv Inventory) Missing(ingredients []Ingredient) []Ingredient {
	var out []Ingredient
	for _, ing := range ingredients {
		if have := inv[ing.Name]; have < ing.Quantity {
			out = append(out, Ingredient{Name: ing.Name, Quantity: ing.Quantity - have})
		}
	}
	return out
}

// Items returns item names sorted alphabetically
func (inv Inventory) Items() []string {
	out := make([]string, 0, len(inv))
	for item := range inv {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

package items

// AddItem adds an item to a collection
func AddItem(items *[]*Item, item *Item) {
	*items = append(*items, item)
}

// RemoveItemByID removes the first item with the given template ID
func RemoveItemByID(items *[]*Item, id string) (*Item, bool) {
	for i, item := range *items {
		if item.ID == id {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return item, true
		}
	}
	return nil, false
}

// CountByID returns how many units of a template are in a collection
func CountByID(items []*Item, id string) int {
	count := 0
	for _, item := range items {
		if item.ID == id {
			count++
		}
	}
	return count
}

// GetTotalWeight calculates the total weight of all items in a collection
func GetTotalWeight(items []*Item) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Weight
	}
	return total
}

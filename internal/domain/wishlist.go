package domain

// Wishlist is an ordered set of product snapshots, at most one per product
// id. Toggle is the only mutation primitive; toggling the same product twice
// returns the set to its prior membership.
type Wishlist struct {
	Items []Product `json:"items"`
}

// Contains reports membership of the given product id.
func (w *Wishlist) Contains(id string) bool {
	return w.indexOf(id) >= 0
}

// Toggle removes the product if present, inserts a snapshot if absent.
// It reports whether the product is a member after the call.
func (w *Wishlist) Toggle(p Product) bool {
	if i := w.indexOf(p.ID); i >= 0 {
		w.Items = append(w.Items[:i], w.Items[i+1:]...)
		return false
	}
	w.Items = append(w.Items, p)
	return true
}

// Remove deletes the product with the given id if present.
func (w *Wishlist) Remove(id string) {
	if i := w.indexOf(id); i >= 0 {
		w.Items = append(w.Items[:i], w.Items[i+1:]...)
	}
}

func (w *Wishlist) indexOf(id string) int {
	for i := range w.Items {
		if w.Items[i].ID == id {
			return i
		}
	}
	return -1
}

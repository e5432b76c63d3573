package store

import "time"

// Favorites manages the saved-products list on top of a Repository.
type Favorites struct {
	repo Repository[Favorite]
}

func NewFavorites(repo Repository[Favorite]) *Favorites {
	return &Favorites{repo: repo}
}

func (f *Favorites) List() ([]Favorite, error) {
	return f.repo.Load()
}

// Add saves the product unless a favorite with the same product URL
// already exists. Reports whether the list changed.
func (f *Favorites) Add(fav Favorite) (bool, error) {
	items, err := f.repo.Load()
	if err != nil {
		return false, err
	}
	for _, existing := range items {
		if existing.Product.ProductURL == fav.Product.ProductURL {
			return false, nil
		}
	}
	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now()
	}
	return true, f.repo.Save(append(items, fav))
}

// Remove deletes the favorite with the given product URL. Reports whether
// anything was removed.
func (f *Favorites) Remove(productURL string) (bool, error) {
	items, err := f.repo.Load()
	if err != nil {
		return false, err
	}
	kept := items[:0]
	for _, fav := range items {
		if fav.Product.ProductURL != productURL {
			kept = append(kept, fav)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	return true, f.repo.Save(kept)
}

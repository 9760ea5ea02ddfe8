package store

import "context"

// Seed loads the sample catalog used when the service starts with an
// empty store. Products land with ids 1 and 2.
func Seed(ctx context.Context, s Store) error {
	samples := []NewProduct{
		{
			Name:        "Classic Leather Wallet",
			Description: "Handcrafted genuine leather bifold wallet with multiple card slots",
			Price:       79.99,
			Images: []string{
				"https://images.unsplash.com/photo-1627123424574-724758594e93",
				"https://images.unsplash.com/photo-1627123424574-724758594e94",
			},
			Stock:    50,
			Category: "Wallets",
		},
		{
			Name:        "Leather Messenger Bag",
			Description: "Premium leather messenger bag perfect for daily use",
			Price:       299.99,
			Images: []string{
				"https://images.unsplash.com/photo-1473188588951-666fce8e7c68",
				"https://images.unsplash.com/photo-1473188588951-666fce8e7c69",
			},
			Stock:    25,
			Category: "Bags",
		},
	}

	for _, sample := range samples {
		if _, err := s.CreateProduct(ctx, sample); err != nil {
			return err
		}
	}
	return nil
}

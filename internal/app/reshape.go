package app

import "github.com/aaron-ardell/Amazon-Vine-Analysis/internal/domain"

// Reshape projects the source rows into the four derived tables. One pass,
// deterministic: when a product_id appears with different titles, the first
// occurrence in source order wins; customer activity keeps first-seen order.
func Reshape(reviews []domain.Review) domain.Tables {
	t := domain.Tables{
		ReviewRecords: make([]domain.ReviewRecord, 0, len(reviews)),
		VineRecords:   make([]domain.VineRecord, 0, len(reviews)),
	}

	seenProduct := make(map[string]struct{})
	customerCount := make(map[int64]int64)
	var customerOrder []int64

	for _, r := range reviews {
		t.ReviewRecords = append(t.ReviewRecords, domain.ReviewRecord{
			ReviewID:      r.ReviewID,
			CustomerID:    r.CustomerID,
			ProductID:     r.ProductID,
			ProductParent: r.ProductParent,
			ReviewDate:    r.ReviewDate,
		})
		t.VineRecords = append(t.VineRecords, domain.VineRecord{
			ReviewID:         r.ReviewID,
			StarRating:       r.StarRating,
			HelpfulVotes:     r.HelpfulVotes,
			TotalVotes:       r.TotalVotes,
			Vine:             r.Vine,
			VerifiedPurchase: r.VerifiedPurchase,
		})

		if _, ok := seenProduct[r.ProductID]; !ok {
			seenProduct[r.ProductID] = struct{}{}
			t.Products = append(t.Products, domain.Product{
				ProductID:    r.ProductID,
				ProductTitle: r.ProductTitle,
			})
		}

		if _, ok := customerCount[r.CustomerID]; !ok {
			customerOrder = append(customerOrder, r.CustomerID)
		}
		customerCount[r.CustomerID]++
	}

	t.Customers = make([]domain.CustomerActivity, 0, len(customerOrder))
	for _, id := range customerOrder {
		t.Customers = append(t.Customers, domain.CustomerActivity{
			CustomerID:    id,
			CustomerCount: customerCount[id],
		})
	}
	return t
}

package domain

import "time"

// Review is one source row after projection. The raw dataset carries 15
// columns; marketplace, product_category, review_headline and review_body are
// dropped during decode.
type Review struct {
	ReviewID         string
	CustomerID       int64
	ProductID        string
	ProductParent    int64
	ProductTitle     string
	ReviewDate       time.Time
	StarRating       int
	HelpfulVotes     int
	TotalVotes       int
	Vine             string // "Y" or "N" in clean data
	VerifiedPurchase string
}

type ReviewRecord struct {
	ReviewID      string
	CustomerID    int64
	ProductID     string
	ProductParent int64
	ReviewDate    time.Time
}

type Product struct {
	ProductID    string
	ProductTitle string
}

// CustomerActivity counts how many reviews a customer wrote. Summed over all
// customers it reconciles to the source row count.
type CustomerActivity struct {
	CustomerID    int64
	CustomerCount int64
}

type VineRecord struct {
	ReviewID         string
	StarRating       int
	HelpfulVotes     int
	TotalVotes       int
	Vine             string
	VerifiedPurchase string
}

// Tables holds the four derived tables produced by one reshape pass.
type Tables struct {
	ReviewRecords []ReviewRecord
	Products      []Product
	Customers     []CustomerActivity
	VineRecords   []VineRecord
}

// SourceStats describes one decode pass over the raw dataset.
type SourceStats struct {
	RowsRead    int // rows that made it into the Review slice
	RowsDropped int // rows skipped under the drop date policy
}

package mysql

// Table names double as error context: every failed statement is wrapped with
// the table it targeted.
const (
	TableReviewID  = "review_id_table"
	TableProducts  = "products_table"
	TableCustomers = "customers_table"
	TableVine      = "vine_table"
)

// Plain INSERTs on purpose: the pipeline recomputes every table per run, so a
// duplicate primary key means corrupt input and the run must fail fast.
const (
	insertReviewRecordsPrefix = "INSERT INTO review_id_table\n" +
		"  (review_id, customer_id, product_id, product_parent, review_date)\nVALUES "

	insertProductsPrefix = "INSERT INTO products_table\n" +
		"  (product_id, product_title)\nVALUES "

	insertCustomersPrefix = "INSERT INTO customers_table\n" +
		"  (customer_id, customer_count)\nVALUES "

	insertVinePrefix = "INSERT INTO vine_table\n" +
		"  (review_id, star_rating, helpful_votes, total_votes, vine, verified_purchase)\nVALUES "
)

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Vote threshold applied in SQL so the report service never pulls the
// unvoted long tail across the wire.
const listVotedVineSQL = `
SELECT
  review_id,
  star_rating,
  helpful_votes,
  total_votes,
  vine,
  verified_purchase
FROM vine_table
WHERE total_votes >= ?
ORDER BY review_id
`

package ledger

const (
	selectCategories = `SELECT id, name FROM categories ORDER BY name`

	selectKeywords = `SELECT category_id, name FROM keywords ORDER BY category_id, name`

	selectCategoryID = `SELECT id FROM categories WHERE lower(name) = lower(?)`

	insertCategory = `INSERT INTO categories (name) VALUES (?) RETURNING id`

	insertKeyword = `INSERT INTO keywords (name, category_id) VALUES (?, ?) RETURNING id`

	selectCategoryKeywords = `SELECT name FROM keywords WHERE category_id = ?`

	selectKeywordList = `SELECT k.id, k.name, c.name
FROM keywords k
JOIN categories c ON k.category_id = c.id`

	insertTransaction = `INSERT INTO transactions (date, description, check_ref, credit, debit)
VALUES (?, ?, ?, ?, ?)`

	selectTransactions = `SELECT id, date, description, check_ref, credit, debit FROM transactions`
)

package engine

// Schema DDL executed at bootstrap. Initial table creation only; there is no
// migration engine beyond this.
const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	pin_hash TEXT NOT NULL,
	salt TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	createCategories = `CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
	color TEXT NOT NULL,
	icon TEXT NOT NULL,
	is_default BOOLEAN NOT NULL DEFAULT 0,
	user_id INTEGER REFERENCES users(id),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	createTransactions = `CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	amount REAL NOT NULL CHECK (amount > 0),
	type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
	category_id INTEGER NOT NULL REFERENCES categories(id),
	description TEXT,
	date TEXT NOT NULL,
	user_id INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	createSettings = `CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER UNIQUE NOT NULL REFERENCES users(id),
	currency TEXT NOT NULL,
	currency_symbol TEXT NOT NULL,
	theme TEXT NOT NULL,
	language TEXT NOT NULL,
	date_format TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	createRecentTransactionsView = `CREATE VIEW IF NOT EXISTS recent_transactions AS
	SELECT
		t.id,
		t.amount,
		t.type,
		t.description,
		t.date,
		t.user_id,
		t.created_at,
		c.name AS category_name,
		c.color AS category_color,
		c.icon AS category_icon
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	ORDER BY t.date DESC, t.created_at DESC, t.id DESC`

	createCategoryTotalsView = `CREATE VIEW IF NOT EXISTS category_totals AS
	SELECT
		c.id AS category_id,
		c.name AS category_name,
		c.type AS category_type,
		c.color,
		c.icon,
		c.user_id,
		COALESCE(SUM(t.amount), 0) AS total,
		COUNT(t.id) AS transaction_count
	FROM categories c
	LEFT JOIN transactions t ON t.category_id = c.id
	GROUP BY c.id`
)

// bootstrapStatements run in order on a fresh database.
var bootstrapStatements = []string{
	createUsers,
	createCategories,
	createTransactions,
	createSettings,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(user_id)`,
	createRecentTransactionsView,
	createCategoryTotalsView,
}

// tableNames in foreign-key dependency order, used when copying rows out of
// a restored image and when resetting the database.
var tableNames = []string{"users", "categories", "transactions", "settings"}

// viewNames dropped and recreated on reset.
var viewNames = []string{"recent_transactions", "category_totals"}

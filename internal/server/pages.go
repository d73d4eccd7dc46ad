package server

import (
	"html/template"
	"net/http"
)

// Page is one app-shell entry. Every page here should also appear in the
// offline controller's shell manifest so it stays reachable offline.
type Page struct {
	Path  string
	Title string
	Body  string
}

var shellPages = []Page{
	{Path: "/", Title: "Centavo", Body: "Local-first personal finance."},
	{Path: "/dashboard", Title: "Dashboard", Body: "Balance, recent activity and monthly trends."},
	{Path: "/transactions", Title: "Transactions", Body: "Record and review income and expenses."},
	{Path: "/categories", Title: "Categories", Body: "Organize transactions by category."},
	{Path: "/reports", Title: "Reports", Body: "Summaries, monthly comparison and category breakdown."},
	{Path: "/settings", Title: "Settings", Body: "Currency, theme and display preferences."},
	{Path: "/offline", Title: "Offline", Body: "You are offline. Previously loaded data is still available."},
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · Centavo</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Body}}</p>
</body>
</html>
`))

func (s *Server) servePage(page Page) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, page); err != nil {
			s.logger.Error("failed to render page", "path", page.Path, "error", err)
		}
	}
}

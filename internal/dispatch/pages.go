package dispatch

import (
	"fmt"
	"net/http"
)

// Static error documents.  They carry no tenant data, so a denied or
// missing page reveals nothing about the record behind it.
type errorPage struct {
	Title   string
	Message string
}

var (
	pageNotFound = errorPage{
		Title:   "Page not found",
		Message: "There is no page at this address.",
	}
	pagePrivate = errorPage{
		Title:   "This page is private",
		Message: "You do not have permission to view this page.",
	}
	pageServerError = errorPage{
		Title:   "Something went wrong",
		Message: "We could not load this page.  Please try again in a moment.",
	}
)

func writeErrorPage(w http.ResponseWriter, status int, p errorPage) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", dynamicCacheControl)
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title></head>
<body><main><h1>%s</h1><p>%s</p></main></body>
</html>
`, p.Title, p.Title, p.Message)
}

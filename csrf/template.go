package csrf

import (
	"html/template"
	"net/http"
)

// FuncMap exposes the render helper to html/template as "csrf":
//
//	<form method="post" action="/transfer">
//	  <input type="hidden" name="_csrf" value="{{ csrf "/transfer" }}">
//	</form>
//
// Outside of Protect the helper returns an error, which aborts execution.
func FuncMap(r *http.Request) template.FuncMap {
	return template.FuncMap{
		"csrf": func(url string) (string, error) {
			return Token(r, url)
		},
	}
}

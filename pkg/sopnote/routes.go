package sopnote

import "strings"

// Page identifies which view a hash fragment navigates to.
type Page string

const (
	PageHome     Page = "home"
	PageView     Page = "view"
	PageEdit     Page = "edit"
	PageAdmin    Page = "admin"
	PageNotFound Page = "not_found"
)

// Route is a parsed hash fragment.
type Route struct {
	Page Page
	// SOPID is set for PageView and PageEdit.
	SOPID string
}

// ParseRoute maps a location hash to its page. Recognized fragments are
// "#/", "#/sop/{id}", "#/sop/{id}/edit", and "#/admin"; anything else
// resolves to the not-found page. An empty hash is the home page.
func ParseRoute(hash string) Route {
	path := strings.TrimPrefix(hash, "#")
	path = strings.Trim(path, "/")
	if path == "" {
		return Route{Page: PageHome}
	}

	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1 && parts[0] == "admin":
		return Route{Page: PageAdmin}
	case len(parts) == 2 && parts[0] == "sop" && parts[1] != "":
		return Route{Page: PageView, SOPID: parts[1]}
	case len(parts) == 3 && parts[0] == "sop" && parts[1] != "" && parts[2] == "edit":
		return Route{Page: PageEdit, SOPID: parts[1]}
	}
	return Route{Page: PageNotFound}
}

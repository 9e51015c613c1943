package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth     = RouteApiV1 + "/auth"
	RouteRegister = RouteAuth + "/register"
	RouteLogin    = RouteAuth + "/login"
	RouteLogout   = RouteAuth + "/logout"
	RouteProfile  = RouteAuth + "/profile"

	// users (admin)
	RouteUsers           = RouteApiV1 + "/users"
	RouteUser            = RouteUsers + "/:user_id"
	RouteUserToggleAdmin = RouteUser + "/toggle-admin"

	// files
	RouteFiles        = RouteApiV1 + "/files"
	RouteFile         = RouteFiles + "/:file_id"
	RouteFileRename   = RouteFile + "/rename"
	RouteFileComment  = RouteFile + "/comment"
	RouteFileDownload = RouteFile + "/download"
	RouteFileByLink   = RouteFiles + "/special/:special_link"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)

// SpecialLinkPath is the public download path for a special link.
func SpecialLinkPath(link string) string {
	return RouteFiles + "/special/" + link
}

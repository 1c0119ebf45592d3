package rest

const (
	// api
	RouteApi = "/api"

	RouteUsers       = RouteApi + "/users"
	RouteUsersExport = RouteUsers + "/export"
	RouteUser        = RouteUsers + "/:id"
	RouteUserStatus  = RouteUser + "/status"
	RouteUserProfile = RouteUser + "/profile"

	// ops
	RouteHealth  = RouteApi + "/healthz"
	RouteMetrics = RouteApi + "/metrics"
)

package router

import (
	"net/http"

	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// APIPrefix is where every resource is mounted
const APIPrefix = "/api/v1"

// Route binds a handler to a method and path. A non-empty Permission puts
// a RequirePermission check ahead of the handler.
type Route struct {
	Method     string
	Path       string
	Permission string
	Handler    gin.HandlerFunc
}

// Resource is the set of routes served under one path prefix
type Resource struct {
	prefix string
	guards []gin.HandlerFunc
	routes []Route
}

// NewResource starts a resource. guards run before every route of it.
func NewResource(prefix string, guards ...gin.HandlerFunc) *Resource {
	return &Resource{prefix: prefix, guards: guards}
}

func (r *Resource) GET(path, permission string, h gin.HandlerFunc) *Resource {
	return r.Handle(http.MethodGet, path, permission, h)
}

func (r *Resource) POST(path, permission string, h gin.HandlerFunc) *Resource {
	return r.Handle(http.MethodPost, path, permission, h)
}

func (r *Resource) PUT(path, permission string, h gin.HandlerFunc) *Resource {
	return r.Handle(http.MethodPut, path, permission, h)
}

func (r *Resource) DELETE(path, permission string, h gin.HandlerFunc) *Resource {
	return r.Handle(http.MethodDelete, path, permission, h)
}

func (r *Resource) Handle(method, path, permission string, h gin.HandlerFunc) *Resource {
	r.routes = append(r.routes, Route{Method: method, Path: path, Permission: permission, Handler: h})
	return r
}

func (r *Resource) Prefix() string { return r.prefix }

func (r *Resource) Routes() []Route { return r.routes }

func (r *Resource) mount(rg *gin.RouterGroup) {
	group := rg.Group(r.prefix, r.guards...)
	for _, route := range r.routes {
		chain := []gin.HandlerFunc{route.Handler}
		if route.Permission != "" {
			chain = []gin.HandlerFunc{middleware.RequirePermission(route.Permission), route.Handler}
		}
		group.Handle(route.Method, route.Path, chain...)
	}
}

// Mount registers the resources under APIPrefix
func Mount(engine *gin.Engine, resources ...*Resource) {
	api := engine.Group(APIPrefix)
	for _, r := range resources {
		r.mount(api)
	}
}

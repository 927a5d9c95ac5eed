package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/hexforge/blogdeck/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)

	// user account lifecycle
	router.HandlerFunc(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/activate", app.activateUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))

	// public browsing
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/posts", app.listBlogPostsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id", app.getPostHandler)

	// blogger content management
	router.HandlerFunc(http.MethodGet, "/v1/blogger/blogs", app.requirePermission(app.listOwnBlogsHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPost, "/v1/blogger/blogs", app.requirePermission(app.createBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPut, "/v1/blogger/blogs/:id", app.requirePermission(app.updateBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodDelete, "/v1/blogger/blogs/:id", app.requirePermission(app.deleteBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPost, "/v1/blogger/blogs/:id/posts", app.requirePermission(app.createPostHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPut, "/v1/blogger/blogs/:id/posts/:postId", app.requirePermission(app.updatePostHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodDelete, "/v1/blogger/blogs/:id/posts/:postId", app.requirePermission(app.deletePostHandler, userservice.PermissionWriteBlog))

	// super-admin moderation
	router.HandlerFunc(http.MethodGet, "/v1/sa/users", app.requireAdmin(app.listUsersHandler))
	router.HandlerFunc(http.MethodPost, "/v1/sa/users", app.requireAdmin(app.createUserHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/sa/users/:id", app.requireAdmin(app.deleteUserHandler))
	router.HandlerFunc(http.MethodPut, "/v1/sa/users/:id/ban", app.requireAdmin(app.banUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/sa/blogs", app.requireAdmin(app.listBlogsAdminHandler))
	router.HandlerFunc(http.MethodPut, "/v1/sa/blogs/:id/ban", app.requireAdmin(app.banBlogHandler))

	if app.config.Environment != "production" {
		router.HandlerFunc(http.MethodDelete, "/v1/testing/all-data", app.deleteAllDataHandler)
	}

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}

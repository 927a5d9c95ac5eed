package main

import "net/http"

// deleteAllDataHandler wipes every table so end-to-end test suites can
// start from a clean slate. The route is not registered in production.
func (app *application) deleteAllDataHandler(w http.ResponseWriter, r *http.Request) {
	_, err := app.db.ExecContext(r.Context(), "TRUNCATE users, tokens, auth_tokens, users_permissions, blogs, posts CASCADE")
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.blogService.FlushCache()

	w.WriteHeader(http.StatusNoContent)
}

package routes

import (
	"net/http"
	"time"

	"github.com/billow-homes/homes-api/controllers"
	"github.com/billow-homes/homes-api/middleware"
	"github.com/billow-homes/homes-api/uploads"
	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
)

type Options struct {
	Homes  controllers.HomeDeps
	JWTKey []byte
	Health map[string]controllers.Pinger

	// UploadDir is served under /uploads/ when set.
	UploadDir          string
	RateLimitPerMinute int
}

func Routes(router *mux.Router, opts Options) {
	router.Use(middleware.Recover, middleware.Logging)
	if opts.RateLimitPerMinute > 0 {
		router.Use(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
	}

	router.HandleFunc("/health", controllers.Health(5*time.Second, opts.Health)).Methods("GET")

	// Public home routes. search is registered ahead of {id}.
	router.HandleFunc("/homes", controllers.GetHomes(opts.Homes)).Methods("GET")
	router.HandleFunc("/homes/search/{term}", controllers.SearchHomes(opts.Homes)).Methods("GET")

	// Routes that require authentication
	authenticated := router.PathPrefix("/homes").Subrouter()
	authenticated.Use(middleware.Auth(opts.JWTKey))
	authenticated.HandleFunc("/new", controllers.CreateHome(opts.Homes)).Methods("POST")
	authenticated.HandleFunc("/update", controllers.UpdateHome(opts.Homes)).Methods("PATCH")
	authenticated.HandleFunc("/delete", controllers.DeleteHome(opts.Homes)).Methods("DELETE")
	authenticated.HandleFunc("/{id}", controllers.DeleteHomeByID(opts.Homes)).Methods("DELETE")

	router.HandleFunc("/homes/{id}", controllers.GetHome(opts.Homes)).Methods("GET")

	if opts.UploadDir != "" {
		prefix := "/" + uploads.PublicPrefix + "/"
		router.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(opts.UploadDir)))).Methods("GET")
	}

	router.NotFoundHandler = controllers.NotFound()
	router.MethodNotAllowedHandler = controllers.MethodNotAllowed()
}

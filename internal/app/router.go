package app

import (
	"net/http"

	"tasksApi/internal/handlers"
	"tasksApi/internal/middleware"
	"tasksApi/internal/openapi"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func NewRouter(service handlers.Service, env handlers.EnvInfo, docs *openapi.Docs) *chi.Mux {
	taskHandler := handlers.NewTaskHandler(service)
	envHandler := handlers.NewEnvHandler(service, env)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/", handlers.Index)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.ListTasks)   // GET /tasks
		r.Post("/", taskHandler.CreateTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTask)       // GET /tasks/{id}
			r.Patch("/", taskHandler.PatchTask)   // PATCH /tasks/{id}
			r.Delete("/", taskHandler.DeleteTask) // DELETE /tasks/{id}
		})
	})

	r.Get("/env-info", envHandler.EnvInfo)
	r.Get("/test-db", envHandler.TestDB)

	r.Get("/doc", docs.JSON)
	r.Get("/doc.yaml", docs.YAML)
	r.Get("/reference", docs.Reference)

	return r
}

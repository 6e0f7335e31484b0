package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	api.Post("/token", handler.IssueToken)
	api.Post("/users", handler.RegisterUser)

	authed := []fiber.Handler{handler.AuthRequired, handler.TriggerDailyPoll}

	users := api.Group("/users", authed...)
	users.Get("", handler.StaffOnly, handler.ListUsers)
	users.Get("/me", handler.GetCurrentUser)
	users.Get("/:id", handler.GetUser)
	users.Put("/:id", handler.UpdateUser)
	users.Delete("/:id", handler.DeleteUser)

	notes := api.Group("/notes", authed...)
	notes.Post("", handler.CreateNote)
	notes.Get("", handler.StaffOnly, handler.ListNotes)
	notes.Get("/me", handler.ListMyNotes)
	notes.Get("/:id", handler.GetNote)
	notes.Put("/:id", handler.UpdateNote)
	notes.Delete("/:id", handler.DeleteNote)

	ratings := api.Group("/day-ratings", authed...)
	ratings.Post("", handler.CreateDayRating)
	ratings.Get("", handler.StaffOnly, handler.ListDayRatings)
	ratings.Get("/me", handler.ListMyDayRatings)
	ratings.Get("/user/:user_id", handler.GetDayRating)
	ratings.Put("/user/:user_id", handler.UpdateDayRating)
	ratings.Delete("/user/:user_id", handler.DeleteDayRating)

	polling := api.Group("/polling", authed...)
	polling.Get("/prompts", handler.ListPollPrompts)
	polling.Get("/user/:user_id", handler.GetTodayPoll)
	polling.Put("/:id", handler.CompletePoll)
}

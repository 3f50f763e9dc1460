package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/tripplanner/pkg/api/routes"
	"github.com/travigo/tripplanner/pkg/planner"
)

func NewApp(manager *planner.Manager) *fiber.App {
	// view ids contain ':' and '>'
	webApp := fiber.New(fiber.Config{
		UnescapePath: true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.DaysRouter(group.Group("/days"), manager)
	routes.PlansRouter(group.Group("/plans"), manager)
	routes.ViewsRouter(group.Group("/views"), manager)

	return webApp
}

func SetupServer(listen string, manager *planner.Manager) error {
	return NewApp(manager).Listen(listen)
}

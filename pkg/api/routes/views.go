package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"github.com/travigo/tripplanner/pkg/mapview"
	"github.com/travigo/tripplanner/pkg/planner"
	"github.com/travigo/tripplanner/pkg/routeapi"
	"github.com/travigo/tripplanner/pkg/routesync"
)

type openViewRequest struct {
	PlanID        string `json:"planId"`
	PreserveOrder bool   `json:"preserveOrder"`
	RouteColor    string `json:"routeColor"`
	TravelMode    string `json:"travelMode"`
}

type pathEditRequest struct {
	Legs []struct {
		ViaWaypoints []itinerary.LatLng `json:"viaWaypoints"`
	} `json:"legs"`
}

type viewResponse struct {
	ID     string           `json:"id"`
	Kind   planner.ViewKind `json:"kind"`
	PlanID string           `json:"planId"`
	DayID  string           `json:"dayId"`

	Items    []string                   `json:"items"`
	Segments []routesync.SegmentMapping `json:"segments"`

	Map *mapview.Snapshot `json:"map"`
}

func newViewResponse(view *planner.View) viewResponse {
	items := itinerary.ItemIDs(itinerary.SortItems(view.Items(), view.Options.PreserveOrder))

	segments := view.Synchronizer().Segments()
	if segments == nil {
		segments = []routesync.SegmentMapping{}
	}

	return viewResponse{
		ID:       view.ID,
		Kind:     view.Kind,
		PlanID:   view.PlanID,
		DayID:    view.DayID,
		Items:    items,
		Segments: segments,
		Map:      view.Map.Snapshot(),
	}
}

func DaysRouter(router fiber.Router, manager *planner.Manager) {
	router.Post("/:day/view", func(c *fiber.Ctx) error {
		request, options, ok := parseOpenViewRequest(c)
		if !ok {
			return nil
		}

		if request.PlanID == "" {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "planId must be provided",
			})
		}

		view, err := manager.OpenDay(c.UserContext(), request.PlanID, c.Params("day"), options)
		if err != nil {
			return sendBackendError(c, err)
		}

		return c.JSON(newViewResponse(view))
	})
}

func PlansRouter(router fiber.Router, manager *planner.Manager) {
	router.Post("/:plan/view", func(c *fiber.Ctx) error {
		_, options, ok := parseOpenViewRequest(c)
		if !ok {
			return nil
		}

		views, err := manager.OpenPlan(c.UserContext(), c.Params("plan"), options)
		if err != nil {
			return sendBackendError(c, err)
		}

		responses := []viewResponse{}
		for _, view := range views {
			responses = append(responses, newViewResponse(view))
		}

		return c.JSON(responses)
	})
}

func ViewsRouter(router fiber.Router, manager *planner.Manager) {
	router.Get("/", func(c *fiber.Ctx) error {
		ids := []string{}
		for _, view := range manager.Views() {
			ids = append(ids, view.ID)
		}

		return c.JSON(ids)
	})

	router.Get("/:view", withView(manager, func(c *fiber.Ctx, view *planner.View) error {
		return c.JSON(newViewResponse(view))
	}))

	router.Post("/:view/refresh", withView(manager, func(c *fiber.Ctx, view *planner.View) error {
		if err := view.Reload(c.UserContext()); err != nil {
			return sendBackendError(c, err)
		}

		return c.JSON(newViewResponse(view))
	}))

	router.Post("/:view/markers/:marker/drag", withView(manager, func(c *fiber.Ctx, view *planner.View) error {
		var position itinerary.LatLng
		if err := c.BodyParser(&position); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Body must contain lat and lng",
			})
		}

		if err := view.Map.DragMarker(c.Params("marker"), position); err != nil {
			return sendGestureError(c, err)
		}
		view.Wait()

		return c.JSON(newViewResponse(view))
	}))

	router.Delete("/:view/markers/:marker", withView(manager, func(c *fiber.Ctx, view *planner.View) error {
		if err := view.Map.DoubleClickMarker(c.Params("marker")); err != nil {
			return sendGestureError(c, err)
		}
		view.Wait()

		return c.JSON(newViewResponse(view))
	}))

	router.Post("/:view/path", withView(manager, func(c *fiber.Ctx, view *planner.View) error {
		var request pathEditRequest
		if err := c.BodyParser(&request); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Body must contain the legs of the edited path",
			})
		}

		viaWaypoints := make([][]itinerary.LatLng, 0, len(request.Legs))
		for _, leg := range request.Legs {
			viaWaypoints = append(viaWaypoints, leg.ViaWaypoints)
		}

		if err := view.Map.EditPath(viaWaypoints); err != nil {
			return sendGestureError(c, err)
		}
		view.Wait()

		return c.JSON(newViewResponse(view))
	}))

	router.Delete("/:view", func(c *fiber.Ctx) error {
		if !manager.Close(c.Params("view")) {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find view matching view identifier",
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	})
}

func withView(manager *planner.Manager, handler func(c *fiber.Ctx, view *planner.View) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, ok := manager.Get(c.Params("view"))
		if !ok {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find view matching view identifier",
			})
		}

		return handler(c, view)
	}
}

func parseOpenViewRequest(c *fiber.Ctx) (openViewRequest, planner.ViewOptions, bool) {
	var request openViewRequest
	var options planner.ViewOptions

	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			c.JSON(fiber.Map{
				"error": "Body could not be parsed",
			})
			return request, options, false
		}
	}

	if request.TravelMode != "" {
		mode, err := directions.ParseTravelMode(request.TravelMode)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			c.JSON(fiber.Map{
				"error": err.Error(),
			})
			return request, options, false
		}
		options.TravelMode = mode
	}

	options.PreserveOrder = request.PreserveOrder
	options.RouteColor = request.RouteColor

	return request, options, true
}

func sendBackendError(c *fiber.Ctx, err error) error {
	var responseError *routeapi.ResponseError

	switch {
	case errors.Is(err, planner.ErrNotFound):
		c.SendStatus(fiber.StatusNotFound)
	case errors.As(err, &responseError) && responseError.StatusCode == http.StatusNotFound:
		c.SendStatus(fiber.StatusNotFound)
	default:
		c.SendStatus(fiber.StatusBadGateway)
	}

	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}

func sendGestureError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, mapview.ErrMarkerNotFound):
		c.SendStatus(fiber.StatusNotFound)
	case errors.Is(err, mapview.ErrNoPath):
		c.SendStatus(fiber.StatusConflict)
	default:
		c.SendStatus(fiber.StatusBadRequest)
	}

	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}

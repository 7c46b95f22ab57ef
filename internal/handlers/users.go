package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"conduit/internal/middleware"
	"conduit/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates an account and responds with the profile envelope.
// Uniqueness and validation failures surface through the error handler as
// structured 400s.
func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var input services.CreateUserInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	envelope, err := h.userService.Create(ctx, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, envelope)
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var input services.LoginInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.userService.Authenticate(ctx, input)
	if err != nil {
		return err
	}

	envelope, err := h.userService.BuildProfile(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope)
}

func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	envelope, err := h.userService.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope)
}

func (h *UserHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var input services.UpdateUserInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	envelope, err := h.userService.Update(ctx, userID, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope)
}

func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.Param("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	if err := h.userService.Delete(ctx, email); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Roster serves the user summary list consumed by the roster feature. The
// client treats entries as opaque records.
func (h *UserHandler) Roster(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.userService.Stats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

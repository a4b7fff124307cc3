package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/simpleusers/users-service/internal/api/metrics"
	"github.com/simpleusers/users-service/internal/core/domain"
	"github.com/simpleusers/users-service/internal/core/ports"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// UserHandler handles HTTP requests for user and address operations.
// Access control runs in middleware before any of these methods.
type UserHandler struct {
	service ports.UserService
	hasher  ports.PasswordHasher
}

func NewUserHandler(service ports.UserService, hasher ports.PasswordHasher) *UserHandler {
	return &UserHandler{service: service, hasher: hasher}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"  default(1)
// @Param        limit  query     int  false  "Page size"              default(10)
// @Success      200    {object}  listUsersResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, okPage := queryInt(c, "page", 1)
	limit, okLimit := queryInt(c, "limit", 10)
	if !okPage || !okLimit {
		return observe("list_users", domain.ErrInvalidPagination)
	}

	result, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return observe("list_users", err)
	}

	_ = observe("list_users", nil)
	return c.JSON(http.StatusOK, toListUsersResponse(result))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return observe("get_user", err)
	}

	_ = observe("get_user", nil)
	return c.JSON(http.StatusOK, toUserResponse(view))
}

// Create handles POST /users. Registration needs no token.
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "User details"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	in, err := h.bindUser(c)
	if err != nil {
		return err
	}

	id, err := h.service.Register(c.Request().Context(), in)
	if err != nil {
		return observe("register", err)
	}

	_ = observe("register", nil)
	c.Response().Header().Set(echo.HeaderLocation, "/users/"+strconv.FormatInt(id, 10))
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// Update handles PUT /users/:id.
//
// @Summary      Replace a user's details
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int          true  "User id"
// @Param        body  body  userRequest  true  "User details"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	in, err := h.bindUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), id, in); err != nil {
		return observe("update_user", err)
	}

	_ = observe("update_user", nil)
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user and their addresses
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return observe("delete_user", err)
	}

	_ = observe("delete_user", nil)
	return c.NoContent(http.StatusNoContent)
}

// AddAddress handles POST /users/:id/address.
//
// @Summary      Add an address to a user
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "User id"
// @Param        body  body      addressRequest  true  "Address"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/address [post]
func (h *UserHandler) AddAddress(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	addressID, err := h.service.AddAddress(c.Request().Context(), id, toAddressInput(req))
	if err != nil {
		return observe("add_address", err)
	}

	_ = observe("add_address", nil)
	c.Response().Header().Set(echo.HeaderLocation, "/users/"+strconv.FormatInt(id, 10))
	return c.JSON(http.StatusCreated, createdResponse{ID: addressID})
}

// RemoveAddress handles DELETE /users/:id/address?addressId=.
//
// @Summary      Remove an address from a user
// @Tags         addresses
// @Security     BearerAuth
// @Param        id         path   int  true  "User id"
// @Param        addressId  query  int  true  "Address id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/address [delete]
func (h *UserHandler) RemoveAddress(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	addressID, err := strconv.ParseInt(c.QueryParam("addressId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid addressId")
	}

	if err := h.service.RemoveAddress(c.Request().Context(), id, addressID); err != nil {
		return observe("remove_address", err)
	}

	_ = observe("remove_address", nil)
	return c.NoContent(http.StatusNoContent)
}

// bindUser decodes and validates a user body and hashes its password, so
// the service only ever sees hashes.
func (h *UserHandler) bindUser(c echo.Context) (ports.UserInput, error) {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return ports.UserInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.UserInput{}, err
	}
	// validator counts runes; bcrypt limits bytes.
	if len(req.Password) > maxPasswordBytes {
		return ports.UserInput{}, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return ports.UserInput{}, err
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		return ports.UserInput{}, err
	}
	return toUserInput(req, hash, dob), nil
}

// observe counts the outcome of a user operation and passes err through.
func observe(operation string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	metrics.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	return err
}

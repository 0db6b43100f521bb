package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	h "eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

var usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// RegisterRequest is the request body for POST /api/users/register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate implements Validator.
func (req RegisterRequest) Validate() []string {
	return h.ValidationMessages(validation.ValidateStruct(&req,
		validation.Field(&req.Username, validation.Required, validation.Length(3, 50),
			validation.Match(usernameRegexp).Error("may only contain letters, digits, '_', '.' and '-'")),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	))
}

// LoginRequest is the request body for POST /api/users/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (req LoginRequest) Validate() []string {
	return h.ValidationMessages(validation.ValidateStruct(&req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	))
}

// UserPayload wraps a single user in the data field.
type UserPayload struct {
	User *domain.User `json:"user"`
}

// UsersPayload wraps a user list in the data field.
type UsersPayload struct {
	Users []*domain.User `json:"users"`
}

// SuccessPayload is the data of operations that return nothing else.
type SuccessPayload struct {
	Success bool `json:"success"`
}

// UserSuccessResponse is the success envelope for endpoints returning one user.
type UserSuccessResponse struct {
	Data  UserPayload `json:"data"`
	Error *h.APIError `json:"error"`
}

// UsersSuccessResponse is the success envelope for GET /api/users/list.
type UsersSuccessResponse struct {
	Data  UsersPayload `json:"data"`
	Error *h.APIError  `json:"error"`
}

// SuccessResponse is the success envelope for logout and delete.
type SuccessResponse struct {
	Data  SuccessPayload `json:"data"`
	Error *h.APIError    `json:"error"`
}

type UserController struct {
	Logger       *slog.Logger
	Service      domain.UserService
	SessionTTL   time.Duration
	SecureCookie bool
}

func NewUserController(logger *slog.Logger, svc domain.UserService, sessionTTL time.Duration, secureCookie bool) *UserController {
	return &UserController{
		Logger:       logger,
		Service:      svc,
		SessionTTL:   sessionTTL,
		SecureCookie: secureCookie,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a user and starts a session. The session token is set as the httpOnly "token" cookie; the response body never contains it or the password hash.
// @Tags users
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} controllers.UserSuccessResponse "data.user is the new user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (validation or username already exists)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/register [post]
func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	session, err := c.Service.Register(r.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	h.SetSessionCookie(w, session.Token, c.SessionTTL, c.SecureCookie)
	h.WriteJSONSuccess(w, http.StatusCreated, UserPayload{User: session.User})
}

// Login godoc
// @Summary Log in
// @Description Verifies username and password and sets the session cookie.
// @Tags users
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} controllers.UserSuccessResponse "data.user is the logged-in user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid credentials)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/login [post]
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	session, err := c.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	h.SetSessionCookie(w, session.Token, c.SessionTTL, c.SecureCookie)
	h.WriteJSONSuccess(w, http.StatusOK, UserPayload{User: session.User})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie. Does not require a session.
// @Tags users
// @Produce json
// @Success 200 {object} controllers.SuccessResponse "data.success is true"
// @Router /users/logout [post]
func (c *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	h.ClearSessionCookie(w, c.SecureCookie)
	h.WriteJSONSuccess(w, http.StatusOK, SuccessPayload{Success: true})
}

// List godoc
// @Summary List other users
// @Description Returns every registered user except the caller.
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} controllers.UsersSuccessResponse "data.users excludes the caller"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized or invalid_session"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/list [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	users, err := c.Service.ListOthers(r.Context(), userID)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, UsersPayload{Users: users})
}

// GetAuth godoc
// @Summary Get the current user
// @Description Returns the user the session cookie belongs to.
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} controllers.UserSuccessResponse "data.user is the caller"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized or invalid_session"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/get-auth [get]
func (c *UserController) GetAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, UserPayload{User: user})
}

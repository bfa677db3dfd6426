package http

import (
	"net/http"

	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

func (h *userHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.userService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.CreatedWithMessage(w, "User created", result)
}

func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ints, err := queryInts(r, "page", "page_size")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.userService.List(r.Context(), user.UserFilter{
		Name:     queryString(r, "name"),
		Page:     ints["page"],
		PageSize: ints["page_size"],
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const maxImportSize = 10 << 20

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{
		userService: userService,
	}
}

// List implements UserHandler.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, users, &response.Meta{Total: len(users)})
}

// Get implements UserHandler.
func (h *userHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, u)
}

// Create implements UserHandler.
func (h *userHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode user request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.userService.AddUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !result.Added {
		response.SuccessWithMessage(w, "User already exists", result)
		return
	}
	response.Created(w, "User added successfully", result)
}

// Delete implements UserHandler.
func (h *userHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User deleted", nil)
}

// Import implements UserHandler. A multipart "file" field is read as a workbook; any
// other body is read as "name,type,department[,role]" lines.
func (h *userHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	var (
		result user.ImportUsersResponse
		err    error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		file, _, ferr := r.FormFile("file")
		if ferr != nil {
			if ferr == http.ErrMissingFile {
				response.BadRequest(w, "Field 'file' is required", nil)
				return
			}
			slog.Error("Failed to get file from form", "error", ferr)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		defer file.Close()

		result, err = h.userService.ImportUsersXLSX(r.Context(), file)
	} else {
		body, rerr := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
		if rerr != nil {
			slog.Error("Failed to read import body", "error", rerr)
			response.BadRequest(w, "Invalid request body", nil)
			return
		}

		result, err = h.userService.ImportUsers(r.Context(), string(body))
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Users imported", result)
}

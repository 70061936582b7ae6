package adaptor

import (
	"errors"
	"fmt"
	"net/http"

	"backoffice/internal/data/entity"
	"backoffice/internal/dto/request"
	"backoffice/internal/dto/response"
	"backoffice/internal/usecase"
	"backoffice/internal/view"
	"backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form/v4"
	"go.uber.org/zap"
)

type UserHandler struct {
	*userGrid
	decoder *form.Decoder
}

func NewUserHandler(g *userGrid, decoder *form.Decoder) *UserHandler {
	return &UserHandler{
		userGrid: g,
		decoder:  decoder,
	}
}

// Edit handles GET /administrator/admin/edit[/{id}]
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		values := &request.UserFormRequest{Role: string(entity.RoleManager), Active: true}
		h.renderForm(w, r, http.StatusOK, values, nil, "")
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if errors.Is(err, usecase.ErrUserNotFound) {
		h.errorPage(w, r, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "load user")
		return
	}

	h.renderForm(w, r, http.StatusOK, request.UserFormFromEntity(user), nil, user.Username)
}

// Save handles POST /administrator/admin/edit[/{id}]
func (h *UserHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	var req request.UserFormRequest
	if err := h.decoder.Decode(&req, r.PostForm); err != nil {
		h.log.Warn("Failed to decode user form", zap.Error(err))
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}
	req.ID = chi.URLParam(r, "id")

	user, err := h.users.Save(r.Context(), &req)
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		h.flash(r, entity.FlashDanger, "Form has some errors!!")
		req.Password1, req.Password2 = "", ""
		h.renderForm(w, r, http.StatusOK, &req, verr.Fields, req.Username)
		return
	case errors.Is(err, usecase.ErrUserNotFound):
		h.errorPage(w, r, http.StatusNotFound, "User not found")
		return
	case err != nil:
		h.serverError(w, r, err, "save user")
		return
	}

	h.flash(r, entity.FlashInfo, fmt.Sprintf("User '%s' saved", user.Username))
	h.redirect(w, r, DashboardPath)
}

func (h *UserHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, values *request.UserFormRequest, errs map[string]string, username string) {
	content := &view.UserForm{
		IsNew:    values.ID == "",
		Username: username,
		Action:   AdminPath + "/edit",
		BackLink: DashboardPath,
		Values:   values,
		Errors:   errs,
		Roles:    roleOptions(h.definition()),
	}
	title := "New user"
	if !content.IsNew {
		content.Action += "/" + values.ID
		title = "Edit user " + username
	}
	h.render(w, r, status, "edit", title, content)
}

// Delete handles GET and POST /administrator/admin/delete/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := h.back(r)

	if !h.verifySec(r, "delete", id) {
		h.flash(r, entity.FlashDanger, "Invalid security token")
		h.finishGridSignal(w, r, back)
		return
	}

	identity, _ := utils.GetIdentityFromContext(r.Context())
	user, err := h.users.Delete(r.Context(), identity, id)
	switch {
	case errors.Is(err, usecase.ErrPermissionDenied):
		h.flash(r, entity.FlashDanger, "Permission denied")
	case err != nil:
		h.log.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		h.flash(r, entity.FlashDanger, "User could not be removed")
	case user != nil:
		h.flash(r, entity.FlashSuccess, "User removed: "+user.Username)
	}

	h.finishGridSignal(w, r, back)
}

// finishGridSignal redraws grid and flashes for AJAX callers and sends
// browsers back to the grid page they came from.
func (h *UserHandler) finishGridSignal(w http.ResponseWriter, r *http.Request, back string) {
	if !utils.IsAjax(r) {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	payload := &Payload{}
	if err := h.snippet(r, h.stateFromLink(back), payload); err != nil {
		h.serverError(w, r, err, "render grid")
		return
	}
	if err := h.withFlashes(r, payload); err != nil {
		h.serverError(w, r, err, "render flashes")
		return
	}
	h.sendPayload(w, payload)
}

// InlineEdit handles GET /administrator/admin/inline/{id}
func (h *UserHandler) InlineEdit(w http.ResponseWriter, r *http.Request) {
	back := h.back(r)
	if !utils.IsAjax(r) {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	row, ok := h.loadRow(w, r)
	if !ok {
		return
	}

	payload := &Payload{}
	if err := h.rowSnippet(h.editingRow(r, row, back, nil), payload); err != nil {
		h.serverError(w, r, err, "render grid row")
		return
	}
	h.sendPayload(w, payload)
}

// InlineSave handles POST /administrator/admin/inline/{id}
func (h *UserHandler) InlineSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := h.back(r)

	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}
	if !h.verifySec(r, "inline", id) {
		h.flash(r, entity.FlashDanger, "Invalid security token")
		h.finishGridSignal(w, r, back)
		return
	}

	var req request.InlineEditRequest
	if err := h.decoder.Decode(&req, r.PostForm); err != nil {
		h.log.Warn("Failed to decode inline edit", zap.Error(err))
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	identity, _ := utils.GetIdentityFromContext(r.Context())
	saved, err := h.users.InlineEdit(r.Context(), identity, id, &req)
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		h.inlineInvalid(w, r, &req, verr.Fields, back)
		return
	case errors.Is(err, usecase.ErrUserNotFound):
		h.errorPage(w, r, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, usecase.ErrPermissionDenied):
		h.flash(r, entity.FlashDanger, "Permission denied")
		h.finishGridSignal(w, r, back)
		return
	case err != nil:
		h.serverError(w, r, err, "inline edit user")
		return
	}

	if !utils.IsAjax(r) {
		h.flash(r, entity.FlashInfo, fmt.Sprintf("User '%s' saved", saved.Username))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	payload := &Payload{InlineEdited: saved.ID}
	if err := h.rowSnippet(h.row(r, *saved, back), payload); err != nil {
		h.serverError(w, r, err, "render grid row")
		return
	}
	h.sendPayload(w, payload)
}

// inlineInvalid shows the row again in edit mode with the submitted values.
func (h *UserHandler) inlineInvalid(w http.ResponseWriter, r *http.Request, req *request.InlineEditRequest, errs map[string]string, back string) {
	row, ok := h.loadRow(w, r)
	if !ok {
		return
	}
	row.RealName = req.RealName
	row.Email = req.Email
	row.Role = entity.UserRole(req.Role)
	row.IsActive = req.Active

	if !utils.IsAjax(r) {
		h.flash(r, entity.FlashDanger, utils.FormatValidationErrors(errs))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	payload := &Payload{}
	if err := h.rowSnippet(h.editingRow(r, row, back, errs), payload); err != nil {
		h.serverError(w, r, err, "render grid row")
		return
	}
	h.sendPayload(w, payload)
}

// InlineCancel handles GET /administrator/admin/inline/{id}/cancel
func (h *UserHandler) InlineCancel(w http.ResponseWriter, r *http.Request) {
	back := h.back(r)
	if !utils.IsAjax(r) {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	row, ok := h.loadRow(w, r)
	if !ok {
		return
	}

	payload := &Payload{InlineEditCancel: row.ID}
	if err := h.rowSnippet(h.row(r, row, back), payload); err != nil {
		h.serverError(w, r, err, "render grid row")
		return
	}
	h.sendPayload(w, payload)
}

func (h *UserHandler) loadRow(w http.ResponseWriter, r *http.Request) (response.UserRow, bool) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, usecase.ErrUserNotFound) {
		h.errorPage(w, r, http.StatusNotFound, "User not found")
		return response.UserRow{}, false
	}
	if err != nil {
		h.serverError(w, r, err, "load user")
		return response.UserRow{}, false
	}
	return response.UserToRow(user), true
}

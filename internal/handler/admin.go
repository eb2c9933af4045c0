package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/levenuts/storefront/internal/admin"
	"github.com/levenuts/storefront/internal/middleware"
)

type adminStatusResponse struct {
	Mode          admin.Mode `json:"mode"`
	Authenticated bool       `json:"authenticated"`
}

type setupRequest struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request, httpStatus int) {
	mode, err := h.admin.Mode(r.Context())
	if err != nil {
		h.fail(w, err, "admin mode error")
		return
	}

	writeJSON(w, httpStatus, adminStatusResponse{
		Mode:          mode,
		Authenticated: h.admin.Authenticated(r.Context(), middleware.AdminSessionToken(r)),
	})
}

// AdminStatus сообщает, нужно ли показать форму создания пароля или входа.
func (h *Handler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, http.StatusOK)
}

// AdminDenied отвечает на запрос без открытой сессии администратора.
func (h *Handler) AdminDenied(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, http.StatusUnauthorized)
}

// AdminSetup создаёт пароль администратора и открывает сессию.
func (h *Handler) AdminSetup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	token, err := h.admin.Setup(r.Context(), req.Password, req.Confirm)
	if err != nil {
		h.fail(w, err, "admin setup error")
		return
	}

	h.logger.Info("admin password configured")
	middleware.SetAdminSessionCookie(w, token)
	writeJSON(w, http.StatusOK, adminStatusResponse{Mode: admin.ModeLogin, Authenticated: true})
}

// AdminLogin проверяет пароль и открывает сессию.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	token, err := h.admin.Login(r.Context(), req.Password)
	if err != nil {
		h.fail(w, err, "admin login error")
		return
	}

	middleware.SetAdminSessionCookie(w, token)
	writeJSON(w, http.StatusOK, adminStatusResponse{Mode: admin.ModeLogin, Authenticated: true})
}

// AdminLogout закрывает текущую сессию.
func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.admin.Logout(middleware.AdminSessionToken(r))
	middleware.ClearAdminSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// AdminReset удаляет пароль администратора и закрывает все сессии.
func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Reset(r.Context()); err != nil {
		h.fail(w, err, "admin reset error")
		return
	}

	h.logger.Warn("admin password reset")
	middleware.ClearAdminSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// AdminOrders возвращает все заказы.
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.admin.Orders(r.Context())
	if err != nil {
		h.fail(w, err, "list orders error")
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.logger.Debug("admin orders listed", zap.Int("count", len(orders)))
	writeJSON(w, http.StatusOK, orders)
}

package authhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"qrhrm/internal/domain/audit"
	"qrhrm/internal/domain/auth"
	"qrhrm/internal/domain/employees"
	"qrhrm/internal/transport/http/api"
	"qrhrm/internal/transport/http/middleware"
	"qrhrm/internal/transport/http/shared"
)

type Authenticator interface {
	Login(ctx context.Context, accountType auth.AccountType, email, password, mfaCode string) (auth.Session, error)
	Issue(account auth.Account) (auth.Session, error)
	SetupMFA(ctx context.Context, adminID string) (auth.MFASetup, error)
	EnableMFA(ctx context.Context, adminID, code string) error
	RequestReset(ctx context.Context, accountType auth.AccountType, email string) (auth.ResetTicket, error)
	ResetPassword(ctx context.Context, token, newPassword string) (auth.AccountType, error)
}

type Registrar interface {
	Signup(ctx context.Context, input employees.SignupInput) (employees.Employee, error)
}

type ResetNotifier interface {
	SendReset(ctx context.Context, ticket auth.ResetTicket)
}

type Handler struct {
	Auth            Authenticator
	Employees       Registrar
	Notifier        ResetNotifier
	Audit           audit.Recorder
	AllowSelfSignup bool
}

func NewHandler(authSvc Authenticator, registrar Registrar, notifier ResetNotifier, auditSvc audit.Recorder, allowSelfSignup bool) *Handler {
	return &Handler{Auth: authSvc, Employees: registrar, Notifier: notifier, Audit: auditSvc, AllowSelfSignup: allowSelfSignup}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.HandleSignup)
	r.Post("/login/employee", h.login(auth.AccountEmployee))
	r.Post("/login/admin", h.login(auth.AccountAdmin))
	r.With(middleware.RequireAuth).Get("/verify-token", h.HandleVerify)
	r.Post("/forgot-password", h.HandleRequestReset)
	r.Post("/reset-password/{token}", h.HandleResetPassword)
	r.Route("/admin/mfa", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Post("/setup", h.HandleMFASetup)
		r.Post("/enable", h.HandleMFAEnable)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfaCode"`
}

type accountView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	EmployeeCode string `json:"employeeCode,omitempty"`
	Position     string `json:"position,omitempty"`
	Department   string `json:"department,omitempty"`
	Type         string `json:"type,omitempty"`
}

type sessionResponse struct {
	Message  string              `json:"message"`
	Token    string              `json:"token,omitempty"`
	Employee *accountView        `json:"employee,omitempty"`
	Admin    *accountView        `json:"admin,omitempty"`
	Created  *employees.Employee `json:"created,omitempty"`
}

func viewOf(account auth.Account) *accountView {
	return &accountView{
		ID:           account.ID,
		Name:         account.Name,
		Email:        account.Email,
		Role:         account.Type.Role(),
		EmployeeCode: account.EmployeeCode,
		Position:     account.Position,
		Department:   account.Department,
		Type:         account.EmployeeType,
	}
}

func (h *Handler) login(accountType auth.AccountType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		var payload loginRequest
		if !shared.DecodeJSON(w, r, &payload) {
			return
		}
		v := shared.NewValidator()
		v.Struct(payload)
		if v.Reject(w, requestID) {
			return
		}

		session, err := h.Auth.Login(r.Context(), accountType, payload.Email, payload.Password, payload.MFACode)
		switch {
		case errors.Is(err, auth.ErrAccountNotFound), errors.Is(err, auth.ErrInvalidCredentials):
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
			return
		case errors.Is(err, auth.ErrMFARequired):
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestID)
			return
		case errors.Is(err, auth.ErrMFAInvalid):
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestID)
			return
		case err != nil:
			slog.Error("login failed", "accountType", accountType, "err", err, "requestId", requestID)
			api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", requestID)
			return
		}

		resp := sessionResponse{Token: session.Token}
		if accountType == auth.AccountAdmin {
			resp.Message = "Admin login successful."
			resp.Admin = viewOf(session.Account)
		} else {
			resp.Message = "Login successful"
			resp.Employee = viewOf(session.Account)
		}
		api.Success(w, resp, requestID)
	}
}

// HandleSignup creates an employee. Anonymous callers are only accepted when
// self signup is enabled; they receive a token for the new account.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	caller, authenticated := middleware.GetUser(r.Context())
	byAdmin := authenticated && caller.IsAdmin()
	if !byAdmin && !h.AllowSelfSignup {
		api.Fail(w, http.StatusForbidden, "signup_disabled", "only administrators can add employees", requestID)
		return
	}

	var payload employees.SignupInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Employees.Signup(r.Context(), payload)
	switch {
	case errors.Is(err, employees.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "employee_exists", "Employee already found.", requestID)
		return
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, employees.ErrNegativeSalary):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: fieldFor(err), Reason: err.Error()}})
		return
	case err != nil && emp.ID == "":
		slog.Error("signup failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "signup_failed", "Server error", requestID)
		return
	case err != nil:
		slog.Warn("signup badge delivery failed", "employeeId", emp.ID, "err", err)
	}

	resp := sessionResponse{Message: "Employee added successfully!"}
	if byAdmin {
		resp.Created = &emp
		h.record(r, caller, emp)
		api.Created(w, resp, requestID)
		return
	}
	session, err := h.Auth.Issue(auth.Account{
		ID:           emp.ID,
		Type:         auth.AccountEmployee,
		Name:         emp.Name,
		Email:        emp.Email,
		EmployeeCode: emp.Code,
		Position:     emp.Position,
		Department:   emp.Department,
		EmployeeType: emp.Type,
	})
	if err != nil {
		slog.Error("signup token issue failed", "employeeId", emp.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}
	resp.Token = session.Token
	resp.Employee = viewOf(session.Account)
	api.Created(w, resp, requestID)
}

func fieldFor(err error) string {
	if errors.Is(err, employees.ErrNegativeSalary) {
		return "salary"
	}
	return "password"
}

func (h *Handler) record(r *http.Request, caller middleware.User, emp employees.Employee) {
	if h.Audit == nil {
		return
	}
	evt := audit.Event{
		ActorID:    caller.ID,
		ActorRole:  caller.Role,
		Action:     audit.ActionEmployeeCreate,
		EntityType: "employee",
		EntityID:   emp.ID,
		RequestID:  middleware.GetRequestID(r.Context()),
	}
	if err := h.Audit.Record(r.Context(), evt, map[string]string{"employeeCode": emp.Code, "email": emp.Email}); err != nil {
		slog.Warn("audit employee.create failed", "err", err)
	}
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	api.Success(w, map[string]string{
		"id":           user.ID,
		"email":        user.Email,
		"employeeCode": user.EmployeeCode,
		"role":         user.Role,
	}, middleware.GetRequestID(r.Context()))
}

type resetRequest struct {
	Email    string `json:"email" validate:"required,email"`
	UserType string `json:"userType"`
}

const resetAccepted = "If an account exists for that email, a password reset link has been sent."

// HandleRequestReset answers identically whether or not the account exists.
func (h *Handler) HandleRequestReset(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload resetRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	accountType, ok := auth.ParseAccountType(strings.TrimSpace(payload.UserType))
	if !ok {
		v.Add("userType", "must be one of: admin employee")
	}
	if v.Reject(w, requestID) {
		return
	}

	ticket, err := h.Auth.RequestReset(r.Context(), accountType, payload.Email)
	switch {
	case errors.Is(err, auth.ErrAccountNotFound):
	case err != nil:
		slog.Warn("password reset request failed", "accountType", accountType, "err", err, "requestId", requestID)
	case h.Notifier != nil:
		h.Notifier.SendReset(r.Context(), ticket)
	}
	api.Success(w, map[string]string{"message": resetAccepted}, requestID)
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload resetPasswordRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	_, err := h.Auth.ResetPassword(r.Context(), chi.URLParam(r, "token"), payload.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidResetToken):
		api.Fail(w, http.StatusBadRequest, "invalid_token", "Invalid or expired token", requestID)
		return
	case errors.Is(err, auth.ErrWeakPassword):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "password", Reason: err.Error()}})
		return
	case err != nil:
		slog.Error("password reset failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "reset_failed", "Failed to reset password. Please try again.", requestID)
		return
	}
	api.Success(w, map[string]string{"message": "Password updated successfully"}, requestID)
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	setup, err := h.Auth.SetupMFA(r.Context(), user.ID)
	if errors.Is(err, auth.ErrAccountNotFound) {
		api.Fail(w, http.StatusNotFound, "admin_not_found", "admin not found", requestID)
		return
	}
	if err != nil {
		slog.Error("mfa setup failed", "adminId", user.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to generate mfa secret", requestID)
		return
	}
	api.Success(w, map[string]string{"secret": setup.Secret, "otpauthUrl": setup.OTPAuthURL}, requestID)
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload mfaCodeRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	err := h.Auth.EnableMFA(r.Context(), user.ID, payload.Code)
	switch {
	case errors.Is(err, auth.ErrMFANotConfigured):
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa setup required", requestID)
		return
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestID)
		return
	case err != nil:
		slog.Error("mfa enable failed", "adminId", user.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "mfa_enable_failed", "failed to enable mfa", requestID)
		return
	}

	if h.Audit != nil {
		evt := audit.Event{ActorID: user.ID, ActorRole: user.Role, Action: audit.ActionMFAEnable, EntityType: "admin", EntityID: user.ID, RequestID: requestID}
		if err := h.Audit.Record(r.Context(), evt, nil); err != nil {
			slog.Warn("audit admin.mfa_enable failed", "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "enabled"}, requestID)
}

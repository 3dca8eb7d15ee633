package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/chanchalmahajan01/GKT/internal/account"
	"github.com/chanchalmahajan01/GKT/internal/utils"
)

type registerCustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	MobileNo string `json:"mobile_no"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (a *API) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := a.Accounts.RegisterCustomer(r.Context(), account.RegisterCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		MobileNo: req.MobileNo,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Registration successful. Please verify your email.",
	})
}

type registerProviderRequest struct {
	MessName     string `json:"mess_name"`
	OwnerName    string `json:"owner_name"`
	Email        string `json:"email"`
	MobileNo     string `json:"mobile_no"`
	Address      string `json:"address"`
	Password     string `json:"password"`
	ProfileImage string `json:"profile_image"`
}

func (a *API) RegisterProvider(w http.ResponseWriter, r *http.Request) {
	var req registerProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := a.Accounts.RegisterProvider(r.Context(), account.RegisterProviderInput{
		MessName:     req.MessName,
		OwnerName:    req.OwnerName,
		Email:        req.Email,
		MobileNo:     req.MobileNo,
		Address:      req.Address,
		Password:     req.Password,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Registration successful. Please verify your email.",
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (a *API) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, acc, err := a.Accounts.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  accountJSON(acc),
	})
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

func (a *API) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := a.Accounts.ResendOTP(r.Context(), req.Email); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) LoginCustomer(w http.ResponseWriter, r *http.Request) {
	a.login(w, r, account.RoleCustomer)
}

func (a *API) LoginProvider(w http.ResponseWriter, r *http.Request) {
	a.login(w, r, account.RoleProvider)
}

func (a *API) login(w http.ResponseWriter, r *http.Request, role account.Role) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, acc, err := a.Accounts.Login(r.Context(), req.Email, req.Password, role)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  accountJSON(acc),
	})
}

func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	acc, err := a.Accounts.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"user": accountJSON(acc)})
}

// accountJSON renders an account for the wire without credential material.
func accountJSON(a *account.Account) map[string]any {
	out := map[string]any{
		"_id":           a.ID,
		"email":         a.Email,
		"mobile_no":     a.MobileNo,
		"address":       a.Address,
		"role":          a.Role,
		"profile_image": a.ProfileImage,
		"isVerified":    a.IsVerified,
	}

	switch a.Role {
	case account.RoleCustomer:
		if a.Customer != nil {
			out["name"] = a.Customer.Name
		}
	case account.RoleProvider:
		if a.Provider != nil {
			out["mess_name"] = a.Provider.MessName
			out["owner_name"] = a.Provider.OwnerName
		}
		out["rating"] = a.Rating
		out["reviewCount"] = a.ReviewCount
	}

	return out
}

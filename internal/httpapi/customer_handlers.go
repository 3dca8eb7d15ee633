package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chanchalmahajan01/GKT/internal/account"
	"github.com/chanchalmahajan01/GKT/internal/menu"
	"github.com/chanchalmahajan01/GKT/internal/order"
	"github.com/chanchalmahajan01/GKT/internal/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const nearbyLimit = 6

// messJSON is a provider card merged with its menu for today. Messes with
// no published menu are filtered out of listings.
func (a *API) messJSON(r *http.Request, acc *account.Account) (map[string]any, bool) {
	out := map[string]any{
		"_id":           acc.ID,
		"mess_name":     acc.Provider.MessName,
		"address":       acc.Address,
		"mobile_no":     acc.MobileNo,
		"profile_image": acc.ProfileImage,
		"rating":        acc.Rating,
		"reviewCount":   acc.ReviewCount,
	}

	m, err := a.Menus.TodayMenu(r.Context(), acc.ID)
	if err != nil {
		out["price"] = 0.0
		out["foodType"] = "Not Available"
		out["messTime"] = menu.ServiceWindow{Open: "N/A", Close: "N/A"}
		out["homeDelivery"] = false
		return out, false
	}

	out["price"] = m.Price
	out["foodType"] = m.FoodType
	out["messTime"] = m.MessTime
	out["homeDelivery"] = m.HomeDelivery
	return out, true
}

func (a *API) listMesses(w http.ResponseWriter, r *http.Request, limit int) {
	providers, err := a.Accounts.ListMesses(r.Context(), limit)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	messes := make([]map[string]any, 0, len(providers))
	for _, p := range providers {
		if m, hasMenu := a.messJSON(r, p); hasMenu {
			messes = append(messes, m)
		}
	}

	utils.WriteJSON(w, http.StatusOK, messes)
}

func (a *API) GetNearbyMesses(w http.ResponseWriter, r *http.Request) {
	// Geospatial search is stubbed: a flat list capped at a handful.
	a.listMesses(w, r, nearbyLimit)
}

func (a *API) GetAllMesses(w http.ResponseWriter, r *http.Request) {
	a.listMesses(w, r, 0)
}

func (a *API) GetMessDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteJSONError(w, "Invalid ID format", http.StatusBadRequest)
		return
	}

	mess, err := a.Accounts.GetMess(r.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			utils.WriteJSONError(w, "Mess not found", http.StatusNotFound)
			return
		}
		writeServiceError(r.Context(), w, err)
		return
	}

	details, _ := a.messJSON(r, mess)
	utils.WriteJSON(w, http.StatusOK, details)
}

func (a *API) GetMessMenu(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteJSONError(w, "Invalid ID format", http.StatusBadRequest)
		return
	}

	if _, err := a.Accounts.GetMess(r.Context(), id); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			utils.WriteJSONError(w, "Mess not found", http.StatusNotFound)
			return
		}
		writeServiceError(r.Context(), w, err)
		return
	}

	m, err := a.Menus.TodayMenu(r.Context(), id)
	if err != nil {
		if errors.Is(err, menu.ErrMenuNotFound) {
			utils.WriteJSONError(w, "Menu not available for today", http.StatusNotFound)
			return
		}
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, m)
}

type placeOrderRequest struct {
	ProviderID      string              `json:"providerId"`
	Items           []order.Item        `json:"items"`
	TotalAmount     float64             `json:"totalAmount"`
	DeliveryAddress string              `json:"deliveryAddress"`
	PaymentMethod   order.PaymentMethod `json:"paymentMethod"`
	Notes           string              `json:"notes"`
}

func (a *API) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	customerID, _ := utils.GetUserIDFromContext(r.Context())

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	o, err := a.Orders.Place(r.Context(), customerID, order.PlaceInput{
		ProviderID:      req.ProviderID,
		Items:           req.Items,
		TotalAmount:     req.TotalAmount,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, o)
}

func (a *API) GetRecentOrders(w http.ResponseWriter, r *http.Request) {
	customerID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := a.Orders.CustomerOrders(r.Context(), customerID, 5)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}

func (a *API) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	customerID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := a.Orders.CustomerOrders(r.Context(), customerID, 0)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}

func (a *API) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	customerID, _ := utils.GetUserIDFromContext(r.Context())

	o, err := a.Orders.CustomerOrderDetail(r.Context(), customerID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

// GetOrderQR returns a PNG QR code pointing at the order tracking page.
func (a *API) GetOrderQR(w http.ResponseWriter, r *http.Request) {
	customerID, _ := utils.GetUserIDFromContext(r.Context())

	o, err := a.Orders.CustomerOrderDetail(r.Context(), customerID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	png, err := a.QR.Generate(o.Code)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type submitReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (a *API) SubmitReview(w http.ResponseWriter, r *http.Request) {
	customerID, _ := utils.GetUserIDFromContext(r.Context())

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	o, err := a.Orders.SubmitReview(r.Context(), customerID, mux.Vars(r)["id"], req.Rating, req.Text)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Review submitted successfully",
		"order":   o,
	})
}

func (a *API) GetCustomerProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := utils.GetUserIDFromContext(r.Context())

	acc, err := a.Accounts.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, accountJSON(acc))
}

type updateCustomerProfileRequest struct {
	Name     *string `json:"name"`
	MobileNo *string `json:"mobile_no"`
	Address  *string `json:"address"`
}

func (a *API) UpdateCustomerProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := utils.GetUserIDFromContext(r.Context())

	var req updateCustomerProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := a.Accounts.UpdateProfile(r.Context(), id, account.UpdateProfileParams{
		Name:     req.Name,
		MobileNo: req.MobileNo,
		Address:  req.Address,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "Profile updated successfully",
		"customer": accountJSON(acc),
	})
}

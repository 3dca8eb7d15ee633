package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/chanchalmahajan01/GKT/internal/account"
	"github.com/chanchalmahajan01/GKT/internal/menu"
	"github.com/chanchalmahajan01/GKT/internal/order"
	"github.com/chanchalmahajan01/GKT/internal/utils"

	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

type upsertMenuRequest struct {
	Date         string             `json:"date"`
	MenuType     menu.Cadence       `json:"menuType"`
	FoodType     string             `json:"foodType"`
	Price        float64            `json:"price"`
	Items        []menu.Item        `json:"items"`
	MessTime     menu.ServiceWindow `json:"messTime"`
	HomeDelivery bool               `json:"homeDelivery"`
}

func (a *API) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	providerID, _ := utils.GetUserIDFromContext(r.Context())

	var req upsertMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		utils.WriteJSONError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	m, err := a.Menus.Upsert(r.Context(), providerID, menu.UpsertInput{
		Date:         date,
		Cadence:      req.MenuType,
		FoodType:     req.FoodType,
		Price:        req.Price,
		Items:        req.Items,
		MessTime:     req.MessTime,
		HomeDelivery: req.HomeDelivery,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, m)
}

func (a *API) GetMenuByDate(w http.ResponseWriter, r *http.Request) {
	providerID, _ := utils.GetUserIDFromContext(r.Context())

	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		utils.WriteJSONError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	m, err := a.Menus.GetByDate(r.Context(), providerID, date)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, m)
}

func (a *API) GetProviderRecentOrders(w http.ResponseWriter, r *http.Request) {
	providerID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := a.Orders.ProviderOrders(r.Context(), providerID, 5)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}

func (a *API) GetProviderOrders(w http.ResponseWriter, r *http.Request) {
	providerID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := a.Orders.ProviderOrders(r.Context(), providerID, 0)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}

type updateOrderStatusRequest struct {
	Status order.Status `json:"status"`
}

func (a *API) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	providerID, _ := utils.GetUserIDFromContext(r.Context())

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	o, err := a.Orders.UpdateStatus(r.Context(), providerID, mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Order status updated successfully",
		"order":   o,
	})
}

func (a *API) GetProviderStats(w http.ResponseWriter, r *http.Request) {
	providerID, _ := utils.GetUserIDFromContext(r.Context())

	stats, err := a.Orders.ProviderStats(r.Context(), providerID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, stats)
}

func (a *API) GetProviderProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := utils.GetUserIDFromContext(r.Context())

	acc, err := a.Accounts.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, accountJSON(acc))
}

type updateProviderProfileRequest struct {
	MessName  *string `json:"mess_name"`
	OwnerName *string `json:"owner_name"`
	MobileNo  *string `json:"mobile_no"`
	Address   *string `json:"address"`
}

func (a *API) UpdateProviderProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := utils.GetUserIDFromContext(r.Context())

	var req updateProviderProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := a.Accounts.UpdateProfile(r.Context(), id, account.UpdateProfileParams{
		MessName:  req.MessName,
		OwnerName: req.OwnerName,
		MobileNo:  req.MobileNo,
		Address:   req.Address,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "Profile updated successfully",
		"provider": accountJSON(acc),
	})
}

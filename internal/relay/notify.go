package relay

import (
	"github.com/chanchalmahajan01/GKT/internal/menu"
	"github.com/chanchalmahajan01/GKT/internal/order"
)

const (
	eventMenuUpdated        = "menu_updated"
	eventOrderStatusUpdated = "order_status_updated"
	eventNewOrder           = "new_order"
)

// OrderNotifier adapts the hub to the order service's notification port.
type OrderNotifier struct {
	Hub *Hub
}

func (n OrderNotifier) NewOrder(o *order.Order) {
	n.Hub.Publish(
		Room("provider", o.ProviderID.String()),
		Event{Name: eventNewOrder, Data: o},
	)
}

func (n OrderNotifier) OrderStatusUpdated(o *order.Order) {
	payload := map[string]any{"orderId": o.ID, "status": o.Status}
	n.Hub.Publish(
		Room("customer", o.CustomerID.String()),
		Event{Name: eventOrderStatusUpdated, Data: payload},
	)
	n.Hub.Publish(
		Room("provider", o.ProviderID.String()),
		Event{Name: eventOrderStatusUpdated, Data: payload},
	)
}

// MenuNotifier broadcasts menu changes to every connected client.
type MenuNotifier struct {
	Hub *Hub
}

func (n MenuNotifier) MenuUpdated(m *menu.Menu) {
	n.Hub.Broadcast(Event{Name: eventMenuUpdated, Data: m})
}

package soap

import (
	"time"

	"github.com/cumroad/commerce-soap/internal/core/domain"
)

// --- Domain → wire payloads ---

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toUserPayload(u *domain.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func toUsersContainer(users []*domain.User) usersContainer {
	out := usersContainer{Users: make([]userPayload, len(users))}
	for i, u := range users {
		out.Users[i] = toUserPayload(u)
	}
	return out
}

func toProductPayload(p *domain.Product) productPayload {
	return productPayload{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		UserID:      p.UserID,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func toProductsContainer(products []*domain.Product) productsContainer {
	out := productsContainer{Products: make([]productPayload, len(products))}
	for i, p := range products {
		out.Products[i] = toProductPayload(p)
	}
	return out
}

func toOrderPayload(o *domain.Order) orderPayload {
	out := orderPayload{
		ID:         o.ID,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		CreatedAt:  formatTime(o.CreatedAt),
		UpdatedAt:  formatTime(o.UpdatedAt),
	}
	if o.Product != nil {
		out.Product = toProductPayload(o.Product)
	}
	return out
}

func toOrdersContainer(orders []*domain.Order) ordersContainer {
	out := ordersContainer{Orders: make([]orderPayload, len(orders))}
	for i, o := range orders {
		out.Orders[i] = toOrderPayload(o)
	}
	return out
}

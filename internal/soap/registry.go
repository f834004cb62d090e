package soap

import (
	"context"

	"github.com/cumroad/commerce-soap/internal/core/domain"
	"github.com/cumroad/commerce-soap/internal/core/ports"
)

// HandlerFunc executes one operation. req is the typed request produced by
// the operation's NewRequest factory; actor is nil for unauthenticated
// operations.
type HandlerFunc func(ctx context.Context, req any, actor *domain.Identity) (any, error)

// Operation binds an operation name to its handler, auth requirement and
// request shape.
type Operation struct {
	Name         string
	RequiresAuth bool
	NewRequest   func() any
	Handle       HandlerFunc
}

// Registry is the fixed operation table, built once at startup and immutable
// afterwards.
type Registry struct {
	ops map[string]*Operation
}

// Lookup resolves an operation by its case-sensitive name.
func (r *Registry) Lookup(name string) (*Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Operations returns the registered operation names, for startup logging.
func (r *Registry) Operations() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	return names
}

func (r *Registry) register(op *Operation) {
	r.ops[op.Name] = op
}

// NewRegistry wires every operation to its service. The set must stay in
// lock-step with the served WSDL, name for name, field for field.
func NewRegistry(users ports.UserService, auth ports.AuthService, products ports.ProductService, orders ports.OrderService) *Registry {
	r := &Registry{ops: make(map[string]*Operation)}

	// --- Users ---

	r.register(&Operation{
		Name:       "GetAllUsers",
		NewRequest: func() any { return &GetAllUsersRequest{} },
		Handle: func(ctx context.Context, _ any, _ *domain.Identity) (any, error) {
			list, err := users.List(ctx)
			if err != nil {
				return nil, err
			}
			return &GetAllUsersResponse{Users: toUsersContainer(list)}, nil
		},
	})

	r.register(&Operation{
		Name:       "CreateUser",
		NewRequest: func() any { return &CreateUserRequest{} },
		Handle: func(ctx context.Context, req any, _ *domain.Identity) (any, error) {
			in := req.(*CreateUserRequest)
			user, err := users.Create(ctx, ports.CreateUserInput{
				Email:    in.User.Email,
				Password: in.User.Password,
				Name:     in.User.Name,
			})
			if err != nil {
				return nil, err
			}
			return &CreateUserResponse{User: toUserPayload(user)}, nil
		},
	})

	r.register(&Operation{
		Name:       "GetUserById",
		NewRequest: func() any { return &GetUserByIdRequest{} },
		Handle: func(ctx context.Context, req any, _ *domain.Identity) (any, error) {
			in := req.(*GetUserByIdRequest)
			user, err := users.GetByID(ctx, in.UserID)
			if err != nil {
				return nil, err
			}
			return &GetUserByIdResponse{User: toUserPayload(user)}, nil
		},
	})

	r.register(&Operation{
		Name:         "UpdateUser",
		RequiresAuth: true,
		NewRequest:   func() any { return &UpdateUserRequest{} },
		Handle: func(ctx context.Context, req any, actor *domain.Identity) (any, error) {
			in := req.(*UpdateUserRequest)
			user, err := users.Update(ctx, *actor, in.UserID, ports.UpdateUserInput{
				Name:     in.Update.Name,
				Password: in.Update.Password,
			})
			if err != nil {
				return nil, err
			}
			return &UpdateUserResponse{User: toUserPayload(user)}, nil
		},
	})

	r.register(&Operation{
		Name:         "DeleteUser",
		RequiresAuth: true,
		NewRequest:   func() any { return &DeleteUserRequest{} },
		Handle: func(ctx context.Context, req any, actor *domain.Identity) (any, error) {
			in := req.(*DeleteUserRequest)
			if err := users.Delete(ctx, *actor, in.UserID); err != nil {
				return nil, err
			}
			return &DeleteUserResponse{}, nil
		},
	})

	// --- Sessions ---

	r.register(&Operation{
		Name:       "Login",
		NewRequest: func() any { return &LoginRequest{} },
		Handle: func(ctx context.Context, req any, _ *domain.Identity) (any, error) {
			in := req.(*LoginRequest)
			token, user, err := auth.Login(ctx, in.Credentials.Email, in.Credentials.Password)
			if err != nil {
				return nil, err
			}
			return &LoginResponse{User: userWithTokenPayload{
				userPayload: toUserPayload(user),
				Token:       token,
			}}, nil
		},
	})

	r.register(&Operation{
		Name:         "Logout",
		RequiresAuth: true,
		NewRequest:   func() any { return &LogoutRequest{} },
		Handle: func(_ context.Context, _ any, _ *domain.Identity) (any, error) {
			// Tokens are stateless: validation already happened at the auth
			// gate and there is nothing to revoke server-side.
			return &LogoutResponse{}, nil
		},
	})

	// --- Products ---

	r.register(&Operation{
		Name:       "GetAllProducts",
		NewRequest: func() any { return &GetAllProductsRequest{} },
		Handle: func(ctx context.Context, _ any, _ *domain.Identity) (any, error) {
			list, err := products.List(ctx)
			if err != nil {
				return nil, err
			}
			return &GetAllProductsResponse{Products: toProductsContainer(list)}, nil
		},
	})

	r.register(&Operation{
		Name:         "CreateProduct",
		RequiresAuth: true,
		NewRequest:   func() any { return &CreateProductRequest{} },
		Handle: func(ctx context.Context, req any, actor *domain.Identity) (any, error) {
			in := req.(*CreateProductRequest)
			product, err := products.Create(ctx, *actor, ports.CreateProductInput{
				Name:        in.Product.Name,
				Description: in.Product.Description,
				Price:       *in.Product.Price,
				ImageURL:    in.Product.ImageURL,
			})
			if err != nil {
				return nil, err
			}
			return &CreateProductResponse{Product: toProductPayload(product)}, nil
		},
	})

	r.register(&Operation{
		Name:       "GetProductById",
		NewRequest: func() any { return &GetProductByIdRequest{} },
		Handle: func(ctx context.Context, req any, _ *domain.Identity) (any, error) {
			in := req.(*GetProductByIdRequest)
			product, err := products.GetByID(ctx, in.ProductID)
			if err != nil {
				return nil, err
			}
			return &GetProductByIdResponse{Product: toProductPayload(product)}, nil
		},
	})

	r.register(&Operation{
		Name:         "UpdateProduct",
		RequiresAuth: true,
		NewRequest:   func() any { return &UpdateProductRequest{} },
		Handle: func(ctx context.Context, req any, actor *domain.Identity) (any, error) {
			in := req.(*UpdateProductRequest)
			product, err := products.Update(ctx, *actor, in.ProductID, ports.UpdateProductInput{
				Name:        in.Update.Name,
				Description: in.Update.Description,
				Price:       in.Update.Price,
				ImageURL:    in.Update.ImageURL,
			})
			if err != nil {
				return nil, err
			}
			return &UpdateProductResponse{Product: toProductPayload(product)}, nil
		},
	})

	r.register(&Operation{
		Name:         "DeleteProduct",
		RequiresAuth: true,
		NewRequest:   func() any { return &DeleteProductRequest{} },
		Handle: func(ctx context.Context, req any, actor *domain.Identity) (any, error) {
			in := req.(*DeleteProductRequest)
			if err := products.Delete(ctx, *actor, in.ProductID); err != nil {
				return nil, err
			}
			return &DeleteProductResponse{}, nil
		},
	})

	// --- Orders ---

	r.register(&Operation{
		Name:         "GetAllOrders",
		RequiresAuth: true,
		NewRequest:   func() any { return &GetAllOrdersRequest{} },
		Handle: func(ctx context.Context, _ any, actor *domain.Identity) (any, error) {
			list, err := orders.List(ctx, *actor)
			if err != nil {
				return nil, err
			}
			return &GetAllOrdersResponse{Orders: toOrdersContainer(list)}, nil
		},
	})

	r.register(&Operation{
		Name:         "CreateOrder",
		RequiresAuth: true,
		NewRequest:   func() any { return &CreateOrderRequest{} },
		Handle: func(ctx context.Context, req any, actor *domain.Identity) (any, error) {
			in := req.(*CreateOrderRequest)
			order, err := orders.Create(ctx, *actor, ports.CreateOrderInput{
				ProductID: in.Order.ProductID,
				Quantity:  in.Order.Quantity,
			})
			if err != nil {
				return nil, err
			}
			return &CreateOrderResponse{Order: toOrderPayload(order)}, nil
		},
	})

	r.register(&Operation{
		Name:         "GetOrderById",
		RequiresAuth: true,
		NewRequest:   func() any { return &GetOrderByIdRequest{} },
		Handle: func(ctx context.Context, req any, actor *domain.Identity) (any, error) {
			in := req.(*GetOrderByIdRequest)
			order, err := orders.GetByID(ctx, *actor, in.OrderID)
			if err != nil {
				return nil, err
			}
			return &GetOrderByIdResponse{Order: toOrderPayload(order)}, nil
		},
	})

	r.register(&Operation{
		Name:         "UpdateOrder",
		RequiresAuth: true,
		NewRequest:   func() any { return &UpdateOrderRequest{} },
		Handle: func(ctx context.Context, req any, actor *domain.Identity) (any, error) {
			in := req.(*UpdateOrderRequest)
			order, err := orders.Update(ctx, *actor, in.OrderID, ports.UpdateOrderInput{
				Quantity: in.Update.Quantity,
				Status:   in.Update.Status,
			})
			if err != nil {
				return nil, err
			}
			return &UpdateOrderResponse{Order: toOrderPayload(order)}, nil
		},
	})

	r.register(&Operation{
		Name:         "DeleteOrder",
		RequiresAuth: true,
		NewRequest:   func() any { return &DeleteOrderRequest{} },
		Handle: func(ctx context.Context, req any, actor *domain.Identity) (any, error) {
			in := req.(*DeleteOrderRequest)
			if err := orders.Delete(ctx, *actor, in.OrderID); err != nil {
				return nil, err
			}
			return &DeleteOrderResponse{}, nil
		},
	})

	return r
}

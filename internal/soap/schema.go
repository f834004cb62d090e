package soap

import "encoding/xml"

// Request elements. Field names follow the wire contract (snake_case leaf
// elements, parameter wrappers named after the resource). Structures carry
// no XMLName so the codec accepts both `<CreateUserRequest>` and the bare
// `<CreateUser>` form.

type userParams struct {
	Email    string `xml:"email"    validate:"required,email"`
	Password string `xml:"password" validate:"required,min=8"`
	Name     string `xml:"name"`
}

type userUpdateParams struct {
	Name     *string `xml:"name"     validate:"omitempty,min=1"`
	Password *string `xml:"password" validate:"omitempty,min=8"`
}

type credentialsParams struct {
	Email    string `xml:"email"    validate:"required,email"`
	Password string `xml:"password" validate:"required"`
}

type productParams struct {
	Name        string   `xml:"name"      validate:"required"`
	Description string   `xml:"description"`
	Price       *float64 `xml:"price"     validate:"required,gte=0"`
	ImageURL    string   `xml:"image_url" validate:"omitempty,url"`
}

type productUpdateParams struct {
	Name        *string  `xml:"name"      validate:"omitempty,min=1"`
	Description *string  `xml:"description"`
	Price       *float64 `xml:"price"     validate:"omitempty,gte=0"`
	ImageURL    *string  `xml:"image_url"`
}

type orderParams struct {
	ProductID int64 `xml:"product_id" validate:"required"`
	Quantity  int64 `xml:"quantity"   validate:"required,gte=1"`
}

type orderUpdateParams struct {
	Quantity *int64  `xml:"quantity" validate:"omitempty,gte=1"`
	Status   *string `xml:"status"   validate:"omitempty,oneof=pending completed cancelled"`
}

type GetAllUsersRequest struct{}

type CreateUserRequest struct {
	User userParams `xml:"user"`
}

type GetUserByIdRequest struct {
	UserID int64 `xml:"user_id" validate:"required"`
}

type UpdateUserRequest struct {
	UserID int64            `xml:"user_id" validate:"required"`
	Update userUpdateParams `xml:"user_update"`
	Token  string           `xml:"token"`
}

type DeleteUserRequest struct {
	UserID int64  `xml:"user_id" validate:"required"`
	Token  string `xml:"token"`
}

type LoginRequest struct {
	Credentials credentialsParams `xml:"credentials"`
}

type LogoutRequest struct {
	Token string `xml:"token"`
}

type GetAllProductsRequest struct{}

type CreateProductRequest struct {
	Product productParams `xml:"product"`
	Token   string        `xml:"token"`
}

type GetProductByIdRequest struct {
	ProductID int64 `xml:"product_id" validate:"required"`
}

type UpdateProductRequest struct {
	ProductID int64               `xml:"product_id" validate:"required"`
	Update    productUpdateParams `xml:"product_update"`
	Token     string              `xml:"token"`
}

type DeleteProductRequest struct {
	ProductID int64  `xml:"product_id" validate:"required"`
	Token     string `xml:"token"`
}

type GetAllOrdersRequest struct {
	Token string `xml:"token"`
}

type CreateOrderRequest struct {
	Order orderParams `xml:"order"`
	Token string      `xml:"token"`
}

type GetOrderByIdRequest struct {
	OrderID int64  `xml:"order_id" validate:"required"`
	Token   string `xml:"token"`
}

type UpdateOrderRequest struct {
	OrderID int64             `xml:"order_id" validate:"required"`
	Update  orderUpdateParams `xml:"order_update"`
	Token   string            `xml:"token"`
}

type DeleteOrderRequest struct {
	OrderID int64  `xml:"order_id" validate:"required"`
	Token   string `xml:"token"`
}

// tokenCarrier lets the dispatcher fall back to the in-body token element
// when no Authorization header is supplied, keeping the wire contract of the
// WSDL intact.
type tokenCarrier interface {
	bearerToken() string
}

func (r *UpdateUserRequest) bearerToken() string    { return r.Token }
func (r *DeleteUserRequest) bearerToken() string    { return r.Token }
func (r *LogoutRequest) bearerToken() string        { return r.Token }
func (r *CreateProductRequest) bearerToken() string { return r.Token }
func (r *UpdateProductRequest) bearerToken() string { return r.Token }
func (r *DeleteProductRequest) bearerToken() string { return r.Token }
func (r *GetAllOrdersRequest) bearerToken() string  { return r.Token }
func (r *CreateOrderRequest) bearerToken() string   { return r.Token }
func (r *GetOrderByIdRequest) bearerToken() string  { return r.Token }
func (r *UpdateOrderRequest) bearerToken() string   { return r.Token }
func (r *DeleteOrderRequest) bearerToken() string   { return r.Token }

// Response elements. The XMLName pins both the element name and the types
// namespace so responses stay in lock-step with the WSDL.

type userPayload struct {
	ID        int64  `xml:"id"`
	Email     string `xml:"email"`
	Name      string `xml:"name"`
	Role      string `xml:"role"`
	CreatedAt string `xml:"created_at"`
	UpdatedAt string `xml:"updated_at"`
}

type userWithTokenPayload struct {
	userPayload
	Token string `xml:"token"`
}

type productPayload struct {
	ID          int64   `xml:"id"`
	Name        string  `xml:"name"`
	Description string  `xml:"description"`
	Price       float64 `xml:"price"`
	ImageURL    string  `xml:"image_url"`
	UserID      int64   `xml:"user_id"`
	CreatedAt   string  `xml:"created_at"`
	UpdatedAt   string  `xml:"updated_at"`
}

type orderPayload struct {
	ID         int64          `xml:"id"`
	UserID     int64          `xml:"user_id"`
	ProductID  int64          `xml:"product_id"`
	Quantity   int64          `xml:"quantity"`
	TotalPrice float64        `xml:"total_price"`
	Status     string         `xml:"status"`
	CreatedAt  string         `xml:"created_at"`
	UpdatedAt  string         `xml:"updated_at"`
	Product    productPayload `xml:"product"`
}

// Collection containers are dedicated structs so an empty result still
// yields the container element rather than nothing at all.

type usersContainer struct {
	Users []userPayload `xml:"user"`
}

type productsContainer struct {
	Products []productPayload `xml:"product"`
}

type ordersContainer struct {
	Orders []orderPayload `xml:"order"`
}

type GetAllUsersResponse struct {
	XMLName xml.Name       `xml:"http://cumroad.api.soap/types GetAllUsersResponse"`
	Users   usersContainer `xml:"users"`
}

type CreateUserResponse struct {
	XMLName xml.Name    `xml:"http://cumroad.api.soap/types CreateUserResponse"`
	User    userPayload `xml:"user"`
}

type GetUserByIdResponse struct {
	XMLName xml.Name    `xml:"http://cumroad.api.soap/types GetUserByIdResponse"`
	User    userPayload `xml:"user"`
}

type UpdateUserResponse struct {
	XMLName xml.Name    `xml:"http://cumroad.api.soap/types UpdateUserResponse"`
	User    userPayload `xml:"user"`
}

type DeleteUserResponse struct {
	XMLName xml.Name `xml:"http://cumroad.api.soap/types DeleteUserResponse"`
}

type LoginResponse struct {
	XMLName xml.Name             `xml:"http://cumroad.api.soap/types LoginResponse"`
	User    userWithTokenPayload `xml:"user"`
}

type LogoutResponse struct {
	XMLName xml.Name `xml:"http://cumroad.api.soap/types LogoutResponse"`
}

type GetAllProductsResponse struct {
	XMLName  xml.Name          `xml:"http://cumroad.api.soap/types GetAllProductsResponse"`
	Products productsContainer `xml:"products"`
}

type CreateProductResponse struct {
	XMLName xml.Name       `xml:"http://cumroad.api.soap/types CreateProductResponse"`
	Product productPayload `xml:"product"`
}

type GetProductByIdResponse struct {
	XMLName xml.Name       `xml:"http://cumroad.api.soap/types GetProductByIdResponse"`
	Product productPayload `xml:"product"`
}

type UpdateProductResponse struct {
	XMLName xml.Name       `xml:"http://cumroad.api.soap/types UpdateProductResponse"`
	Product productPayload `xml:"product"`
}

type DeleteProductResponse struct {
	XMLName xml.Name `xml:"http://cumroad.api.soap/types DeleteProductResponse"`
}

type GetAllOrdersResponse struct {
	XMLName xml.Name        `xml:"http://cumroad.api.soap/types GetAllOrdersResponse"`
	Orders  ordersContainer `xml:"orders"`
}

type CreateOrderResponse struct {
	XMLName xml.Name     `xml:"http://cumroad.api.soap/types CreateOrderResponse"`
	Order   orderPayload `xml:"order"`
}

type GetOrderByIdResponse struct {
	XMLName xml.Name     `xml:"http://cumroad.api.soap/types GetOrderByIdResponse"`
	Order   orderPayload `xml:"order"`
}

type UpdateOrderResponse struct {
	XMLName xml.Name     `xml:"http://cumroad.api.soap/types UpdateOrderResponse"`
	Order   orderPayload `xml:"order"`
}

type DeleteOrderResponse struct {
	XMLName xml.Name `xml:"http://cumroad.api.soap/types DeleteOrderResponse"`
}

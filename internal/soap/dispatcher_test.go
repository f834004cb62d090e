package soap

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cumroad/commerce-soap/internal/core/domain"
	"github.com/cumroad/commerce-soap/internal/core/ports"
	"github.com/cumroad/commerce-soap/internal/core/service"
)

const testSecret = "dispatch-test-secret"

type stubUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	createFn func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	getFn    func(ctx context.Context, id int64) (*domain.User, error)
	updateFn func(ctx context.Context, actor domain.Identity, id int64, input ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, actor domain.Identity, id int64) error
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) { return s.listFn(ctx) }
func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}
func (s *stubUserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}
func (s *stubUserService) Update(ctx context.Context, actor domain.Identity, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, input)
}
func (s *stubUserService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubProductService struct {
	listFn   func(ctx context.Context) ([]*domain.Product, error)
	createFn func(ctx context.Context, actor domain.Identity, input ports.CreateProductInput) (*domain.Product, error)
	getFn    func(ctx context.Context, id int64) (*domain.Product, error)
	updateFn func(ctx context.Context, actor domain.Identity, id int64, input ports.UpdateProductInput) (*domain.Product, error)
	deleteFn func(ctx context.Context, actor domain.Identity, id int64) error
}

func (s *stubProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.listFn(ctx)
}
func (s *stubProductService) Create(ctx context.Context, actor domain.Identity, input ports.CreateProductInput) (*domain.Product, error) {
	return s.createFn(ctx, actor, input)
}
func (s *stubProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.getFn(ctx, id)
}
func (s *stubProductService) Update(ctx context.Context, actor domain.Identity, id int64, input ports.UpdateProductInput) (*domain.Product, error) {
	return s.updateFn(ctx, actor, id, input)
}
func (s *stubProductService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type stubOrderService struct {
	listFn   func(ctx context.Context, actor domain.Identity) ([]*domain.Order, error)
	createFn func(ctx context.Context, actor domain.Identity, input ports.CreateOrderInput) (*domain.Order, error)
	getFn    func(ctx context.Context, actor domain.Identity, id int64) (*domain.Order, error)
	updateFn func(ctx context.Context, actor domain.Identity, id int64, input ports.UpdateOrderInput) (*domain.Order, error)
	deleteFn func(ctx context.Context, actor domain.Identity, id int64) error
}

func (s *stubOrderService) List(ctx context.Context, actor domain.Identity) ([]*domain.Order, error) {
	return s.listFn(ctx, actor)
}
func (s *stubOrderService) Create(ctx context.Context, actor domain.Identity, input ports.CreateOrderInput) (*domain.Order, error) {
	return s.createFn(ctx, actor, input)
}
func (s *stubOrderService) GetByID(ctx context.Context, actor domain.Identity, id int64) (*domain.Order, error) {
	return s.getFn(ctx, actor, id)
}
func (s *stubOrderService) Update(ctx context.Context, actor domain.Identity, id int64, input ports.UpdateOrderInput) (*domain.Order, error) {
	return s.updateFn(ctx, actor, id, input)
}
func (s *stubOrderService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

func newTestDispatcher(users ports.UserService, auth ports.AuthService, products ports.ProductService, orders ports.OrderService) *Dispatcher {
	if users == nil {
		users = &stubUserService{}
	}
	if auth == nil {
		auth = &stubAuthService{}
	}
	if products == nil {
		products = &stubProductService{}
	}
	if orders == nil {
		orders = &stubOrderService{}
	}
	registry := NewRegistry(users, auth, products, orders)
	tokens := service.NewTokenService(testSecret, time.Hour)
	return NewDispatcher(registry, tokens, zerolog.Nop())
}

func envelope(body string) []byte {
	return []byte(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>` +
		body + `</soap:Body></soap:Envelope>`)
}

func issueToken(t *testing.T, userID int64, role string) string {
	t.Helper()
	tokens := service.NewTokenService(testSecret, time.Hour)
	token, err := tokens.Issue(userID, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestDispatcher_UnknownOperation(t *testing.T) {
	d := newTestDispatcher(nil, nil, nil, nil)

	res := d.Handle(context.Background(), envelope(`<SelfDestructRequest/>`), "", "")

	if res.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Status)
	}
	if res.Fault != FaultUnknownOperation {
		t.Fatalf("expected UnknownOperation, got %s", res.Fault)
	}
	if !strings.Contains(string(res.Body), "<code>UnknownOperation</code>") {
		t.Fatalf("missing fault code: %s", res.Body)
	}
}

func TestDispatcher_MalformedEnvelope(t *testing.T) {
	d := newTestDispatcher(nil, nil, nil, nil)

	res := d.Handle(context.Background(), []byte("this is not xml"), "", "")

	if res.Fault != FaultValidation {
		t.Fatalf("expected ValidationError, got %s", res.Fault)
	}
	if res.Operation != "" {
		t.Fatalf("operation should be unresolved, got %q", res.Operation)
	}
}

func TestDispatcher_CreateUserSuccess(t *testing.T) {
	created := false
	users := &stubUserService{
		createFn: func(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
			created = true
			if input.Email != "bob@example.com" || input.Password != "password1" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: 1, Email: input.Email, Name: "bob", Role: domain.RoleUser}, nil
		},
	}
	d := newTestDispatcher(users, nil, nil, nil)

	body := envelope(`<CreateUserRequest><user><email>bob@example.com</email><password>password1</password></user></CreateUserRequest>`)
	res := d.Handle(context.Background(), body, "", "")

	if !created {
		t.Fatalf("service not invoked")
	}
	if res.Status != http.StatusOK || res.Fault != "" {
		t.Fatalf("expected success, got status %d fault %q: %s", res.Status, res.Fault, res.Body)
	}
	if res.Operation != "CreateUser" {
		t.Fatalf("unexpected operation %q", res.Operation)
	}
	if !strings.Contains(string(res.Body), `<CreateUserResponse xmlns="`+TypesNS+`">`) {
		t.Fatalf("missing response element: %s", res.Body)
	}
}

func TestDispatcher_ValidationFault(t *testing.T) {
	invoked := false
	users := &stubUserService{
		createFn: func(_ context.Context, _ ports.CreateUserInput) (*domain.User, error) {
			invoked = true
			return nil, nil
		},
	}
	d := newTestDispatcher(users, nil, nil, nil)

	body := envelope(`<CreateUserRequest><user><email>not-an-email</email><password>short</password></user></CreateUserRequest>`)
	res := d.Handle(context.Background(), body, "", "")

	if invoked {
		t.Fatalf("handler must not run on invalid input")
	}
	if res.Fault != FaultValidation {
		t.Fatalf("expected ValidationError, got %s", res.Fault)
	}
	s := string(res.Body)
	if !strings.Contains(s, "email must be a valid email") {
		t.Fatalf("missing email message: %s", s)
	}
	if !strings.Contains(s, "password must be at least 8 characters") {
		t.Fatalf("missing password message: %s", s)
	}
}

func TestDispatcher_AuthRequired(t *testing.T) {
	invoked := false
	products := &stubProductService{
		deleteFn: func(_ context.Context, _ domain.Identity, _ int64) error {
			invoked = true
			return nil
		},
	}
	d := newTestDispatcher(nil, nil, products, nil)

	body := envelope(`<DeleteProductRequest><product_id>4</product_id></DeleteProductRequest>`)
	res := d.Handle(context.Background(), body, "", "")

	if invoked {
		t.Fatalf("handler must not run without a token")
	}
	if res.Fault != FaultAuthRequired {
		t.Fatalf("expected AuthRequired, got %s", res.Fault)
	}
}

func TestDispatcher_AuthInvalidExpiredToken(t *testing.T) {
	invoked := false
	products := &stubProductService{
		deleteFn: func(_ context.Context, _ domain.Identity, _ int64) error {
			invoked = true
			return nil
		},
	}
	d := newTestDispatcher(nil, nil, products, nil)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(1),
		"role":    "user",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	body := envelope(`<DeleteProductRequest><product_id>4</product_id></DeleteProductRequest>`)
	res := d.Handle(context.Background(), body, "", "Bearer "+signed)

	if invoked {
		t.Fatalf("handler must not run with an expired token")
	}
	if res.Fault != FaultAuthInvalid {
		t.Fatalf("expected AuthInvalid, got %s", res.Fault)
	}
}

func TestDispatcher_AuthInvalidForgedToken(t *testing.T) {
	d := newTestDispatcher(nil, nil, nil, nil)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": int64(1)})
	signed, err := forged.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	body := envelope(`<LogoutRequest/>`)
	res := d.Handle(context.Background(), body, "", "Bearer "+signed)

	if res.Fault != FaultAuthInvalid {
		t.Fatalf("expected AuthInvalid, got %s", res.Fault)
	}
}

func TestDispatcher_BodyTokenFallback(t *testing.T) {
	var actorID int64
	orders := &stubOrderService{
		listFn: func(_ context.Context, actor domain.Identity) ([]*domain.Order, error) {
			actorID = actor.UserID
			return nil, nil
		},
	}
	d := newTestDispatcher(nil, nil, nil, orders)

	token := issueToken(t, 42, domain.RoleUser)
	body := envelope(`<GetAllOrdersRequest><token>` + token + `</token></GetAllOrdersRequest>`)
	res := d.Handle(context.Background(), body, "", "")

	if res.Fault != "" {
		t.Fatalf("expected success, got fault %s: %s", res.Fault, res.Body)
	}
	if actorID != 42 {
		t.Fatalf("expected actor 42, got %d", actorID)
	}
	if !strings.Contains(string(res.Body), "<orders></orders>") {
		t.Fatalf("expected empty orders container: %s", res.Body)
	}
}

func TestDispatcher_HeaderTokenPreferred(t *testing.T) {
	var actorID int64
	orders := &stubOrderService{
		listFn: func(_ context.Context, actor domain.Identity) ([]*domain.Order, error) {
			actorID = actor.UserID
			return nil, nil
		},
	}
	d := newTestDispatcher(nil, nil, nil, orders)

	headerToken := issueToken(t, 7, domain.RoleUser)
	bodyToken := issueToken(t, 9, domain.RoleUser)
	body := envelope(`<GetAllOrdersRequest><token>` + bodyToken + `</token></GetAllOrdersRequest>`)
	res := d.Handle(context.Background(), body, "", "Bearer "+headerToken)

	if res.Fault != "" {
		t.Fatalf("expected success, got fault %s", res.Fault)
	}
	if actorID != 7 {
		t.Fatalf("header token should win, got actor %d", actorID)
	}
}

func TestDispatcher_DomainErrorMapping(t *testing.T) {
	products := &stubProductService{
		getFn: func(_ context.Context, _ int64) (*domain.Product, error) {
			return nil, domain.ErrProductNotFound
		},
		deleteFn: func(_ context.Context, _ domain.Identity, _ int64) error {
			return domain.ErrForbidden
		},
	}
	d := newTestDispatcher(nil, nil, products, nil)

	res := d.Handle(context.Background(),
		envelope(`<GetProductByIdRequest><product_id>99</product_id></GetProductByIdRequest>`), "", "")
	if res.Fault != FaultNotFound {
		t.Fatalf("expected NotFound, got %s", res.Fault)
	}

	token := issueToken(t, 2, domain.RoleUser)
	res = d.Handle(context.Background(),
		envelope(`<DeleteProductRequest><product_id>99</product_id></DeleteProductRequest>`), "", "Bearer "+token)
	if res.Fault != FaultForbidden {
		t.Fatalf("expected Forbidden, got %s", res.Fault)
	}
}

func TestDispatcher_PanicBecomesInternalFault(t *testing.T) {
	users := &stubUserService{
		listFn: func(_ context.Context) ([]*domain.User, error) {
			panic("boom")
		},
	}
	d := newTestDispatcher(users, nil, nil, nil)

	res := d.Handle(context.Background(), envelope(`<GetAllUsersRequest/>`), "", "")

	if res.Fault != FaultInternal {
		t.Fatalf("expected InternalError, got %s", res.Fault)
	}
	s := string(res.Body)
	if strings.Contains(s, "boom") {
		t.Fatalf("internal details must not leak: %s", s)
	}
	if !strings.Contains(s, "<faultstring>internal server error</faultstring>") {
		t.Fatalf("expected generic message: %s", s)
	}
}

func TestDispatcher_LoginReturnsToken(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "bob@example.com" {
				t.Fatalf("unexpected email %q", email)
			}
			return "signed-token", &domain.User{ID: 1, Email: email, Role: domain.RoleUser}, nil
		},
	}
	d := newTestDispatcher(nil, auth, nil, nil)

	body := envelope(`<LoginRequest><credentials><email>bob@example.com</email><password>password1</password></credentials></LoginRequest>`)
	res := d.Handle(context.Background(), body, "", "")

	if res.Fault != "" {
		t.Fatalf("expected success, got fault %s: %s", res.Fault, res.Body)
	}
	if !strings.Contains(string(res.Body), "<token>signed-token</token>") {
		t.Fatalf("missing token in response: %s", res.Body)
	}
}

func TestDispatcher_SOAPActionFallback(t *testing.T) {
	users := &stubUserService{
		listFn: func(_ context.Context) ([]*domain.User, error) { return nil, nil },
	}
	d := newTestDispatcher(users, nil, nil, nil)

	// The body child "Request" alone cannot name the operation.
	body := envelope(`<Request/>`)
	res := d.Handle(context.Background(), body, `"http://cumroad.api.soap/GetAllUsers"`, "")

	if res.Fault != "" {
		t.Fatalf("expected success via SOAPAction, got fault %s", res.Fault)
	}
	if res.Operation != "GetAllUsers" {
		t.Fatalf("unexpected operation %q", res.Operation)
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cumroad/commerce-soap/internal/core/domain"
	"github.com/cumroad/commerce-soap/internal/core/ports"
)

var dbSeq int

// openTestDB gives each test its own shared in-memory database that lives
// for as long as the pooled connection does.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq)
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repo *UserRepository, email string) *domain.User {
	t.Helper()
	user, err := repo.Create(context.Background(), &domain.User{
		Email:        email,
		PasswordHash: "$2a$10$fakehash",
		Name:         "seed",
		Role:         domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := seedUser(t, repo, "alice@example.com")
	if created.ID == 0 {
		t.Fatalf("id not assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", created)
	}

	byID, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Email != "alice@example.com" || byID.Role != domain.RoleUser {
		t.Fatalf("unexpected row: %+v", byID)
	}

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, byEmail.ID)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	seedUser(t, repo, "dup@example.com")
	_, err := repo.Create(context.Background(), &domain.User{
		Email:        "dup@example.com",
		PasswordHash: "x",
		Name:         "other",
		Role:         domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserRepository_ConcurrentDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	const racers = 8
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), &domain.User{
				Email:        "race@example.com",
				PasswordHash: "x",
				Name:         "racer",
				Role:         domain.RoleUser,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrEmailTaken):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 || conflicts != racers-1 {
		t.Fatalf("got %d created, %d conflicts, want 1 and %d", created, conflicts, racers-1)
	}
}

func TestUserRepository_MissingRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("find: expected ErrUserNotFound, got %v", err)
	}
	name := "ghost"
	if _, err := repo.Update(ctx, 999, ports.UserPatch{Name: &name}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("update: expected ErrUserNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("delete: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_PartialUpdate(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := seedUser(t, repo, "bob@example.com")

	name := "bobby"
	updated, err := repo.Update(ctx, created.ID, ports.UserPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "bobby" {
		t.Fatalf("name not updated: %+v", updated)
	}
	if updated.Email != created.Email || updated.PasswordHash != created.PasswordHash {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUserRepository_IDsNotReused(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := seedUser(t, repo, "one@example.com")
	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second := seedUser(t, repo, "two@example.com")
	if second.ID <= first.ID {
		t.Fatalf("id %d reused after deleting %d", second.ID, first.ID)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}

	seedUser(t, repo, "a@example.com")
	seedUser(t, repo, "b@example.com")

	list, err = repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID >= list[1].ID {
		t.Fatalf("expected two rows ordered by id, got %+v", list)
	}
}

func seedProduct(t *testing.T, repo *ProductRepository, userID int64, price float64) *domain.Product {
	t.Helper()
	product, err := repo.Create(context.Background(), &domain.Product{
		Name:        "ebook",
		Description: "a fine read",
		Price:       price,
		UserID:      userID,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestProductRepository_CRUD(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "seller@example.com")
	created := seedProduct(t, repo, owner.ID, 9.99)

	price := 14.99
	updated, err := repo.Update(ctx, created.ID, ports.ProductPatch{Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 14.99 || updated.Name != "ebook" {
		t.Fatalf("unexpected row after update: %+v", updated)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestOrderRepository_CreateLoadsProduct(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	products := NewProductRepository(db)
	repo := NewOrderRepository(db)

	owner := seedUser(t, users, "seller@example.com")
	product := seedProduct(t, products, owner.ID, 9.99)

	order, err := repo.Create(context.Background(), &domain.Order{
		UserID:     owner.ID,
		ProductID:  product.ID,
		Quantity:   2,
		TotalPrice: 19.98,
		Status:     domain.OrderPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if order.Product == nil {
		t.Fatalf("product not loaded alongside order")
	}
	if order.Product.ID != product.ID || order.Product.Price != 9.99 {
		t.Fatalf("unexpected joined product: %+v", order.Product)
	}
	if order.Status != domain.OrderPending {
		t.Fatalf("unexpected status: %s", order.Status)
	}
}

func TestOrderRepository_ListFilter(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	products := NewProductRepository(db)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice@example.com")
	bob := seedUser(t, users, "bob@example.com")
	product := seedProduct(t, products, alice.ID, 5)

	for _, userID := range []int64{alice.ID, alice.ID, bob.ID} {
		if _, err := repo.Create(ctx, &domain.Order{
			UserID: userID, ProductID: product.ID, Quantity: 1, TotalPrice: 5, Status: domain.OrderPending,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.List(ctx, ports.OrderFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(all))
	}

	mine, err := repo.List(ctx, ports.OrderFilter{UserID: alice.ID})
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders for alice, got %d", len(mine))
	}
	for _, o := range mine {
		if o.UserID != alice.ID {
			t.Fatalf("foreign order in scoped list: %+v", o)
		}
	}
}

func TestOrderRepository_UpdateAndDelete(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	products := NewProductRepository(db)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "seller@example.com")
	product := seedProduct(t, products, owner.ID, 5)
	order, err := repo.Create(ctx, &domain.Order{
		UserID: owner.ID, ProductID: product.ID, Quantity: 1, TotalPrice: 5, Status: domain.OrderPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	qty := int64(3)
	total := 15.0
	status := domain.OrderCompleted
	updated, err := repo.Update(ctx, order.ID, ports.OrderPatch{Quantity: &qty, TotalPrice: &total, Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 3 || updated.TotalPrice != 15 || updated.Status != domain.OrderCompleted {
		t.Fatalf("unexpected row after update: %+v", updated)
	}

	if err := repo.Delete(ctx, order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

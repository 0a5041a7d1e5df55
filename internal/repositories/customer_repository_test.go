package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var customerTestColumns = []string{
	"id", "name", "email", "phone", "total_bookings", "total_spent",
	"outstanding_balance", "created_at", "updated_at",
}

func TestFindOrCreateByEmailReturnsExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM customers WHERE email=").WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(customerTestColumns).
			AddRow(int64(3), "Jane", "jane@example.com", "0800", int64(2), 600.0, 100.0, now, now))

	repo := CustomerRepository{DB: db}
	c, err := repo.FindOrCreateByEmail("  Jane@Example.COM ", "Someone Else", "0999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 3 {
		t.Fatalf("id = %d, want the existing customer 3", c.ID)
	}
	if c.Name != "Jane" {
		t.Fatalf("name = %q, existing record must win over the request payload", c.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindOrCreateByEmailInsertsWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM customers WHERE email=").WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows(customerTestColumns))
	mock.ExpectExec("INSERT INTO customers").
		WithArgs("New Customer", "new@example.com", "0812").
		WillReturnResult(sqlmock.NewResult(7, 1))

	repo := CustomerRepository{DB: db}
	c, err := repo.FindOrCreateByEmail("New@example.com", " New Customer ", " 0812 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 7 {
		t.Fatalf("id = %d, want 7", c.ID)
	}
	if c.Email != "new@example.com" {
		t.Fatalf("email = %q, want lowercased", c.Email)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindOrCreateByEmailRequiresEmail(t *testing.T) {
	repo := CustomerRepository{}
	if _, err := repo.FindOrCreateByEmail("   ", "Nobody", ""); err == nil {
		t.Fatal("expected validation error for empty email")
	}
}

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"backend/internal/models"
)

type stubCatalog struct {
	items map[string]*models.MenuItem
}

func (s *stubCatalog) MenuItemByID(_ context.Context, id string) (*models.MenuItem, error) {
	return s.items[id], nil
}

const testItemID = "65f1a2b3c4d5e6f7a8b9c0d1"

func TestBuildOrderParamsRejectsEmptyCart(t *testing.T) {
	total := 10.0
	_, err := buildOrderParams(createOrderRequest{
		Name:       "Jane",
		Email:      "jane@example.com",
		Items:      []createOrderItemRequest{},
		TotalPrice: &total,
	})
	if err == nil {
		t.Fatal("expected error for empty cart")
	}
}

func TestBuildOrderParamsRejectsZeroQuantity(t *testing.T) {
	total := 10.0
	_, err := buildOrderParams(createOrderRequest{
		Name:       "Jane",
		Email:      "jane@example.com",
		Items:      []createOrderItemRequest{{MenuItemID: testItemID, Quantity: 0}},
		TotalPrice: &total,
	})
	if err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

func TestBuildOrderParamsNormalizesFields(t *testing.T) {
	total := 10.0
	params, err := buildOrderParams(createOrderRequest{
		Name:        "  Jane  ",
		PhoneNumber: " 555-0101 ",
		Email:       " Jane@Example.COM ",
		Items: []createOrderItemRequest{
			{MenuItemID: testItemID, Quantity: 2, SpecialInstructions: "  no onions  "},
		},
		TotalPrice: &total,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Email != "jane@example.com" {
		t.Fatalf("expected lowercased email, got %q", params.Email)
	}
	if params.Name != "Jane" {
		t.Fatalf("expected trimmed name, got %q", params.Name)
	}
	if params.PhoneNumber == nil || *params.PhoneNumber != "555-0101" {
		t.Fatalf("expected trimmed phone, got %v", params.PhoneNumber)
	}
	if params.Items[0].SpecialInstructions == nil || *params.Items[0].SpecialInstructions != "no onions" {
		t.Fatalf("expected trimmed instructions, got %v", params.Items[0].SpecialInstructions)
	}
}

func TestCreateOrderRespondsNotFoundForMissingMenuItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(5))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(10))
	mock.ExpectRollback()

	source := &stubCatalog{items: map[string]*models.MenuItem{}}

	rec := postJSON(
		CreateOrder(db, source),
		`{"name":"Jane","email":"jane@example.com","total_price":4.5,"items":[{"menu_item_id":"`+testItemID+`","quantity":1}]}`,
	)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Menu item with ID "+testItemID+" not found") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected rollback without order item inserts: %v", err)
	}
}

func TestCreateOrderReturnsOrderItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(5))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id", "created_at"}).AddRow(77, time.Now()))
	mock.ExpectCommit()

	item := &models.MenuItem{Name: "Veggie Burger", Description: "House patty", Category: "Mains", Price: 4.5}
	source := &stubCatalog{items: map[string]*models.MenuItem{testItemID: item}}

	rec := postJSON(
		CreateOrder(db, source),
		`{"name":"Jane","email":"jane@example.com","total_price":4.5,"items":[{"menu_item_id":"`+testItemID+`","quantity":1}]}`,
	)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		OrderID    int                `json:"order_id"`
		OrderItems []models.OrderItem `json:"order_items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if body.OrderID != 10 {
		t.Fatalf("expected order_id 10, got %d", body.OrderID)
	}
	if len(body.OrderItems) != 1 || body.OrderItems[0].PriceAtTime != 4.5 {
		t.Fatalf("expected snapshotted price 4.5, got %+v", body.OrderItems)
	}
}

func getPath(handler gin.HandlerFunc, paramKey, paramValue string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Params = gin.Params{{Key: paramKey, Value: paramValue}}
	handler(c)
	return rec
}

func TestGetOrdersByEmailUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, name, phone_number, email, password, role, created_at, updated_at FROM users`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	rec := getPath(GetOrdersByEmail(db, &stubCatalog{}), "email", "ghost@example.com")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No orders found for this email") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetOrdersByEmailReturnsEnrichedOrdersNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	now := time.Now()
	earlier := now.Add(-time.Hour)
	mock.ExpectQuery(`SELECT user_id, name, phone_number, email, password, role, created_at, updated_at FROM users`).
		WithArgs("jane@example.com").
		WillReturnRows(userRow(5, "jane@example.com", nil))
	mock.ExpectQuery(`SELECT order_id, user_id, total_price, status, pickup_time, created_at, updated_at FROM orders`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "user_id", "total_price", "status", "pickup_time", "created_at", "updated_at"}).
			AddRow(10, 5, 9.0, "pending", nil, now, now).
			AddRow(9, 5, 4.5, "pending", nil, earlier, earlier))
	mock.ExpectQuery(`SELECT order_item_id, order_id, menu_item_id, quantity, price_at_time, special_instructions, created_at`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id", "order_id", "menu_item_id", "quantity", "price_at_time", "special_instructions", "created_at"}).
			AddRow(77, 10, testItemID, 2, 4.5, nil, now))
	mock.ExpectQuery(`SELECT order_item_id, order_id, menu_item_id, quantity, price_at_time, special_instructions, created_at`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id", "order_id", "menu_item_id", "quantity", "price_at_time", "special_instructions", "created_at"}).
			AddRow(60, 9, testItemID, 1, 4.5, nil, earlier))

	item := &models.MenuItem{Name: "Veggie Burger", Description: "House patty", Category: "Mains", Price: 4.5}
	source := &stubCatalog{items: map[string]*models.MenuItem{testItemID: item}}

	rec := getPath(GetOrdersByEmail(db, source), "email", "jane@example.com")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var orders []models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &orders); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].OrderID != 10 || orders[1].OrderID != 9 {
		t.Fatalf("expected newest order first, got %d then %d", orders[0].OrderID, orders[1].OrderID)
	}
	for _, order := range orders {
		if len(order.OrderItems) != 1 {
			t.Fatalf("expected 1 item on order %d, got %d", order.OrderID, len(order.OrderItems))
		}
		if order.OrderItems[0].MenuItem == nil || order.OrderItems[0].MenuItem.Name != "Veggie Burger" {
			t.Fatalf("expected catalog details on order %d, got %+v", order.OrderID, order.OrderItems[0].MenuItem)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

// The stored snapshot must win over the catalog's current price, while the
// attached display fields reflect the catalog as it is now.
func TestGetOrderByIDKeepsPriceSnapshotAfterCatalogEdit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT order_id, user_id, total_price, status, pickup_time, created_at, updated_at FROM orders`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "user_id", "total_price", "status", "pickup_time", "created_at", "updated_at"}).
			AddRow(10, 5, 9.0, "pending", nil, now, now))
	mock.ExpectQuery(`SELECT order_item_id, order_id, menu_item_id, quantity, price_at_time, special_instructions, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id", "order_id", "menu_item_id", "quantity", "price_at_time", "special_instructions", "created_at"}).
			AddRow(77, 10, testItemID, 2, 4.5, nil, now))
	mock.ExpectQuery(`SELECT user_id, name, phone_number, email, password, role, created_at, updated_at FROM users`).
		WillReturnRows(userRow(5, "jane@example.com", nil))

	// Catalog price has been raised since the order was placed.
	item := &models.MenuItem{Name: "Veggie Burger", Description: "House patty", Category: "Mains", Price: 7.5}
	source := &stubCatalog{items: map[string]*models.MenuItem{testItemID: item}}

	rec := getPath(GetOrderByID(db, source), "id", "10")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var order models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if order.OrderItems[0].PriceAtTime != 4.5 {
		t.Fatalf("price_at_time must stay at the snapshot, got %v", order.OrderItems[0].PriceAtTime)
	}
	if order.OrderItems[0].MenuItem == nil || order.OrderItems[0].MenuItem.Name != "Veggie Burger" {
		t.Fatalf("expected catalog details attached, got %+v", order.OrderItems[0].MenuItem)
	}
}

func TestGetOrderByIDNilMenuItemWhenCatalogDocGone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT order_id, user_id, total_price, status, pickup_time, created_at, updated_at FROM orders`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "user_id", "total_price", "status", "pickup_time", "created_at", "updated_at"}).
			AddRow(10, 5, 9.0, "pending", nil, now, now))
	mock.ExpectQuery(`SELECT order_item_id, order_id, menu_item_id, quantity, price_at_time, special_instructions, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id", "order_id", "menu_item_id", "quantity", "price_at_time", "special_instructions", "created_at"}).
			AddRow(77, 10, testItemID, 2, 4.5, nil, now))
	mock.ExpectQuery(`SELECT user_id, name, phone_number, email, password, role, created_at, updated_at FROM users`).
		WillReturnRows(userRow(5, "jane@example.com", nil))

	rec := getPath(GetOrderByID(db, &stubCatalog{}), "id", "10")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"menu_item":null`) {
		t.Fatalf("expected null menu_item for vanished catalog doc, got %s", rec.Body.String())
	}
}

func TestGetOrderByIDFailsWhenUserLookupErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT order_id, user_id, total_price, status, pickup_time, created_at, updated_at FROM orders`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "user_id", "total_price", "status", "pickup_time", "created_at", "updated_at"}).
			AddRow(10, 5, 9.0, "pending", nil, now, now))
	mock.ExpectQuery(`SELECT order_item_id, order_id, menu_item_id, quantity, price_at_time, special_instructions, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id", "order_id", "menu_item_id", "quantity", "price_at_time", "special_instructions", "created_at"}).
			AddRow(77, 10, testItemID, 2, 4.5, nil, now))
	mock.ExpectQuery(`SELECT user_id, name, phone_number, email, password, role, created_at, updated_at FROM users`).
		WillReturnError(errors.New("connection reset"))

	rec := getPath(GetOrderByID(db, &stubCatalog{}), "id", "10")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the user lookup fails, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetOrderByIDOmitsUserWhenRowGone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT order_id, user_id, total_price, status, pickup_time, created_at, updated_at FROM orders`).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "user_id", "total_price", "status", "pickup_time", "created_at", "updated_at"}).
			AddRow(10, 5, 9.0, "pending", nil, now, now))
	mock.ExpectQuery(`SELECT order_item_id, order_id, menu_item_id, quantity, price_at_time, special_instructions, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id", "order_id", "menu_item_id", "quantity", "price_at_time", "special_instructions", "created_at"}).
			AddRow(77, 10, testItemID, 2, 4.5, nil, now))
	mock.ExpectQuery(`SELECT user_id, name, phone_number, email, password, role, created_at, updated_at FROM users`).
		WillReturnError(sql.ErrNoRows)

	rec := getPath(GetOrderByID(db, &stubCatalog{}), "id", "10")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without a user row, got %d: %s", rec.Code, rec.Body.String())
	}

	var order models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("response decode failed: %v", err)
	}
	if order.User != nil {
		t.Fatalf("expected no user attached, got %+v", order.User)
	}
}

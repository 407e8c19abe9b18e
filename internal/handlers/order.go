package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"backend/internal/dbhelper"
	"backend/internal/models"
)

type createOrderItemRequest struct {
	MenuItemID          string `json:"menu_item_id" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required"`
	SpecialInstructions string `json:"special_instructions"`
}

type createOrderRequest struct {
	Name        string                   `json:"name" binding:"required"`
	PhoneNumber string                   `json:"phone_number"`
	Email       string                   `json:"email" binding:"required,email"`
	Items       []createOrderItemRequest `json:"items" binding:"required"`
	TotalPrice  *float64                 `json:"total_price" binding:"required"`
}

func buildOrderParams(req createOrderRequest) (dbhelper.CreateOrderParams, error) {
	if len(req.Items) == 0 {
		return dbhelper.CreateOrderParams{}, errors.New("at least one item is required")
	}
	if *req.TotalPrice < 0 {
		return dbhelper.CreateOrderParams{}, errors.New("total_price must not be negative")
	}

	lines := make([]dbhelper.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		if strings.TrimSpace(item.MenuItemID) == "" {
			return dbhelper.CreateOrderParams{}, errors.New("menu_item_id is required")
		}
		if item.Quantity <= 0 {
			return dbhelper.CreateOrderParams{}, errors.New("quantity must be greater than zero")
		}

		line := dbhelper.OrderLine{
			MenuItemID: strings.TrimSpace(item.MenuItemID),
			Quantity:   item.Quantity,
		}
		if instructions := strings.TrimSpace(item.SpecialInstructions); instructions != "" {
			line.SpecialInstructions = &instructions
		}
		lines = append(lines, line)
	}

	params := dbhelper.CreateOrderParams{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		TotalPrice: *req.TotalPrice,
		Items:      lines,
	}
	if phone := strings.TrimSpace(req.PhoneNumber); phone != "" {
		params.PhoneNumber = &phone
	}

	return params, nil
}

/*
POST /api/orders
- One transaction across user find-or-create, order and order items;
  a cart line pointing at a missing catalog item rolls everything back
*/
func CreateOrder(db *sql.DB, source dbhelper.MenuItemSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		params, err := buildOrderParams(req)
		if err != nil {
			respondWithMessage(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		orderID, orderItems, err := dbhelper.CreateOrder(ctx, db, source, params)
		if err != nil {
			var notFound dbhelper.MenuItemNotFoundError
			if errors.As(err, &notFound) {
				respondWithMessage(c, http.StatusNotFound, route,
					fmt.Sprintf("Menu item with ID %s not found", notFound.MenuItemID))
				return
			}
			respondWithServerError(c, route, "Error creating order", err)
			return
		}

		logrus.Println("[ORDER] [INFO] order created:", orderID)
		c.JSON(http.StatusCreated, gin.H{
			"message":     "Order created successfully",
			"order_id":    orderID,
			"order_items": orderItems,
		})
	}
}

// attachMenuItemDetails joins catalog display fields onto order items. The
// lookups run concurrently per order; an item whose catalog document has
// since vanished keeps a nil menu_item.
func attachMenuItemDetails(ctx context.Context, source dbhelper.MenuItemSource, orders []models.Order) error {
	g, ctx := errgroup.WithContext(ctx)

	for i := range orders {
		for j := range orders[i].OrderItems {
			item := &orders[i].OrderItems[j]
			g.Go(func() error {
				menuItem, err := source.MenuItemByID(ctx, item.MenuItemID)
				if err != nil {
					return err
				}
				if menuItem != nil {
					item.MenuItem = &models.MenuItemSummary{
						Name:        menuItem.Name,
						Description: menuItem.Description,
						Category:    menuItem.Category,
					}
				}
				return nil
			})
		}
	}

	return g.Wait()
}

/*
GET /api/orders/:id
*/
func GetOrderByID(db *sql.DB, source dbhelper.MenuItemSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			respondWithMessage(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, err := dbhelper.GetOrderByID(ctx, db, orderID)
		if errors.Is(err, sql.ErrNoRows) {
			respondWithMessage(c, http.StatusNotFound, route, "Order not found")
			return
		}
		if err != nil {
			respondWithServerError(c, route, "Error fetching order", err)
			return
		}

		user, err := dbhelper.GetUserByID(ctx, db, order.UserID)
		switch {
		case err == nil:
			order.User = user
		case errors.Is(err, sql.ErrNoRows):
			// user row gone; the order still renders without it
		default:
			respondWithServerError(c, route, "Error fetching order", err)
			return
		}

		orders := []models.Order{*order}
		if err := attachMenuItemDetails(ctx, source, orders); err != nil {
			respondWithServerError(c, route, "Error fetching order", err)
			return
		}

		c.JSON(http.StatusOK, orders[0])
	}
}

func ordersForUser(c *gin.Context, db *sql.DB, source dbhelper.MenuItemSource, route string, user *models.User, lookupErr error, notFoundMessage string) {
	if errors.Is(lookupErr, sql.ErrNoRows) {
		respondWithMessage(c, http.StatusNotFound, route, notFoundMessage)
		return
	}
	if lookupErr != nil {
		respondWithServerError(c, route, "Error fetching orders", lookupErr)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := dbhelper.ListOrdersByUserID(ctx, db, user.UserID)
	if err != nil {
		respondWithServerError(c, route, "Error fetching orders", err)
		return
	}

	if err := attachMenuItemDetails(ctx, source, orders); err != nil {
		respondWithServerError(c, route, "Error fetching orders", err)
		return
	}

	logrus.Printf("[%s] returning %d orders for user %d", route, len(orders), user.UserID)
	c.JSON(http.StatusOK, orders)
}

/*
GET /api/orders/email/:email
*/
func GetOrdersByEmail(db *sql.DB, source dbhelper.MenuItemSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/email/:email"
		defer handlePanic(c, route)

		email := strings.TrimSpace(c.Param("email"))
		if email == "" {
			respondWithMessage(c, http.StatusBadRequest, route, "Email is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := dbhelper.GetUserByEmail(ctx, db, email)
		ordersForUser(c, db, source, route, user, err, "No orders found for this email")
	}
}

/*
GET /api/orders/phone/:phone
*/
func GetOrdersByPhone(db *sql.DB, source dbhelper.MenuItemSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/phone/:phone"
		defer handlePanic(c, route)

		phone := strings.TrimSpace(c.Param("phone"))
		if phone == "" {
			respondWithMessage(c, http.StatusBadRequest, route, "Phone number is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := dbhelper.GetUserByPhone(ctx, db, phone)
		ordersForUser(c, db, source, route, user, err, "No orders found for this phone number")
	}
}

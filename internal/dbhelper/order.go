package dbhelper

import (
	"context"
	"database/sql"
	"fmt"

	"backend/internal/models"
)

// MenuItemSource resolves catalog documents during order creation.
// (nil, nil) means the item is not in the catalog.
type MenuItemSource interface {
	MenuItemByID(ctx context.Context, id string) (*models.MenuItem, error)
}

type OrderLine struct {
	MenuItemID          string
	Quantity            int
	SpecialInstructions *string
}

type CreateOrderParams struct {
	Name        string
	PhoneNumber *string
	Email       string
	TotalPrice  float64
	Items       []OrderLine
}

// MenuItemNotFoundError aborts the order transaction when a cart line
// references a catalog id that no longer exists.
type MenuItemNotFoundError struct {
	MenuItemID string
}

func (e MenuItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %s not found", e.MenuItemID)
}

// CreateOrder runs the whole placement inside one transaction: find or
// create the user by email, insert the order with the client-supplied
// total, then one order item per cart line with the catalog's current
// price snapshotted into price_at_time. Any missing catalog item rolls the
// whole order back.
func CreateOrder(ctx context.Context, db *sql.DB, source MenuItemSource, params CreateOrderParams) (int, []models.OrderItem, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	defer tx.Rollback()

	var userID int
	err = tx.QueryRowContext(ctx, `
		SELECT user_id FROM users
		WHERE LOWER(email) = LOWER($1)`, params.Email).Scan(&userID)
	if err == sql.ErrNoRows {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (name, phone_number, email, password, role)
			VALUES ($1, $2, $3, NULL, 'customer')
			RETURNING user_id`, params.Name, params.PhoneNumber, params.Email).Scan(&userID)
	}
	if err != nil {
		return 0, nil, err
	}

	var orderID int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_price, status)
		VALUES ($1, $2, $3)
		RETURNING order_id`, userID, params.TotalPrice, models.OrderStatusPending).Scan(&orderID)
	if err != nil {
		return 0, nil, err
	}

	orderItems := make([]models.OrderItem, 0, len(params.Items))
	for _, line := range params.Items {
		menuItem, err := source.MenuItemByID(ctx, line.MenuItemID)
		if err != nil {
			return 0, nil, err
		}
		if menuItem == nil {
			return 0, nil, MenuItemNotFoundError{MenuItemID: line.MenuItemID}
		}

		item := models.OrderItem{
			OrderID:             orderID,
			MenuItemID:          line.MenuItemID,
			Quantity:            line.Quantity,
			PriceAtTime:         menuItem.Price,
			SpecialInstructions: line.SpecialInstructions,
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_time, special_instructions)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING order_item_id, created_at`,
			orderID, line.MenuItemID, line.Quantity, menuItem.Price, line.SpecialInstructions,
		).Scan(&item.OrderItemID, &item.CreatedAt)
		if err != nil {
			return 0, nil, err
		}

		orderItems = append(orderItems, item)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, err
	}

	return orderID, orderItems, nil
}

const orderColumns = `order_id, user_id, total_price, status, pickup_time, created_at, updated_at`

func scanOrder(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Order, error) {
	var (
		order  models.Order
		pickup sql.NullTime
	)

	err := scanner.Scan(&order.OrderID, &order.UserID, &order.TotalPrice, &order.Status, &pickup, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if pickup.Valid {
		order.PickupTime = &pickup.Time
	}

	return &order, nil
}

// GetOrderByID loads one order with its items. Returns sql.ErrNoRows when
// the order does not exist.
func GetOrderByID(ctx context.Context, db *sql.DB, orderID int) (*models.Order, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE order_id = $1`, orderID)

	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := loadOrderItems(ctx, db, order.OrderID)
	if err != nil {
		return nil, err
	}
	order.OrderItems = items

	return order, nil
}

// ListOrdersByUserID returns the user's orders newest first, items included.
func ListOrdersByUserID(ctx context.Context, db *sql.DB, userID int) ([]models.Order, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := loadOrderItems(ctx, db, orders[i].OrderID)
		if err != nil {
			return nil, err
		}
		orders[i].OrderItems = items
	}

	return orders, nil
}

func loadOrderItems(ctx context.Context, db *sql.DB, orderID int) ([]models.OrderItem, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT order_item_id, order_id, menu_item_id, quantity, price_at_time, special_instructions, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY order_item_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var (
			item         models.OrderItem
			instructions sql.NullString
		)
		err := rows.Scan(&item.OrderItemID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.PriceAtTime, &instructions, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		if instructions.Valid {
			item.SpecialInstructions = &instructions.String
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

package order

import (
	"errors"

	"tatlipazar-backend/internal/auth"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request/Response Types
// -------------------------

type CheckoutRequest struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type BuyNowRequest struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemResponse struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	OwnerID   uint    `json:"owner_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	OrderNo      string              `json:"order_no"`
	BuyerID      uint                `json:"buyer_id"`
	Status       string              `json:"status"`
	TotalAmount  float64             `json:"total_amount"`
	BuyerAddress string              `json:"buyer_address"`
	BuyerPhone   string              `json:"buyer_phone"`
	CreatedAt    string              `json:"created_at"`
	Items        []OrderItemResponse `json:"items"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:           o.ID,
		OrderNo:      o.OrderNo,
		BuyerID:      o.BuyerID,
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		BuyerAddress: o.BuyerAddress,
		BuyerPhone:   o.BuyerPhone,
		CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:        make([]OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			OwnerID:   it.OwnerID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return resp
}

// toFiberError: servis hatalarını HTTP durumlarına çevir.
func toFiberError(err error) error {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return fiber.NewError(fiber.StatusBadRequest, ErrEmptyCart.Error())
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, ErrProductNotFound.Error())
	case errors.Is(err, ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrOrderNotFound):
		return fiber.NewError(fiber.StatusNotFound, ErrOrderNotFound.Error())
	case errors.Is(err, ErrUnauthorized):
		return fiber.NewError(fiber.StatusForbidden, ErrUnauthorized.Error())
	case errors.Is(err, ErrOrderFinalized):
		return fiber.NewError(fiber.StatusConflict, ErrOrderFinalized.Error())
	case errors.Is(err, ErrInvalidState):
		return fiber.NewError(fiber.StatusConflict, ErrInvalidState.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
}

// -------------------------
// Handlers
// -------------------------

// POST /api/orders/checkout
// Adres/telefon verilmezse kullanıcı profilindekiler kullanılır.
func CheckoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		contact := ContactInfo{Address: body.Address, Phone: body.Phone}
		if contact.Address == "" || contact.Phone == "" {
			var user models.User
			if err := database.DB.First(&user, userID).Error; err == nil {
				if contact.Address == "" {
					contact.Address = user.Address
				}
				if contact.Phone == "" {
					contact.Phone = user.Phone
				}
			}
		}

		created, err := Checkout(userID, contact)
		if err != nil {
			return toFiberError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(created))
	}
}

// POST /api/orders/buy-now
func BuyNowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body BuyNowRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		created, err := BuyNow(userID, body.ProductID, body.Quantity, ContactInfo{
			Address: body.Address,
			Phone:   body.Phone,
		})
		if err != nil {
			return toFiberError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(created))
	}
}

// GET /api/orders
// Alıcının kendi siparişleri.
func ListMyOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var orders []models.Order
		if err := database.DB.
			Preload("Items").
			Where("buyer_id = ?", userID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler alınamadı")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/incoming
// Satıcının kalemi olduğu siparişler (order_items.owner_id üzerinden).
func ListIncomingOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var items []models.OrderItem
		if err := database.DB.Where("owner_id = ?", userID).Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler alınamadı")
		}

		orderIDs := make([]uint, 0, len(items))
		seen := make(map[uint]bool)
		for _, it := range items {
			if !seen[it.OrderID] {
				seen[it.OrderID] = true
				orderIDs = append(orderIDs, it.OrderID)
			}
		}

		resp := make([]OrderResponse, 0, len(orderIDs))
		if len(orderIDs) > 0 {
			var orders []models.Order
			if err := database.DB.
				Preload("Items", "owner_id = ?", userID).
				Where("id IN ?", orderIDs).
				Order("created_at DESC").
				Find(&orders).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Siparişler alınamadı")
			}
			for i := range orders {
				resp = append(resp, toOrderResponse(&orders[i]))
			}
		}

		return c.JSON(resp)
	}
}

// GET /api/orders/:id
// Alıcı ya da siparişte kalemi olan satıcı görebilir.
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var o models.Order
		if err := database.DB.Preload("Items").First(&o, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if o.BuyerID != userID {
			authorized := false
			for _, it := range o.Items {
				if it.OwnerID == userID {
					authorized = true
					break
				}
			}
			if !authorized {
				return fiber.NewError(fiber.StatusForbidden, "Bu sipariş üzerinde yetkiniz yok")
			}
		}

		return c.JSON(toOrderResponse(&o))
	}
}

// PUT /api/orders/:id/status
// Alıcı tarafı kelime dağarcığı: processing / shipped / delivered / cancelled.
func UpdateStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş id geçersiz")
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		updated, err := UpdateStatus(uint(orderID), userID, models.OrderStatus(body.Status))
		if err != nil {
			return toFiberError(err)
		}

		var full models.Order
		if err := database.DB.Preload("Items").First(&full, updated.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
		}
		return c.JSON(toOrderResponse(&full))
	}
}

// PUT /api/orders/:id/confirm
// Satıcı onay akışı: accepted / rejected.
func ConfirmOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş id geçersiz")
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		updated, message, err := Confirm(uint(orderID), userID, body.Status)
		if err != nil {
			return toFiberError(err)
		}

		var full models.Order
		if err := database.DB.Preload("Items").First(&full, updated.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
		}
		return c.JSON(fiber.Map{
			"message": message,
			"order":   toOrderResponse(&full),
		})
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		orderID, err := c.ParamsInt("id")
		if err != nil || orderID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş id geçersiz")
		}

		updated, err := Cancel(uint(orderID), userID)
		if err != nil {
			return toFiberError(err)
		}

		var full models.Order
		if err := database.DB.Preload("Items").First(&full, updated.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
		}
		return c.JSON(toOrderResponse(&full))
	}
}

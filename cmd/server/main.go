package main

import (
	"log"
	"strings"

	"tatlipazar-backend/internal/audit"
	"tatlipazar-backend/internal/auth"
	"tatlipazar-backend/internal/cart"
	"tatlipazar-backend/internal/catalog"
	"tatlipazar-backend/internal/config"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/ingredient"
	"tatlipazar-backend/internal/models"
	"tatlipazar-backend/internal/notification"
	"tatlipazar-backend/internal/order"
	"tatlipazar-backend/internal/report"
	"tatlipazar-backend/internal/shop"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// .env varsa yükle, yoksa ortam değişkenleriyle devam
	if err := godotenv.Load(); err != nil {
		log.Println(".env dosyası bulunamadı, ortam değişkenleri kullanılıyor")
	}

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Public vitrin
	api.Get("/shops", shop.ListShopsHandler())
	api.Get("/shops/:id", shop.GetShopHandler())
	api.Get("/products", catalog.ListProductsHandler())
	api.Get("/products/category-counts", catalog.CategoryCountsHandler())
	api.Get("/products/:id", catalog.GetProductHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Sepet (alıcı)
	protected.Post("/cart", cart.AddToCartHandler())
	protected.Get("/cart", cart.GetCartHandler())
	protected.Put("/cart/:id", cart.UpdateCartItemHandler())
	protected.Delete("/cart/:id", cart.RemoveCartItemHandler())
	protected.Delete("/cart", cart.ClearCartHandler())

	// Siparişler
	protected.Post("/orders/checkout", order.CheckoutHandler())
	protected.Post("/orders/buy-now", order.BuyNowHandler())
	protected.Get("/orders", order.ListMyOrdersHandler())
	protected.Get("/orders/incoming", order.ListIncomingOrdersHandler())
	protected.Get("/orders/:id", order.GetOrderHandler())
	protected.Put("/orders/:id/status", order.UpdateStatusHandler())
	protected.Put("/orders/:id/confirm", order.ConfirmOrderHandler())
	protected.Post("/orders/:id/cancel", order.CancelOrderHandler())

	// Bildirimler
	protected.Get("/notifications", notification.ListNotificationsHandler())
	protected.Put("/notifications/:id/read", notification.MarkReadHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Satıcı route'ları
	seller := protected.Group("")
	seller.Use(auth.RequireRole(models.RoleSeller))

	seller.Get("/my-shop", shop.GetMyShopHandler())
	seller.Put("/my-shop", shop.UpdateMyShopHandler())

	// Ürün yönetimi
	seller.Post("/products", catalog.CreateProductHandler())
	seller.Put("/products/:id", catalog.UpdateProductHandler())
	seller.Delete("/products/:id", catalog.DeleteProductHandler())
	seller.Post("/products/bulk-import", catalog.BulkImportProductsHandler())

	// Malzeme ve parti yönetimi
	seller.Post("/ingredients", ingredient.CreateIngredientHandler())
	seller.Get("/ingredients", ingredient.ListIngredientsHandler())
	seller.Put("/ingredients/:id", ingredient.UpdateIngredientHandler())
	seller.Delete("/ingredients/:id", ingredient.DeleteIngredientHandler())
	seller.Post("/ingredient-batches", ingredient.CreateBatchHandler())
	seller.Get("/ingredient-batches", ingredient.ListBatchesHandler())
	seller.Delete("/ingredient-batches/:id", ingredient.DeleteBatchHandler())

	// Raporlar
	seller.Get("/reports/profit-by-category", report.ProfitByCategoryHandler())
	seller.Get("/reports/profit-summary", report.ProfitSummaryHandler())
	seller.Get("/reports/dashboard", report.DashboardHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}

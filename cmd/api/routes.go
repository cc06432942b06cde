package main

import (
	"tsmartwarehouse/internal/auth"
	"tsmartwarehouse/internal/httpapi"
	"tsmartwarehouse/internal/middleware"
	"tsmartwarehouse/internal/payments"
	"tsmartwarehouse/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc, webhook payments.WebhookHandler) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Provider webhooks (public; authenticated via signature verification).
	r.POST("/webhooks/payments", webhook.HandleEvent)

	// token issuance is public
	r.POST("/v1/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	v1.Use(middleware.RateLimitMiddleware())
	{
		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			cid, _ := auth.CompanyID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(200, gin.H{"user_id": uid, "company_id": cid, "role": role})
		})

		// PRICING routes: any authenticated company member can quote.
		pricing := v1.Group("/pricing")
		pricing.Use(rbac.RequireCompany())
		{
			pricing.POST("/quote", h.QuotePrice)
		}

		// QUOTE history
		quotes := v1.Group("/quotes")
		quotes.Use(rbac.RequireCompany())
		{
			quotes.GET("", h.ListQuotes)
		}

		// REPORTING routes
		reports := v1.Group("/reports")
		reports.Use(rbac.RequireCompany())
		reports.Use(rbac.RequireAnyRole(rbac.RoleOperator, rbac.RoleBroker, rbac.RoleFinance, rbac.RoleSuperAdmin))
		{
			reports.GET("/quotes", h.QuotesSummary)
			reports.GET("/warehouses", h.WarehouseActivity)
		}

		// WAREHOUSE routes
		warehouses := v1.Group("/warehouses")
		warehouses.Use(rbac.RequireCompany())
		{
			warehouses.GET("", h.ListWarehouses)
			warehouses.GET("/:warehouse_id", h.GetWarehouse)
		}

		// ADMIN routes: rate table management.
		// Hidden platform_ops is intentionally NOT included unless explicitly desired.
		admin := v1.Group("/warehouses")
		admin.Use(rbac.RequireCompany())
		admin.Use(rbac.RequireAnyRole(rbac.RoleOperator, rbac.RoleSuperAdmin))
		{
			admin.POST("", h.CreateWarehouse)
			admin.PUT("/:warehouse_id/pricing/flat", h.SetFlatPricing)
			admin.PUT("/:warehouse_id/pricing/pallet", h.SetPalletPricing)
			admin.PUT("/:warehouse_id/overrides", h.SetDateOverride)
			admin.PUT("/:warehouse_id/free-storage", h.SetFreeStorageRules)
		}
	}
}

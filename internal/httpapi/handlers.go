package httpapi

import (
	"errors"
	"net/http"
	"time"

	"tsmartwarehouse/internal/auth"
	"tsmartwarehouse/internal/metrics"
	"tsmartwarehouse/internal/pricing"
	"tsmartwarehouse/internal/quote"
	"tsmartwarehouse/internal/rbac"
	"tsmartwarehouse/internal/reporting"
	"tsmartwarehouse/internal/warehouse"
	"tsmartwarehouse/pkg/logger"
	"tsmartwarehouse/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const dateLayout = "2006-01-02"

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth       *auth.Manager
	Pricing    *pricing.Service
	Quotes     *quote.Service
	Warehouses *warehouse.Service
	Reporting  *reporting.Service
	Metrics    *metrics.Recorder

	// Redis backs per-warehouse quote concurrency caps. Optional;
	// when nil the cap is not enforced.
	Redis       *redis.Client
	QuoteCap    int
	QuoteCapTTL time.Duration
}

// --- Auth ---

type loginRequest struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.CompanyID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, company_id, role required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.CompanyID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Pricing ---

type palletLineRequest struct {
	PalletType string  `json:"pallet_type"`
	Quantity   int     `json:"quantity"`
	HeightCM   float64 `json:"height_cm"`
	WeightKG   float64 `json:"weight_kg"`
}

type palletDetailsRequest struct {
	Stackable bool                `json:"stackable"`
	GoodsType string              `json:"goods_type"`
	Lines     []palletLineRequest `json:"lines"`
}

type quoteRequest struct {
	WarehouseID string  `json:"warehouse_id"`
	Type        string  `json:"type"`
	Quantity    float64 `json:"quantity"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`

	PalletDetails *palletDetailsRequest `json:"pallet_details,omitempty"`
}

// QuotePrice computes a price breakdown and records it as a quote.
func (h Handlers) QuotePrice(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Pricing == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "pricing not configured"})
		return
	}
	companyID, err := auth.CompanyID(c.Request.Context())
	if err != nil || companyID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "company_id required"})
		return
	}
	userID, _ := auth.UserID(c.Request.Context())

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	calc, err := req.toCalculation()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if h.Redis != nil && h.QuoteCap > 0 {
		key := "quotecap:" + calc.WarehouseID
		ok, err := utils.AcquireConcurrencyCap(ctx, h.Redis, key, h.QuoteCap, h.QuoteCapTTL)
		if err != nil {
			log.Warn("quote cap acquire failed", "warehouse_id", calc.WarehouseID, "err", err)
		} else if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many concurrent quotes for warehouse"})
			return
		} else {
			defer func() {
				if err := utils.ReleaseConcurrencyCap(ctx, h.Redis, key); err != nil {
					log.Warn("quote cap release failed", "warehouse_id", calc.WarehouseID, "err", err)
				}
			}()
		}
	}

	start := time.Now()
	breakdown, err := h.Pricing.CalculatePrice(ctx, calc)
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.RecordQuoteError(errorReason(err))
		}
		switch {
		case errors.Is(err, pricing.ErrPricingNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no pricing configured for warehouse"})
		case errors.Is(err, pricing.ErrInvalidPricingReq):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Error("price calculation failed", "warehouse_id", calc.WarehouseID, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "price calculation failed"})
		}
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordQuote(string(calc.Type), breakdown.Total, time.Since(start))
	}

	resp := gin.H{"breakdown": breakdown}
	if h.Quotes != nil {
		q, err := h.Quotes.Record(ctx, companyID, userID, calc, breakdown)
		if err != nil {
			// The breakdown is still valid; recording is best-effort.
			log.Warn("quote record failed", "warehouse_id", calc.WarehouseID, "err", err)
		} else {
			resp["quote_id"] = q.ID
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (r quoteRequest) toCalculation() (pricing.PriceCalculation, error) {
	if r.WarehouseID == "" {
		return pricing.PriceCalculation{}, errors.New("warehouse_id required")
	}
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return pricing.PriceCalculation{}, errors.New("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return pricing.PriceCalculation{}, errors.New("end_date must be YYYY-MM-DD")
	}

	calc := pricing.PriceCalculation{
		WarehouseID: r.WarehouseID,
		Type:        pricing.BookingType(r.Type),
		Quantity:    r.Quantity,
		StartDate:   start,
		EndDate:     end,
	}
	if r.PalletDetails != nil {
		d := pricing.PalletDetails{
			Stackable: r.PalletDetails.Stackable,
			GoodsType: r.PalletDetails.GoodsType,
		}
		for _, l := range r.PalletDetails.Lines {
			d.Lines = append(d.Lines, pricing.PalletLine{
				PalletType: l.PalletType,
				Quantity:   l.Quantity,
				HeightCM:   l.HeightCM,
				WeightKG:   l.WeightKG,
			})
		}
		calc.PalletDetails = &d
	}
	return calc, nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, pricing.ErrPricingNotFound):
		return "not_found"
	case errors.Is(err, pricing.ErrInvalidPricingReq):
		return "invalid_request"
	default:
		return "internal"
	}
}

// --- Quotes ---

// ListQuotes returns recorded quotes for the caller's company.
// Query params: from, to (YYYY-MM-DD, required), warehouse_id (optional).
func (h Handlers) ListQuotes(c *gin.Context) {
	if h.Quotes == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "quotes not configured"})
		return
	}
	companyID, err := auth.CompanyID(c.Request.Context())
	if err != nil || companyID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "company_id required"})
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	quotes, err := h.Quotes.List(c.Request.Context(), companyID, from, to, c.Query("warehouse_id"))
	if err != nil {
		if errors.Is(err, quote.ErrInvalidQuote) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "quote listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// --- Reporting ---

func (h Handlers) QuotesSummary(c *gin.Context) {
	if h.Reporting == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	companyID, err := auth.CompanyID(c.Request.Context())
	if err != nil || companyID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "company_id required"})
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	out, err := h.Reporting.QuotesSummary(c.Request.Context(), reporting.QuotesSummaryRequest{
		CompanyID:   companyID,
		Range:       reporting.TimeRange{From: from, To: to},
		WarehouseID: c.Query("warehouse_id"),
	})
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidRequest) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) WarehouseActivity(c *gin.Context) {
	if h.Reporting == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	companyID, err := auth.CompanyID(c.Request.Context())
	if err != nil || companyID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "company_id required"})
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	out, err := h.Reporting.WarehouseActivity(c.Request.Context(), reporting.WarehouseActivityRequest{
		CompanyID: companyID,
		Range:     reporting.TimeRange{From: from, To: to},
	})
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidRequest) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "activity report failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- Warehouses ---

type createWarehouseRequest struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	PalletCapacity int     `json:"pallet_capacity"`
	AreaSqFt       float64 `json:"area_sq_ft"`
}

func (h Handlers) CreateWarehouse(c *gin.Context) {
	if h.Warehouses == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "warehouses not configured"})
		return
	}
	companyID, err := auth.CompanyID(c.Request.Context())
	if err != nil || companyID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "company_id required"})
		return
	}

	var req createWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	w, err := h.Warehouses.Create(c.Request.Context(), companyID, warehouse.Warehouse{
		Name:           req.Name,
		Address:        req.Address,
		PalletCapacity: req.PalletCapacity,
		AreaSqFt:       req.AreaSqFt,
	})
	if err != nil {
		h.warehouseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h Handlers) GetWarehouse(c *gin.Context) {
	if h.Warehouses == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "warehouses not configured"})
		return
	}
	companyID, err := auth.CompanyID(c.Request.Context())
	if err != nil || companyID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "company_id required"})
		return
	}
	w, err := h.Warehouses.Get(c.Request.Context(), companyID, c.Param("warehouse_id"))
	if err != nil {
		h.warehouseError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h Handlers) ListWarehouses(c *gin.Context) {
	if h.Warehouses == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "warehouses not configured"})
		return
	}
	companyID, err := auth.CompanyID(c.Request.Context())
	if err != nil || companyID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "company_id required"})
		return
	}
	ws, err := h.Warehouses.List(c.Request.Context(), companyID)
	if err != nil {
		h.warehouseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warehouses": ws})
}

// --- Rate tables (admin) ---

func (h Handlers) SetFlatPricing(c *gin.Context) {
	if h.Warehouses == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "warehouses not configured"})
		return
	}
	companyID, actor, ok := h.adminIdentity(c)
	if !ok {
		return
	}

	var row pricing.WarehousePricing
	if err := c.ShouldBindJSON(&row); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	row.WarehouseID = c.Param("warehouse_id")

	saved, err := h.Warehouses.SetFlatPricing(c.Request.Context(), companyID, actor, row)
	if err != nil {
		h.warehouseError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h Handlers) SetPalletPricing(c *gin.Context) {
	if h.Warehouses == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "warehouses not configured"})
		return
	}
	companyID, actor, ok := h.adminIdentity(c)
	if !ok {
		return
	}

	var row pricing.PalletPricing
	if err := c.ShouldBindJSON(&row); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	row.WarehouseID = c.Param("warehouse_id")

	saved, err := h.Warehouses.SetPalletPricing(c.Request.Context(), companyID, actor, row)
	if err != nil {
		h.warehouseError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

type dateOverrideRequest struct {
	Date        string   `json:"date"`
	PalletPrice *float64 `json:"pallet_price,omitempty"`
	AreaPrice   *float64 `json:"area_price,omitempty"`
}

func (h Handlers) SetDateOverride(c *gin.Context) {
	if h.Warehouses == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "warehouses not configured"})
		return
	}
	companyID, actor, ok := h.adminIdentity(c)
	if !ok {
		return
	}

	var req dateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	err = h.Warehouses.SetDateOverride(c.Request.Context(), companyID, actor, c.Param("warehouse_id"), warehouse.DateOverride{
		Date:        day,
		PalletPrice: req.PalletPrice,
		AreaPrice:   req.AreaPrice,
	})
	if err != nil {
		h.warehouseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h Handlers) SetFreeStorageRules(c *gin.Context) {
	if h.Warehouses == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "warehouses not configured"})
		return
	}
	companyID, actor, ok := h.adminIdentity(c)
	if !ok {
		return
	}

	var rules pricing.FreeStorageRules
	if err := c.ShouldBindJSON(&rules); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	saved, err := h.Warehouses.SetFreeStorageRules(c.Request.Context(), companyID, actor, c.Param("warehouse_id"), rules)
	if err != nil {
		h.warehouseError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// --- helpers ---

func (h Handlers) adminIdentity(c *gin.Context) (string, warehouse.Actor, bool) {
	companyID, err := auth.CompanyID(c.Request.Context())
	if err != nil || companyID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "company_id required"})
		return "", warehouse.Actor{}, false
	}
	userID, _ := auth.UserID(c.Request.Context())
	role, _ := auth.Role(c.Request.Context())
	return companyID, warehouse.Actor{UserID: userID, Role: role, IP: c.ClientIP()}, true
}

func (h Handlers) warehouseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, warehouse.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "warehouse not found"})
	case errors.Is(err, warehouse.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error("warehouse operation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}

func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	// Inclusive end-of-day so same-day ranges match quotes created that day.
	return from, to.Add(24*time.Hour - time.Nanosecond), true
}

// Convenience middleware bundles.

func RequireCompanyAndAnyRole(roles ...string) []gin.HandlerFunc {
	return []gin.HandlerFunc{rbac.RequireCompany(), rbac.RequireAnyRole(roles...)}
}

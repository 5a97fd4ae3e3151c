package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"crm-service/internal/http/middleware"
	"crm-service/internal/model"
	"crm-service/internal/parser"
	"crm-service/internal/repository"
	"crm-service/internal/service"
)

type Handler struct {
	customerService *service.CustomerService
	importService   *service.ImportService
	log             zerolog.Logger
}

func NewHandler(
	customerService *service.CustomerService,
	importService *service.ImportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		customerService: customerService,
		importService:   importService,
		log:             log,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	drivers := r.Group("/drivers")
	{
		drivers.GET("", h.listDrivers)
		drivers.GET("/:id", h.getDriver)
		drivers.GET("/:id/customer", h.getDriverCustomer)
	}

	customers := r.Group("/customers")
	{
		customers.GET("", h.listCustomers)
		customers.POST("", h.createCustomer)
		customers.GET("/:id", h.getCustomer)
		// Batch import (RPA agent / spreadsheet export)
		customers.POST("/import", h.importCustomers)
		customers.POST("/import/sample", h.importSample)
	}

	r.GET("/dashboard", h.getDashboard)
	r.POST("/geocode", h.geocode)
	r.POST("/map/pick", h.pickLocation)
}

func (h *Handler) listDrivers(c *gin.Context) {
	var status *model.DriverStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		s := model.DriverStatus(strings.ToLower(raw))
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, errorResponse("invalid driver status"))
			return
		}
		status = &s
	}

	c.JSON(http.StatusOK, successResponse(h.customerService.ListDrivers(c.Request.Context(), status)))
}

func (h *Handler) getDriver(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver id"))
		return
	}

	driver, err := h.customerService.GetDriver(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(driver))
}

func (h *Handler) getDriverCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid driver id"))
		return
	}

	customer, err := h.customerService.FindByDriver(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// null data means the driver has no customers yet
	c.JSON(http.StatusOK, successResponse(customer))
}

func (h *Handler) listCustomers(c *gin.Context) {
	filter := repository.CustomerListFilter{}

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := model.CustomerStatus(strings.ToLower(raw))
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, errorResponse("invalid status"))
			return
		}
		filter.Status = &status
	}

	if raw := strings.TrimSpace(c.Query("added_via")); raw != "" {
		addedVia := model.AddedVia(strings.ToLower(raw))
		if !addedVia.Valid() {
			c.JSON(http.StatusBadRequest, errorResponse("invalid added_via"))
			return
		}
		filter.AddedVia = &addedVia
	}

	if raw := strings.TrimSpace(c.Query("driver_id")); raw != "" {
		filter.DriverID = &raw
	}

	c.JSON(http.StatusOK, successResponse(h.customerService.List(c.Request.Context(), filter)))
}

func (h *Handler) getCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid customer id"))
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(customer))
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Company     string `json:"company"`
		AddressName string `json:"address_name"`
		Location    *struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		} `json:"location"`
		AssignedDriverID *string `json:"assigned_driver_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	// A location object without both axes is as good as no location.
	var location *model.Coordinate
	if req.Location != nil {
		if req.Location.X == nil || req.Location.Y == nil {
			h.handleError(c, &service.ValidationError{Field: "location", Reason: "both x and y are required"})
			return
		}
		location = &model.Coordinate{X: *req.Location.X, Y: *req.Location.Y}
	}

	customer, err := h.customerService.CreateManual(c.Request.Context(), service.CreateCustomerInput{
		Name:             req.Name,
		Company:          req.Company,
		AddressName:      req.AddressName,
		Location:         location,
		AssignedDriverID: req.AssignedDriverID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(customer))
}

type importResponse struct {
	*service.ImportResult
	Warnings []parser.Warning `json:"warnings,omitempty"`
}

func (h *Handler) importCustomers(c *gin.Context) {
	var (
		rows     []service.ImportRow
		warnings []parser.Warning
	)

	if strings.HasPrefix(c.ContentType(), "text/csv") {
		decoded, err := parser.DecodeImportCSV(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		rows = decoded.Rows
		warnings = decoded.Warnings
	} else {
		var req struct {
			Rows []service.ImportRow `json:"rows"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		rows = req.Rows
	}

	h.runImport(c, rows, warnings)
}

func (h *Handler) importSample(c *gin.Context) {
	h.runImport(c, service.SampleImportRows(), nil)
}

func (h *Handler) runImport(c *gin.Context, rows []service.ImportRow, warnings []parser.Warning) {
	log := zerolog.Ctx(c.Request.Context())
	result, err := h.importService.Import(c.Request.Context(), rows, service.WithProgress(func(p service.ImportProgress) {
		log.Debug().Str("stage", string(p.Stage)).Int("percent", p.Percent).Msg("import progress")
	}))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(importResponse{ImportResult: result, Warnings: warnings}))
}

func (h *Handler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.customerService.GetDashboardCounts(c.Request.Context())))
}

func (h *Handler) geocode(c *gin.Context) {
	var req struct {
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	coord, err := h.customerService.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(coord))
}

func (h *Handler) pickLocation(c *gin.Context) {
	var req struct {
		PX     float64 `json:"px"`
		PY     float64 `json:"py"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	coord, err := model.FromSurfacePoint(req.PX, req.PY, req.Width, req.Height)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, successResponse(coord))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().
			Err(err).
			Str("request_id", middleware.RequestID(c)).
			Str("path", c.FullPath()).
			Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}

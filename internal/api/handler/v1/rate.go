package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rsconstruction/constructhub-api/internal/api/handler/v1/request"
	"github.com/rsconstruction/constructhub-api/internal/api/handler/v1/response"
	"github.com/rsconstruction/constructhub-api/internal/domain"
	"github.com/rsconstruction/constructhub-api/internal/export"
	"github.com/rsconstruction/constructhub-api/internal/service"
)

type RateService interface {
	ListRates(ctx context.Context, filter domain.FilterSpec, sortSpec domain.SortSpec) ([]domain.MaterialRate, domain.Statistics, error)
	CreateRate(ctx context.Context, rate domain.MaterialRate) (domain.MaterialRate, error)
	UpdateRate(ctx context.Context, id uint, patch domain.RatePatch) (domain.MaterialRate, error)
	DeleteRate(ctx context.Context, id uint) error
	BulkAdjust(ctx context.Context, ids []uint, percent float64, direction string) ([]domain.MaterialRate, error)
	ImportRates(ctx context.Context, rates []domain.MaterialRate) ([]domain.MaterialRate, error)
	RateHistory(ctx context.Context, rateID uint) ([]domain.RateHistory, error)
}

type RateHandler struct {
	svc  RateService
	uSvc UserService
}

func NewRateHandler(svc RateService, uSvc UserService) *RateHandler {
	return &RateHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func filterFromQuery(ctx *gin.Context) domain.FilterSpec {
	return domain.FilterSpec{
		Search:   ctx.Query("search"),
		Category: ctx.Query("category"),
		Quality:  ctx.Query("quality"),
	}
}

func sortFromQuery(ctx *gin.Context) domain.SortSpec {
	return domain.SortSpec{
		Key:  domain.SortKey(ctx.Query("sort_by")),
		Desc: ctx.Query("sort_dir") == "desc",
	}
}

func rateIDFromPath(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("rateID"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid rate ID (%v)", ctx.Param("rateID"))
	}

	return uint(id), nil
}

// HandleListRates godoc
// @Summary      List daily material rates
// @Description  Returns the filtered, sorted view plus collection statistics.
// @Tags         rates
// @Produce      json
// @Param        search    query     string  false  "substring match on name, category or source"
// @Param        category  query     string  false  "exact category filter"
// @Param        quality   query     string  false  "exact quality grade filter"
// @Param        sort_by   query     string  false  "material_name | category | current_price | change_percent"
// @Param        sort_dir  query     string  false  "asc | desc"
// @Success      200       {object}  response.RatesResponse
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /admin/daily-rates [get]
// @Security     BearerAuth
func (h *RateHandler) HandleListRates(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	h.renderRates(ctx)
}

// HandleCustomerRates godoc
// @Summary      List daily material rates (customer view)
// @Tags         rates
// @Produce      json
// @Param        search    query     string  false  "substring match on name, category or source"
// @Param        category  query     string  false  "exact category filter"
// @Param        quality   query     string  false  "exact quality grade filter"
// @Param        sort_by   query     string  false  "material_name | category | current_price | change_percent"
// @Param        sort_dir  query     string  false  "asc | desc"
// @Success      200       {object}  response.RatesResponse
// @Failure      401       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /customer/daily-rates [get]
// @Security     BearerAuth
func (h *RateHandler) HandleCustomerRates(ctx *gin.Context) {
	if _, respErr := getUserFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	h.renderRates(ctx)
}

func (h *RateHandler) renderRates(ctx *gin.Context) {
	rates, stats, err := h.svc.ListRates(ctx.Request.Context(), filterFromQuery(ctx), sortFromQuery(ctx))
	if err != nil {
		err = fmt.Errorf("v1.renderRates -> h.svc.ListRates -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.RatesResponse{
		Rates: rates,
		Stats: stats,
	})
}

// HandleCreateRate godoc
// @Summary      Create a material rate
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateRateRequest  true  "request body"
// @Success      201      {object}  domain.MaterialRate
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/daily-rates [post]
// @Security     BearerAuth
func (h *RateHandler) HandleCreateRate(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateRateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created, err := h.svc.CreateRate(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateRate -> h.svc.CreateRate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateRate godoc
// @Summary      Update a material rate
// @Description  Partial update. If either price changes, the change percent is recomputed server-side.
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        rateID   path      int                        true  "rate ID"
// @Param        request  body      request.UpdateRateRequest  true  "request body"
// @Success      200      {object}  domain.MaterialRate
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/daily-rates/{rateID} [put]
// @Security     BearerAuth
func (h *RateHandler) HandleUpdateRate(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id, err := rateIDFromPath(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateRateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	updated, err := h.svc.UpdateRate(ctx.Request.Context(), id, req.ToPatch())
	if err != nil {
		if errors.Is(err, service.ErrRateNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("rate", "ID", id))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateRate -> h.svc.UpdateRate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteRate godoc
// @Summary      Delete a material rate
// @Tags         rates
// @Produce      json
// @Param        rateID  path      int  true  "rate ID"
// @Success      200     {object}  map[string]string
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/daily-rates/{rateID} [delete]
// @Security     BearerAuth
func (h *RateHandler) HandleDeleteRate(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id, err := rateIDFromPath(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.DeleteRate(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrRateNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("rate", "ID", id))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteRate -> h.svc.DeleteRate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "rate deleted"})
}

// HandleBulkUpdate godoc
// @Summary      Apply a percentage adjustment to selected rates
// @Description  Adjusts each selected rate by the given percent and returns the refreshed full collection.
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        request  body      request.BulkUpdateRequest  true  "request body"
// @Success      200      {object}  response.BulkUpdateResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/daily-rates/bulk-update [post]
// @Security     BearerAuth
func (h *RateHandler) HandleBulkUpdate(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.BulkUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	rates, err := h.svc.BulkAdjust(ctx.Request.Context(), req.RateIDs, req.Percent, req.Direction)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoRatesSelected):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrRateNotFound):
			response.RenderErr(ctx, response.ErrNotFound("rate", "IDs", req.RateIDs))
		default:
			err = fmt.Errorf("v1.HandleBulkUpdate -> h.svc.BulkAdjust -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.BulkUpdateResponse{Rates: rates})
}

// HandleImportRates godoc
// @Summary      Import rates from an uploaded spreadsheet
// @Description  Accepts a .xlsx or .csv upload; rows without a material name or a parsable price are skipped.
// @Tags         rates
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "spreadsheet file"
// @Success      201   {object}  response.ImportResponse
// @Failure      400   {object}  response.Err
// @Failure      401   {object}  response.Err
// @Failure      403   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /admin/daily-rates/import [post]
// @Security     BearerAuth
func (h *RateHandler) HandleImportRates(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("missing file upload")))

		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		err = fmt.Errorf("v1.HandleImportRates -> fileHeader.Open -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}
	defer func() { _ = file.Close() }()

	rates, skipped, err := export.ParseSpreadsheet(fileHeader.Filename, file)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("could not parse spreadsheet: %w", err)))

		return
	}

	created, err := h.svc.ImportRates(ctx.Request.Context(), rates)
	if err != nil {
		err = fmt.Errorf("v1.HandleImportRates -> h.svc.ImportRates -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.ImportResponse{
		Created: created,
		Skipped: skipped,
	})
}

// HandleExportRates godoc
// @Summary      Export the filtered rate view
// @Description  Streams the current filtered, sorted view as csv, xlsx, pdf or json.
// @Tags         rates
// @Produce      application/octet-stream
// @Param        format    query  string  true   "csv | xlsx | pdf | json"
// @Param        search    query  string  false  "substring match on name, category or source"
// @Param        category  query  string  false  "exact category filter"
// @Param        quality   query  string  false  "exact quality grade filter"
// @Param        sort_by   query  string  false  "material_name | category | current_price | change_percent"
// @Param        sort_dir  query  string  false  "asc | desc"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/daily-rates/export [get]
// @Security     BearerAuth
func (h *RateHandler) HandleExportRates(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	rates, _, err := h.svc.ListRates(ctx.Request.Context(), filterFromQuery(ctx), sortFromQuery(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleExportRates -> h.svc.ListRates -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	now := time.Now()
	stamp := now.Format("2006-01-02")

	var (
		data        []byte
		contentType string
		filename    string
	)

	switch format := ctx.DefaultQuery("format", "csv"); format {
	case "csv":
		data, err = export.CSV(rates)
		contentType = "text/csv"
		filename = "daily-rates-" + stamp + ".csv"
	case "xlsx":
		data, err = export.XLSX(rates)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "daily-rates-" + stamp + ".xlsx"
	case "pdf":
		data, err = export.PDF(rates, now)
		contentType = "application/pdf"
		filename = "daily-rates-" + stamp + ".pdf"
	case "json":
		data, err = export.JSON(rates)
		contentType = "application/json"
		filename = "daily-rates-" + stamp + ".json"
	default:
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("unsupported export format (%v)", format)))

		return
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleExportRates -> export -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, contentType, data)
}

// HandleGetRateHistory godoc
// @Summary      Get the price history of a rate
// @Tags         rates
// @Produce      json
// @Param        rateID  path      int  true  "rate ID"
// @Success      200     {array}   domain.RateHistory
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/daily-rates/{rateID}/history [get]
// @Security     BearerAuth
func (h *RateHandler) HandleGetRateHistory(ctx *gin.Context) {
	if _, respErr := requireAdmin(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id, err := rateIDFromPath(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	entries, err := h.svc.RateHistory(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRateNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("rate", "ID", id))

			return
		}

		err = fmt.Errorf("v1.HandleGetRateHistory -> h.svc.RateHistory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, entries)
}

package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/domain"
	"github.com/jafarshop/productcreator/pkg/errors"
)

// ProductSaver runs one product assembly workflow
type ProductSaver interface {
	SaveProduct(ctx context.Context, req *domain.ProductRequest) (*domain.Result, error)
}

// HandleCreateProduct handles POST /v1/products.
// A product_id in the body turns the run into an update.
func HandleCreateProduct(saver ProductSaver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		runSave(c, saver, &req, logger)
	}
}

// HandleUpdateProduct handles PUT /v1/products/:id
func HandleUpdateProduct(saver ProductSaver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		var req domain.ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		// The path id wins over any id in the body
		req.ProductID = &id
		runSave(c, saver, &req, logger)
	}
}

func runSave(c *gin.Context, saver ProductSaver, req *domain.ProductRequest, logger *zap.Logger) {
	result, err := saver.SaveProduct(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Product save failed", zap.Error(err))
		}
		if result == nil {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(status, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func statusForError(err error) int {
	var validationErr *errors.ErrValidation
	var notFoundErr *errors.ErrNotFound
	switch {
	case stderrors.As(err, &validationErr):
		return http.StatusBadRequest
	case stderrors.As(err, &notFoundErr):
		return http.StatusNotFound
	case stderrors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusBadGateway
	}
}

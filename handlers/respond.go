package handlers

import (
	"errors"
	"net/http"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondBindError maps request decoding failures to 400. Malformed JSON,
// wrong field types, bad enum values and missing required fields all surface
// here; the body never reached business logic so there is nothing to log.
func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(validationErrs)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respondError maps business sentinels to HTTP statuses and keeps the
// response envelope uniform.
func respondError(c *gin.Context, moduleName string, funcName string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, utils.ErrorDuplicateValue),
		errors.Is(err, models.ErrDiscountExists),
		errors.Is(err, models.ErrFreeIssueExists),
		errors.Is(err, models.ErrDuplicatePoNumber),
		errors.Is(err, models.ErrDuplicateInvoiceNumber):
		status = http.StatusConflict
	case errors.Is(err, models.ErrNegativePrice),
		errors.Is(err, models.ErrDiscountOutOfRange),
		errors.Is(err, models.ErrInvalidFreeIssueQty),
		errors.Is(err, models.ErrSkuInUse),
		errors.Is(err, models.ErrZoneHasRegions),
		errors.Is(err, models.ErrRegionHasTerritories),
		errors.Is(err, models.ErrTerritoryInUse),
		errors.Is(err, models.ErrEmptyOrder),
		errors.Is(err, models.ErrInvalidQty),
		errors.Is(err, models.ErrPriceMismatch),
		errors.Is(err, models.ErrEmptyInvoice),
		errors.Is(err, models.ErrInvalidStatusTransition):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		config.LogError(config.GetLogger(), moduleName, funcName, "", nil, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func pathId(c *gin.Context) (int, bool) {
	var uri struct {
		Id int `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uri.Id, true
}

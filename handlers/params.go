package handlers

import (
	"errors"
	"fmt"
	"strings"

	"stock-portfolio/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticker", validTicker)
	}
}

// validTicker accepts exchange symbols such as BRK.B or RDS-A.
func validTicker(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '.' || r == '-')
	}) < 0
}

type stockURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

type watchlistURI struct {
	StockID uint `uri:"stockId" binding:"required,min=1"`
}

type symbolURI struct {
	Symbol string `uri:"symbol" binding:"required,max=16,ticker"`
}

// Optional query parameters are pointers so an absent value stays nil and
// an explicit zero is rejected.
type pageQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1"`
}

type historyQuery struct {
	Days *int `form:"days" binding:"omitempty,min=1"`
}

// orDefault returns def when n is absent and caps n at max.
func orDefault(n *int, def, max int) int {
	if n == nil {
		return def
	}
	if *n > max {
		return max
	}
	return *n
}

// badRequest marks a binding failure as a validation error shown to the
// client as message.
func badRequest(err error, message string) error {
	return withMessage(fmt.Errorf("%w: %w", models.ErrValidation, err), message)
}

// missingField reports whether binding failed on a required field.
func missingField(err error) bool {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return false
	}
	for _, f := range fields {
		if f.Tag() == "required" {
			return true
		}
	}
	return false
}
